// SPDX-License-Identifier: EPL-2.0

package adpcm

import "github.com/ik5/vgmpbx/codec"

// byteExpander turns one 8-bit code into the next sample.
type byteExpander func(code byte, hist *int32, scale int32)

// kcejExpand: bit 7 sign, bits 4..6 right shift, bits 0..3 magnitude.
func kcejExpand(code byte, hist *int32, _ int32) {
	delta := (int32(code&0x0f) << 8) >> ((code >> 4) & 0x07)
	if code&0x80 != 0 {
		delta = -delta
	}

	*hist = int32(codec.Clamp16(*hist + delta))
}

// wadyExpand: a set top bit carries a 7-bit PCM value; otherwise bit 6 is
// the sign and bits 0..5 index the delta table, scaled per stream.
func wadyExpand(code byte, hist *int32, scale int32) {
	if code&0x80 != 0 {
		*hist = int32(int8(code<<1)) << 8
		return
	}

	if scale <= 0 {
		scale = 1
	}

	delta := wadySteps[code&0x3f] * scale
	if code&0x40 != 0 {
		delta = -delta
	}

	*hist = int32(codec.Clamp16(*hist + delta))
}

// circusExpand adds a signed byte shifted left by the stream scale (8 when
// the stream sets none).
func circusExpand(code byte, hist *int32, scale int32) {
	if scale <= 0 {
		scale = 8
	}

	*hist = int32(codec.Clamp16(*hist + int32(int8(code))<<scale))
}

// byteCodes is a stream of one code per sample; each lane owns one byte of
// every frame.
type byteCodes struct {
	lanes  int
	expand byteExpander
	buf    []byte
}

func (d *byteCodes) SamplesPerFrame() int { return 1 }
func (d *byteCodes) FrameBytes() int      { return d.lanes }

func (d *byteCodes) Decode(st *codec.State, lane int, out []int16, stride, pos, todo int) {
	d.buf = codec.ReadFrame(st.Src, st.Offset+int64(pos*d.lanes), todo*d.lanes, d.buf)

	hist := st.Hist1
	for i := range todo {
		d.expand(d.buf[i*d.lanes+lane], &hist, st.Scale)
		out[i*stride] = int16(hist)
	}

	st.Hist1 = hist
}
