// SPDX-License-Identifier: EPL-2.0

package adpcm

import (
	"encoding/binary"

	"github.com/ik5/vgmpbx/codec"
)

// dsa is Ocean DSA: 8-byte frames, header low nibble selects a 16.16
// filter, high nibble the shift; one history, output scaled by 4.
type dsa struct {
	lanes int
	buf   []byte
}

func (d *dsa) SamplesPerFrame() int { return 14 }
func (d *dsa) FrameBytes() int      { return 8 * d.lanes }

func (d *dsa) Decode(st *codec.State, lane int, out []int16, stride, pos, todo int) {
	codec.EachFrame(14, pos, todo, func(idx, first, n, done int) {
		d.buf = laneFrame(st, d.buf, idx, 8, d.lanes, lane)
		f := d.buf

		coef := int64(dsaCoefs[f[0]&0x0f])
		shift := max(0, 12-int32(f[0]>>4))
		h1 := st.Hist1

		for i := first; i < first+n; i++ {
			b := f[1+i/2]
			nib := b >> 4
			if i&1 == 1 {
				nib = b & 0x0f
			}

			s := int32(int16(uint16(nib)<<12)) >> shift
			s += int32((int64(h1) * coef) >> 16)

			out[(done+i-first)*stride] = codec.Clamp16(s << 2)
			h1 = s
		}

		st.Hist1 = h1
	})
}

// tantalus frames are 0x10 bytes: a shift in the header's upper nibble and
// 30 nibbles, low first, added to the previous sample.
type tantalus struct {
	lanes int
	buf   []byte
}

func (d *tantalus) SamplesPerFrame() int { return 30 }
func (d *tantalus) FrameBytes() int      { return 0x10 * d.lanes }

func (d *tantalus) Decode(st *codec.State, lane int, out []int16, stride, pos, todo int) {
	codec.EachFrame(30, pos, todo, func(idx, first, n, done int) {
		d.buf = laneFrame(st, d.buf, idx, 0x10, d.lanes, lane)
		f := d.buf

		shift := int32(f[0] >> 4)
		h1 := st.Hist1

		for i := first; i < first+n; i++ {
			b := f[1+i/2]
			nib := b & 0x0f
			if i&1 == 1 {
				nib = b >> 4
			}

			s := int32(codec.Clamp16((int32(int16(uint16(nib)<<12)) >> shift) + h1))
			out[(done+i-first)*stride] = int16(s)
			h1 = s
		}

		st.Hist1 = h1
	})
}

// xmd frames start with hist2, hist1 and a scale (s16 LE each); both
// history samples are output, then the nibbles, low first.
type xmd struct {
	size  int
	lanes int
	buf   []byte
	pcm   []int16
}

func (d *xmd) SamplesPerFrame() int { return 2 + (d.size-6)*2 }
func (d *xmd) FrameBytes() int      { return d.size * d.lanes }

func (d *xmd) Decode(st *codec.State, lane int, out []int16, stride, pos, todo int) {
	spf := d.SamplesPerFrame()
	d.pcm = grow(d.pcm, spf)

	codec.EachFrame(spf, pos, todo, func(idx, first, n, done int) {
		d.buf = laneFrame(st, d.buf, idx, d.size, d.lanes, lane)
		f := d.buf

		h2 := int32(int16(binary.LittleEndian.Uint16(f[0:])))
		h1 := int32(int16(binary.LittleEndian.Uint16(f[2:])))
		scale := int32(binary.LittleEndian.Uint16(f[4:]))
		d.pcm[0], d.pcm[1] = int16(h2), int16(h1)

		for i := 2; i < spf; i++ {
			b := f[6+(i-2)/2]
			nib := codec.LowNibble(b)
			if (i-2)&1 == 1 {
				nib = codec.HighNibble(b)
			}

			s := int32(codec.Clamp16(nib*scale + ((h1*0x7298 - h2*0x3350) >> 14)))
			d.pcm[i] = int16(s)
			h2, h1 = h1, s
		}

		copyRun(out, stride, d.pcm, first, n, done)
		st.Hist1, st.Hist2 = h1, h2
	})
}

// eaxaPredict applies an EA-XA filter to a sign-extended nibble placed in
// the top of a 32-bit word.
func eaxaPredict(nib byte, shift uint, c1, c2, h1, h2 int32) int32 {
	s := int32(uint32(nib)<<28) >> shift
	return int32(codec.Clamp16((s + c1*h1 + c2*h2 + 0x80) >> 8))
}

// eaxa is the per-channel EA-XA frame: one filter/shift byte and 14 bytes
// of nibbles, high first, continuing the history of the previous frame.
type eaxa struct {
	lanes int
	buf   []byte
}

func (d *eaxa) SamplesPerFrame() int { return 28 }
func (d *eaxa) FrameBytes() int      { return 0x0f * d.lanes }

func (d *eaxa) Decode(st *codec.State, lane int, out []int16, stride, pos, todo int) {
	codec.EachFrame(28, pos, todo, func(idx, first, n, done int) {
		d.buf = laneFrame(st, d.buf, idx, 0x0f, d.lanes, lane)
		f := d.buf

		ci := int(f[0]>>4) & 0x03
		c1, c2 := eaxaCoefs[ci], eaxaCoefs[ci+4]
		shift := uint(f[0]&0x0f) + 8
		h1, h2 := st.Hist1, st.Hist2

		for i := first; i < first+n; i++ {
			b := f[1+i/2]
			nib := b >> 4
			if i&1 == 1 {
				nib = b & 0x0f
			}

			s := eaxaPredict(nib, shift, c1, c2, h1, h2)
			out[(done+i-first)*stride] = int16(s)
			h2, h1 = h1, s
		}

		st.Hist1, st.Hist2 = h1, h2
	})
}

// eaxas frames are 0x4c bytes holding four 32-sample subframes. Each
// subframe header packs hist2 and the filter into its low word and hist1
// and the shift into its high word; the data bytes of the four subframes
// are interleaved.
type eaxas struct {
	lanes int
	buf   []byte
	pcm   [128]int16
}

func (d *eaxas) SamplesPerFrame() int { return 128 }
func (d *eaxas) FrameBytes() int      { return 0x4c * d.lanes }

func (d *eaxas) Decode(st *codec.State, lane int, out []int16, stride, pos, todo int) {
	codec.EachFrame(128, pos, todo, func(idx, first, n, done int) {
		d.buf = laneFrame(st, d.buf, idx, 0x4c, d.lanes, lane)
		f := d.buf

		var h1, h2 int32
		for sub := range 4 {
			hdr := binary.LittleEndian.Uint32(f[4*sub:])
			ci := int(hdr & 0x03)
			c1, c2 := eaxaCoefs[ci], eaxaCoefs[ci+4]
			shift := uint((hdr>>16)&0x0f) + 8
			h2 = int32(int16(hdr & 0xfff0))
			h1 = int32(int16((hdr >> 16) & 0xfff0))

			pcm := d.pcm[sub*32:]
			pcm[0], pcm[1] = int16(h2), int16(h1)

			for k := range 15 {
				b := f[0x10+k*4+sub]
				for half := range 2 {
					nib := b & 0x0f
					if half == 1 {
						nib = b >> 4
					}

					s := eaxaPredict(nib, shift, c1, c2, h1, h2)
					pcm[2+k*2+half] = int16(s)
					h2, h1 = h1, s
				}
			}
		}

		copyRun(out, stride, d.pcm[:], first, n, done)
		st.Hist1, st.Hist2 = h1, h2
	})
}
