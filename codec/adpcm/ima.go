// SPDX-License-Identifier: EPL-2.0

package adpcm

import (
	"encoding/binary"

	"github.com/ik5/vgmpbx/codec"
)

// expander turns one 4-bit code into the next sample, updating the history
// and step index in place.
type expander func(code byte, hist, index *int32)

func clampIndex(v, hi int32) int32 { return max(0, min(v, hi)) }

// imaStd is the reference IMA expansion: the delta is built from the step
// halves selected by the code bits.
func imaStd(code byte, hist, index *int32) {
	step := imaSteps[*index]

	delta := step >> 3
	if code&1 != 0 {
		delta += step >> 2
	}
	if code&2 != 0 {
		delta += step >> 1
	}
	if code&4 != 0 {
		delta += step
	}
	if code&8 != 0 {
		delta = -delta
	}

	*hist = int32(codec.Clamp16(*hist + delta))
	*index = clampIndex(*index+imaIndexAdjust[code&0x0f], 88)
}

// imaOdd multiplies instead: (2*magnitude+1) * step / 8.
func imaOdd(code byte, hist, index *int32) {
	step := imaSteps[*index]

	delta := ((2*int32(code&7) + 1) * step) >> 3
	if code&8 != 0 {
		delta = -delta
	}

	*hist = int32(codec.Clamp16(*hist + delta))
	*index = clampIndex(*index+imaIndexAdjust[code&0x0f], 88)
}

func clamp12(v int32) int32 { return max(-2048, min(v, 2047)) }

// okiStd and okiOdd are the 12-bit OKI/Dialogic forms of the two
// expansions, with the 49-entry step table.
func okiStd(code byte, hist, index *int32) {
	step := okiSteps[*index]

	delta := step >> 3
	if code&1 != 0 {
		delta += step >> 2
	}
	if code&2 != 0 {
		delta += step >> 1
	}
	if code&4 != 0 {
		delta += step
	}
	if code&8 != 0 {
		delta = -delta
	}

	*hist = clamp12(*hist + delta)
	*index = clampIndex(*index+imaIndexAdjust[code&0x0f], 48)
}

func okiOdd(code byte, hist, index *int32) {
	step := okiSteps[*index]

	delta := ((2*int32(code&7) + 1) * step) >> 3
	if code&8 != 0 {
		delta = -delta
	}

	*hist = clamp12(*hist + delta)
	*index = clampIndex(*index+imaIndexAdjust[code&0x0f], 48)
}

// tgcExpand walks an 8-bit unsigned level, kept centered on zero, with a
// slope table indexed by one of four step scales.
func tgcExpand(code byte, hist, index *int32) {
	s := clampIndex(*index, 3)

	*hist = max(-128, min(*hist+tgcSlopes[s][code&0x0f], 127))

	switch m := code & 0x07; {
	case m >= 5:
		*index = clampIndex(s+1, 3)
	case m <= 1:
		*index = clampIndex(s-1, 3)
	}
}

// nibbles is a headerless 4-bit stream: each lane owns one byte of every
// frame and each byte holds two samples.
type nibbles struct {
	lanes     int
	highFirst bool
	expand    expander
	// shift scales the history to 16 bits on output
	shift int
	buf   []byte
}

func (d *nibbles) SamplesPerFrame() int { return 2 }
func (d *nibbles) FrameBytes() int      { return d.lanes }

func (d *nibbles) Decode(st *codec.State, lane int, out []int16, stride, pos, todo int) {
	firstByte := pos / 2
	lastByte := (pos + todo - 1) / 2
	count := lastByte - firstByte + 1

	d.buf = codec.ReadFrame(st.Src, st.Offset+int64(firstByte*d.lanes), count*d.lanes, d.buf)

	hist, index := st.Hist1, st.StepIndex

	for i := range todo {
		p := pos + i
		b := d.buf[(p/2-firstByte)*d.lanes+lane]

		second := p&1 == 1
		code := b & 0x0f
		if second != d.highFirst {
			code = b >> 4
		}

		d.expand(code, &hist, &index)
		out[i*stride] = codec.Clamp16(hist << d.shift)
	}

	st.Hist1, st.StepIndex = hist, index
}

// xboxIma frames are 0x24 bytes per channel: a 4-byte header per channel,
// then data in 4-byte words alternating between channels. The header
// sample only seeds the history.
type xboxIma struct {
	lanes int
	buf   []byte
	pcm   []int16
}

func (d *xboxIma) SamplesPerFrame() int { return 64 }
func (d *xboxIma) FrameBytes() int      { return 0x24 * d.lanes }

func (d *xboxIma) Decode(st *codec.State, lane int, out []int16, stride, pos, todo int) {
	fb := d.FrameBytes()
	d.pcm = grow(d.pcm, 64)

	codec.EachFrame(64, pos, todo, func(idx, first, n, done int) {
		d.buf = codec.ReadFrame(st.Src, st.Offset+int64(idx*fb), fb, d.buf)
		f := d.buf

		hist := int32(int16(binary.LittleEndian.Uint16(f[4*lane:])))
		index := clampIndex(int32(f[4*lane+2]), 88)

		for i := range 64 {
			b := f[4*d.lanes+4*lane+(i/8)*4*d.lanes+(i%8)/2]
			code := b & 0x0f
			if i&1 == 1 {
				code = b >> 4
			}
			imaStd(code, &hist, &index)
			d.pcm[i] = int16(hist)
		}

		copyRun(out, stride, d.pcm, first, n, done)
		st.Hist1, st.StepIndex = hist, index
	})
}

// msIma is the WAVE 0x11 block: per channel a 4-byte header whose sample is
// output first, then 4-byte words per channel in turn.
type msIma struct {
	size  int
	lanes int
	buf   []byte
	pcm   []int16
}

func (d *msIma) SamplesPerFrame() int { return (d.size-4*d.lanes)*2/d.lanes + 1 }
func (d *msIma) FrameBytes() int      { return d.size }

func (d *msIma) Decode(st *codec.State, lane int, out []int16, stride, pos, todo int) {
	spf := d.SamplesPerFrame()
	d.pcm = grow(d.pcm, spf)

	codec.EachFrame(spf, pos, todo, func(idx, first, n, done int) {
		d.buf = codec.ReadFrame(st.Src, st.Offset+int64(idx*d.size), d.size, d.buf)
		f := d.buf

		hist := int32(int16(binary.LittleEndian.Uint16(f[4*lane:])))
		index := clampIndex(int32(f[4*lane+2]), 88)
		d.pcm[0] = int16(hist)

		for i := range spf - 1 {
			b := f[4*d.lanes+(i/8)*4*d.lanes+4*lane+(i%8)/2]
			code := b & 0x0f
			if i&1 == 1 {
				code = b >> 4
			}
			imaStd(code, &hist, &index)
			d.pcm[i+1] = int16(hist)
		}

		copyRun(out, stride, d.pcm, first, n, done)
		st.Hist1, st.StepIndex = hist, index
	})
}

// refIma keeps each channel's nibbles contiguous after the headers.
type refIma struct {
	size  int
	lanes int
	buf   []byte
	pcm   []int16
}

func (d *refIma) perLane() int          { return (d.size - 4*d.lanes) / d.lanes }
func (d *refIma) SamplesPerFrame() int { return d.perLane() * 2 }
func (d *refIma) FrameBytes() int      { return d.size }

func (d *refIma) Decode(st *codec.State, lane int, out []int16, stride, pos, todo int) {
	spf := d.SamplesPerFrame()
	d.pcm = grow(d.pcm, spf)

	codec.EachFrame(spf, pos, todo, func(idx, first, n, done int) {
		d.buf = codec.ReadFrame(st.Src, st.Offset+int64(idx*d.size), d.size, d.buf)
		f := d.buf

		hist := int32(int16(binary.LittleEndian.Uint16(f[4*lane:])))
		index := clampIndex(int32(f[4*lane+2]), 88)
		data := f[4*d.lanes+lane*d.perLane():]

		for i := range spf {
			b := data[i/2]
			code := b & 0x0f
			if i&1 == 1 {
				code = b >> 4
			}
			imaStd(code, &hist, &index)
			d.pcm[i] = int16(hist)
		}

		copyRun(out, stride, d.pcm, first, n, done)
		st.Hist1, st.StepIndex = hist, index
	})
}
