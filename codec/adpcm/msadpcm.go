// SPDX-License-Identifier: EPL-2.0

package adpcm

import (
	"encoding/binary"

	"github.com/ik5/vgmpbx/codec"
)

// msAdpcm is the WAVE 0x0002 block. The header holds, per field and then
// per channel: predictor index (u8), delta (s16), sample1 (s16) and
// sample2 (s16). sample2 and sample1 are output before the nibbles, which
// are high nibble first and alternate between channels.
type msAdpcm struct {
	size  int
	lanes int
	buf   []byte
	pcm   []int16
}

func (d *msAdpcm) SamplesPerFrame() int { return (d.size-7*d.lanes)*2/d.lanes + 2 }
func (d *msAdpcm) FrameBytes() int      { return d.size }

func (d *msAdpcm) Decode(st *codec.State, lane int, out []int16, stride, pos, todo int) {
	spf := d.SamplesPerFrame()
	d.pcm = grow(d.pcm, spf)
	ch := d.lanes

	codec.EachFrame(spf, pos, todo, func(idx, first, n, done int) {
		d.buf = codec.ReadFrame(st.Src, st.Offset+int64(idx*d.size), d.size, d.buf)
		f := d.buf

		pred := min(int(f[lane]), len(msCoefs)-1)
		c1, c2 := msCoefs[pred][0], msCoefs[pred][1]
		delta := int32(int16(binary.LittleEndian.Uint16(f[ch+2*lane:])))
		h1 := int32(int16(binary.LittleEndian.Uint16(f[3*ch+2*lane:])))
		h2 := int32(int16(binary.LittleEndian.Uint16(f[5*ch+2*lane:])))

		d.pcm[0], d.pcm[1] = int16(h2), int16(h1)
		data := f[7*ch:]

		for j := range spf - 2 {
			k := j*ch + lane
			b := data[k/2]
			nib := codec.HighNibble(b)
			if k&1 == 1 {
				nib = codec.LowNibble(b)
			}

			predict := (h1*c1 + h2*c2) >> 8
			s := int32(codec.Clamp16(predict + nib*delta))
			d.pcm[j+2] = int16(s)
			h2, h1 = h1, s

			delta = (msAdaptation[nib&0x0f] * delta) >> 8
			if delta < 16 {
				delta = 16
			}
		}

		copyRun(out, stride, d.pcm, first, n, done)
		st.Hist1, st.Hist2 = h1, h2
	})
}
