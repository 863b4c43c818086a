// SPDX-License-Identifier: EPL-2.0

package adpcm

import "github.com/ik5/vgmpbx/codec"

// dsp is Nintendo GC/Wii ADPCM: 8-byte frames of a predictor/scale byte and
// 14 nibbles, high nibble first, with 8 coefficient pairs per channel.
type dsp struct {
	lanes int
	buf   []byte
}

func (d *dsp) SamplesPerFrame() int { return 14 }
func (d *dsp) FrameBytes() int      { return 8 * d.lanes }

func (d *dsp) Decode(st *codec.State, lane int, out []int16, stride, pos, todo int) {
	codec.EachFrame(14, pos, todo, func(idx, first, n, done int) {
		d.buf = laneFrame(st, d.buf, idx, 8, d.lanes, lane)
		f := d.buf

		scale := int32(1) << (f[0] & 0x0f)
		ci := int(f[0]>>4) & 0x07
		c1, c2 := int32(st.Coefs[ci*2]), int32(st.Coefs[ci*2+1])
		h1, h2 := st.Hist1, st.Hist2

		for i := first; i < first+n; i++ {
			b := f[1+i/2]
			nib := codec.HighNibble(b)
			if i&1 == 1 {
				nib = codec.LowNibble(b)
			}

			s := int32(codec.Clamp16(((nib*scale)<<11 + 1024 + c1*h1 + c2*h2) >> 11))
			out[(done+i-first)*stride] = int16(s)
			h2, h1 = h1, s
		}

		st.Hist1, st.Hist2 = h1, h2
	})
}
