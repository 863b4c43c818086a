// SPDX-License-Identifier: EPL-2.0

package adpcm

import "github.com/ik5/vgmpbx/codec"

// psx is Sony PS-ADPCM: a filter/shift byte, a flag byte and 14 bytes of
// nibbles, low nibble first. The cfg variant has no flag byte and a
// stream-defined frame size.
type psx struct {
	size     int
	lanes    int
	cfg      bool
	badFlags bool
	buf      []byte
}

func (d *psx) SamplesPerFrame() int {
	if d.cfg {
		return (d.size - 1) * 2
	}

	return (d.size - 2) * 2
}

func (d *psx) FrameBytes() int { return d.size * d.lanes }

func (d *psx) Decode(st *codec.State, lane int, out []int16, stride, pos, todo int) {
	codec.EachFrame(d.SamplesPerFrame(), pos, todo, func(idx, first, n, done int) {
		d.buf = laneFrame(st, d.buf, idx, d.size, d.lanes, lane)
		f := d.buf

		coef := int(f[0] >> 4)
		shift := int32(f[0] & 0x0f)
		if shift > 12 {
			shift = 9
		}

		data, flag := f[2:], f[1]
		if d.cfg {
			data, flag = f[1:], 0
		}
		if d.badFlags {
			flag = 0
		}

		c1, c2 := psxCoefs[coef][0], psxCoefs[coef][1]
		h1, h2 := st.Hist1, st.Hist2

		for i := first; i < first+n; i++ {
			var s int32

			// flag 7 marks an end frame that decodes to silence
			if flag < 0x07 {
				b := data[i/2]
				nib := b & 0x0f
				if i&1 == 1 {
					nib = b >> 4
				}

				s = int32(int16(uint16(nib)<<12)) >> shift
				s = int32(codec.Clamp16f(float64(s) + c1*float64(h1) + c2*float64(h2)))
			}

			out[(done+i-first)*stride] = int16(s)
			h2, h1 = h1, s
		}

		st.Hist1, st.Hist2 = h1, h2
	})
}

// PSXFrameHeader reports whether the two header bytes of a PS-ADPCM frame
// look valid: a known filter, a usable shift and a defined flag value.
func PSXFrameHeader(coefShift, flag byte) bool {
	return coefShift>>4 <= 4 && coefShift&0x0f <= 12 && flag <= 7
}
