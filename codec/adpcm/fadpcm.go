// SPDX-License-Identifier: EPL-2.0

package adpcm

import (
	"encoding/binary"

	"github.com/ik5/vgmpbx/codec"
)

// FADPCMFrameSize is the size of one FMOD FADPCM frame.
const FADPCMFrameSize = 0x8c

// fadpcm frames carry a 0x0c header (packed coefficient indexes, packed
// shifts, hist1, hist2) and 8 groups of 4 little-endian words, each word
// holding 8 nibbles low first.
type fadpcm struct {
	lanes int
	buf   []byte
	pcm   [256]int16
}

func (d *fadpcm) SamplesPerFrame() int { return 256 }
func (d *fadpcm) FrameBytes() int      { return FADPCMFrameSize * d.lanes }

func (d *fadpcm) Decode(st *codec.State, lane int, out []int16, stride, pos, todo int) {
	codec.EachFrame(256, pos, todo, func(idx, first, n, done int) {
		d.buf = laneFrame(st, d.buf, idx, FADPCMFrameSize, d.lanes, lane)
		h1, h2 := decodeFADPCM(d.buf, d.pcm[:])

		copyRun(out, stride, d.pcm[:], first, n, done)
		st.Hist1, st.Hist2 = h1, h2
	})
}

// decodeFADPCM decodes one frame into pcm and returns the final history.
func decodeFADPCM(f []byte, pcm []int16) (int32, int32) {
	coefs := binary.LittleEndian.Uint32(f[0x00:])
	shifts := binary.LittleEndian.Uint32(f[0x04:])
	h1 := int32(int16(binary.LittleEndian.Uint16(f[0x08:])))
	h2 := int32(int16(binary.LittleEndian.Uint16(f[0x0a:])))

	k := 0
	for i := range 8 {
		index := ((coefs >> (i * 4)) & 0x0f) % 7
		shift := 0x16 - ((shifts >> (i * 4)) & 0x0f)
		c1, c2 := fadpcmCoefs[index][0], fadpcmCoefs[index][1]

		for j := range 4 {
			word := binary.LittleEndian.Uint32(f[0x0c+0x10*i+0x04*j:])

			for b := range 8 {
				s := int32(((word >> (b * 4)) & 0x0f) << 28)
				s >>= shift
				s = (s - h2*c2 + h1*c1) >> 6

				v := codec.Clamp16(s)
				pcm[k] = v
				k++
				h2, h1 = h1, int32(v)
			}
		}
	}

	return h1, h2
}
