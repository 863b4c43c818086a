// SPDX-License-Identifier: EPL-2.0

package relic

import "github.com/ik5/vgmpbx/internal/bits"

const (
	maxFreq   = 256
	maxScales = 6
	bandCount = 27
)

var criticalBands = [bandCount + 1]int{
	0, 4, 8, 12, 16, 20, 24, 28, 32, 36, 40, 44, 48, 52, 56,
	64, 72, 80, 88, 96, 108, 120, 136, 152, 176, 208, 232, 256,
}

// scales[i] is 10^(i+1) / (2^(i+1) - 1).
var scales = func() (s [maxScales]float32) {
	v := 10.0
	for i := range s {
		s[i] = float32(v / float64(int(1)<<(i+1)-1))
		v *= 10
	}

	return s
}()

// unpack reads one channel frame: band exponents, then two passes of
// quantized coefficients. exps carries over between frames.
func unpack(buf []byte, freq1, freq2 []float32, exps *[maxFreq]uint8, freqSize int) {
	clear(freq1)
	clear(freq2)

	r := bits.NewLSBReader(buf)
	limit := uint64(len(buf)) * 8

	flags := r.Read(2)
	cbBits := uint(r.Read(3))
	evBits := uint(r.Read(2))
	eiBits := uint(r.Read(4))

	if flags&1 != 0 {
		clear(exps[:])
	}

	if cbBits > 0 && evBits > 0 {
		pos := 0
		for i := range bandCount {
			if r.Pos() >= limit {
				break
			}

			move := int(r.Read(cbBits))
			if i > 0 && move == 0 {
				break
			}
			pos += move

			ev := uint8(r.Read(evBits))
			if pos+1 >= len(criticalBands) {
				break
			}
			for j := criticalBands[pos]; j < criticalBands[pos+1]; j++ {
				exps[j] = ev
			}
		}
	}

	if freqSize <= 0 || eiBits == 0 {
		return
	}

	readCoefs(r, limit, eiBits, freq1, exps, freqSize)
	if flags&2 != 0 {
		copy(freq2, freq1)
	} else {
		readCoefs(r, limit, eiBits, freq2, exps, freqSize)
	}
}

func readCoefs(r *bits.LSBReader, limit uint64, eiBits uint, freq []float32, exps *[maxFreq]uint8, freqSize int) {
	pos := 0
	for i := range maxFreq {
		if r.Pos() >= limit {
			break
		}

		move := int(r.Read(eiBits))
		if i > 0 && move == 0 {
			break
		}
		pos += move
		if pos >= maxFreq {
			break
		}

		qvBits := exps[pos]
		qv := r.ReadSigned(uint(qvBits) + 2)
		if qv != 0 && pos < freqSize && qvBits < maxScales {
			freq[pos] = float32(qv) * scales[qvBits]
		}
	}
}
