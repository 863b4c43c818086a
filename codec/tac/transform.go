// SPDX-License-Identifier: EPL-2.0

package tac

import "math"

const (
	// vectors per frame and channel; each holds four samples
	frameVecs = FrameSamples / 4

	dctSize = 32
	rowVecs = dctSize / 4

	// coded bands of 32 coefficients; the top 128 bins are never coded
	bandCoefs = 32

	maxHead = 60
)

// vec is one four-lane float register. Every lane operation rounds to
// float32 before the next one so the result does not depend on fused
// multiply-add.
type vec [4]float32

func (v vec) add(o vec) vec {
	return vec{v[0] + o[0], v[1] + o[1], v[2] + o[2], v[3] + o[3]}
}

func (v vec) mul(o vec) vec {
	return vec{
		float32(v[0] * o[0]), float32(v[1] * o[1]),
		float32(v[2] * o[2]), float32(v[3] * o[3]),
	}
}

// maddLane adds a times lane of b to every lane of acc.
func maddLane(acc, a vec, b vec, lane int) vec {
	s := b[lane]
	return vec{
		acc[0] + float32(a[0]*s), acc[1] + float32(a[1]*s),
		acc[2] + float32(a[2]*s), acc[3] + float32(a[3]*s),
	}
}

// madds adds a times s to every lane of acc.
func madds(acc, a vec, s float32) vec {
	return vec{
		acc[0] + float32(a[0]*s), acc[1] + float32(a[1]*s),
		acc[2] + float32(a[2]*s), acc[3] + float32(a[3]*s),
	}
}

// reverse swaps the lane order.
func (v vec) reverse() vec { return vec{v[3], v[2], v[1], v[0]} }

var (
	// transformTable row n holds the 32 DCT-IV basis values of input n as
	// eight vectors of outputs.
	transformTable [dctSize][rowVecs]vec

	// windowTable rises over the frame; windowFall is its mirror.
	windowTable [frameVecs]vec
	windowFall  [frameVecs]vec

	vectorVolume = vec{1.0 / 32, 1.0 / 32, 1.0 / 32, 1.0 / 32}

	// scaleTable[h+maxHead] is 2^(h/4).
	scaleTable [2*maxHead + 1]float32
)

func init() {
	for n := range dctSize {
		for k := range dctSize {
			transformTable[n][k/4][k%4] = float32(math.Cos(math.Pi / dctSize * (float64(n) + 0.5) * (float64(k) + 0.5)))
		}
	}

	for i := range frameVecs {
		for l := range 4 {
			windowTable[i][l] = float32(math.Sin((float64(i*4+l) + 0.5) * math.Pi / (2 * FrameSamples)))
		}
	}
	for i := range frameVecs {
		windowFall[i] = windowTable[frameVecs-1-i].reverse()
	}

	for h := range scaleTable {
		scaleTable[h] = float32(math.Exp2(float64(h-maxHead) / 4))
	}
}

func scale(head int32) float32 {
	return scaleTable[max(-maxHead, min(maxHead, head))+maxHead]
}

// unpackChannel spreads the coded coefficients over the spectrum. Band b
// covers vectors 8b..8b+7 and shares head b.
func unpackChannel(spec *[frameVecs]vec, heads *[bands]int32, coefs []int32) {
	*spec = [frameVecs]vec{}

	for i, q := range coefs {
		if q == 0 {
			continue
		}
		spec[i/4][i%4] = float32(float32(q) * scale(heads[i/bandCoefs]))
	}
}

// transform runs the 32-point DCT over the rows of the 32x32 spectrum by
// broadcasting input lanes, then over its columns four at a time.
func transform(spec, tmp *[frameVecs]vec) {
	for r := range dctSize {
		in := spec[r*rowVecs : (r+1)*rowVecs]
		for o := range rowVecs {
			var acc vec
			for n := range dctSize {
				acc = maddLane(acc, transformTable[n][o], in[n/4], n%4)
			}
			tmp[r*rowVecs+o] = acc
		}
	}

	for m := range dctSize {
		for j := range rowVecs {
			var acc vec
			for r := range dctSize {
				acc = madds(acc, tmp[r*rowVecs+j], transformTable[r][m/4][m%4])
			}
			spec[m*rowVecs+j] = acc
		}
	}
}

// process overlaps the transformed frame with the history of the previous
// one and leaves the output in wave.
func process(x, hist, wave *[frameVecs]vec) {
	for i := range frameVecs {
		wave[i] = x[i].mul(windowTable[i]).add(hist[i]).mul(vectorVolume)
		hist[i] = x[i].mul(windowFall[i])
	}
}

// toPCM rounds half away from zero and clamps.
func toPCM(v float32) int16 {
	if v >= 0 {
		v += 0.5
	} else {
		v -= 0.5
	}

	switch {
	case v >= math.MaxInt16:
		return math.MaxInt16
	case v <= math.MinInt16:
		return math.MinInt16
	case v != v:
		return 0
	}

	return int16(v)
}
