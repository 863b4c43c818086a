// SPDX-License-Identifier: EPL-2.0

package tac

import (
	"math"
	"testing"
)

func TestToPCM_RoundsAwayFromZero(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float32
		want int16
	}{
		{0.49, 0},
		{1.5, 2},
		{-1.5, -2},
		{-0.49, 0},
		{40000, math.MaxInt16},
		{-40000, math.MinInt16},
		{float32(math.NaN()), 0},
	}
	for _, tt := range tests {
		if got := toPCM(tt.in); got != tt.want {
			t.Errorf("toPCM(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTransform_SeparableDCT(t *testing.T) {
	t.Parallel()

	// a single coefficient at row 3, column 5 spreads as the outer product
	// of two basis rows
	const row, col, v = 3, 5, 1000

	var spec, tmp [frameVecs]vec
	spec[row*rowVecs+col/4][col%4] = v
	transform(&spec, &tmp)

	for m := range dctSize {
		for k := range dctSize {
			want := v * math.Cos(math.Pi/dctSize*(row+0.5)*(float64(m)+0.5)) *
				math.Cos(math.Pi/dctSize*(col+0.5)*(float64(k)+0.5))
			got := float64(spec[m*rowVecs+k/4][k%4])
			if math.Abs(got-want) > 1e-2 {
				t.Fatalf("out[%d][%d] = %f, want %f", m, k, got, want)
			}
		}
	}
}

func TestProcess_OverlapAdd(t *testing.T) {
	t.Parallel()

	var x, hist, wave [frameVecs]vec
	for i := range x {
		x[i] = vec{1, 1, 1, 1}
	}

	process(&x, &hist, &wave)
	for i := range frameVecs {
		for l := range 4 {
			if want := float32(windowTable[i][l] * (1.0 / 32)); wave[i][l] != want {
				t.Fatalf("first wave[%d][%d] = %v, want %v", i, l, wave[i][l], want)
			}
		}
	}

	// the second frame adds the falling half of the first
	process(&x, &hist, &wave)
	for i := range frameVecs {
		for l := range 4 {
			want := float32((windowTable[i][l] + windowFall[i][l]) * (1.0 / 32))
			if wave[i][l] != want {
				t.Fatalf("second wave[%d][%d] = %v, want %v", i, l, wave[i][l], want)
			}
		}
	}
}

func TestWindow_FallMirrorsRise(t *testing.T) {
	t.Parallel()

	for i := range FrameSamples {
		rise := windowTable[i/4][i%4]
		j := FrameSamples - 1 - i
		if fall := windowFall[j/4][j%4]; fall != rise {
			t.Fatalf("windowFall at %d = %v, want %v", j, fall, rise)
		}
	}
}
