// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"slices"
	"testing"
)

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   float32
		want int16
	}{
		{"zero", 0, 0},
		{"full scale", 1, math.MaxInt16},
		{"negative full scale", -1, -math.MaxInt16},
		{"half", 0.5, 16383},
		{"negative half", -0.5, -16383},
		{"clipped", 1.5, math.MaxInt16},
		{"negative clipped", -7, -math.MaxInt16},
		{"infinity", float32(math.Inf(1)), math.MaxInt16},
	}

	for _, tt := range tests {
		if got := Float32ToInt16(tt.in); got != tt.want {
			t.Errorf("%s: Float32ToInt16(%v) = %d, want %d", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestFloat32ToInt16_Monotonic(t *testing.T) {
	t.Parallel()

	prev := Float32ToInt16(-1)
	for x := float32(-1); x <= 1; x += 1.0 / 4096 {
		got := Float32ToInt16(x)
		if got < prev {
			t.Fatalf("Float32ToInt16(%v) = %d after %d", x, got, prev)
		}
		prev = got
	}
}

func TestFloat32sToInt16(t *testing.T) {
	t.Parallel()

	dst := make([]int16, 3)
	n := Float32sToInt16(dst, []float32{0.5, -0.5, 2, 1})

	if n != 3 || !slices.Equal(dst, []int16{16383, -16383, math.MaxInt16}) {
		t.Errorf("Float32sToInt16 = %d, %v", n, dst)
	}
}

func BenchmarkFloat32sToInt16(b *testing.B) {
	src := make([]float32, 4096)
	for i := range src {
		src[i] = float32(math.Sin(float64(i) / 10))
	}
	dst := make([]int16, len(src))

	b.ReportAllocs()
	for b.Loop() {
		Float32sToInt16(dst, src)
	}
}
