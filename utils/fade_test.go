// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"slices"
	"testing"
)

func TestFade_Gain(t *testing.T) {
	t.Parallel()

	f := Fade{Start: 10, Length: 4}

	tests := []struct {
		pos  int64
		want float64
	}{
		{0, 1},
		{9, 1},
		{10, 1},
		{11, 0.75},
		{12, 0.5},
		{13, 0.25},
		{14, 0},
		{100, 0},
	}

	for _, tt := range tests {
		if got := f.Gain(tt.pos); got != tt.want {
			t.Errorf("Gain(%d) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestFade_Apply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fade Fade
		pos  int64
		want []int16
	}{
		{"before", Fade{Start: 10, Length: 4}, 0, []int16{1000, -1000, 1000, -1000, 1000, -1000}},
		{"across", Fade{Start: 1, Length: 2}, 0, []int16{1000, -1000, 1000, -1000, 500, -500}},
		{"after", Fade{Start: 1, Length: 2}, 5, []int16{0, 0, 0, 0, 0, 0}},
		{"no length", Fade{Start: 2}, 0, []int16{1000, -1000, 1000, -1000, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := []int16{1000, -1000, 1000, -1000, 1000, -1000}
			tt.fade.Apply(buf, 2, tt.pos)
			if !slices.Equal(buf, tt.want) {
				t.Errorf("Apply = %v, want %v", buf, tt.want)
			}
		})
	}
}
