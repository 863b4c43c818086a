// SPDX-License-Identifier: EPL-2.0

package audio

import "testing"

func TestSampleBuffer_ConsumeAndDiscard(t *testing.T) {
	t.Parallel()

	b := NewSampleBuffer(2, 4)
	if b.Cap() != 4 {
		t.Fatalf("Cap() = %d, want 4", b.Cap())
	}

	space := b.Space()
	for i := range space {
		space[i] = int16(i + 1)
	}
	b.SetFilled(4)

	if got := b.Discard(1); got != 1 {
		t.Errorf("Discard(1) = %d", got)
	}

	dst := make([]int16, 4)
	if got := b.Consume(dst, 5); got != 2 {
		t.Fatalf("Consume(dst, 5) = %d, want 2 (limited by dst)", got)
	}
	want := []int16{3, 4, 5, 6}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %d, want %d", i, dst[i], want[i])
		}
	}

	if b.Filled() != 1 {
		t.Errorf("Filled() = %d, want 1", b.Filled())
	}
	if got := b.Discard(10); got != 1 {
		t.Errorf("Discard(10) = %d, want 1", got)
	}
	if got := b.Consume(dst, 1); got != 0 {
		t.Errorf("Consume on empty buffer = %d", got)
	}
}

func TestSampleBuffer_SetFilledClamps(t *testing.T) {
	t.Parallel()

	b := NewSampleBuffer(1, 8)
	b.Space()
	b.SetFilled(100)
	if b.Filled() != 8 {
		t.Errorf("Filled() = %d, want 8", b.Filled())
	}
	b.SetFilled(-3)
	if b.Filled() != 0 {
		t.Errorf("Filled() = %d, want 0", b.Filled())
	}
}

func TestSilence(t *testing.T) {
	t.Parallel()

	dst := []int16{1, 2, 3, 4, 5, 6, 7}
	if got := Silence(dst, 5, 2); got != 3 {
		t.Fatalf("Silence() = %d, want 3", got)
	}
	for i := range 6 {
		if dst[i] != 0 {
			t.Errorf("dst[%d] = %d, want 0", i, dst[i])
		}
	}
	if dst[6] != 7 {
		t.Error("Silence() wrote past the requested frames")
	}
}
