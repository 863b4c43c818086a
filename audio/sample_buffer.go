// SPDX-License-Identifier: EPL-2.0

package audio

// SampleBuffer holds interleaved int16 frames between a decoder and the
// caller's output. Counts are in frames (samples per channel).
type SampleBuffer struct {
	buf      []int16
	channels int
	filled   int
	consumed int
}

// NewSampleBuffer allocates room for frames frames of channels samples.
func NewSampleBuffer(channels, frames int) *SampleBuffer {
	if channels < 1 {
		channels = 1
	}

	return &SampleBuffer{buf: make([]int16, channels*frames), channels: channels}
}

func (b *SampleBuffer) Channels() int { return b.channels }

// Cap is the capacity in frames.
func (b *SampleBuffer) Cap() int { return len(b.buf) / b.channels }

// Filled is the number of frames decoded but not yet consumed or discarded.
func (b *SampleBuffer) Filled() int { return b.filled - b.consumed }

// Space empties the buffer and returns all of it for a decoder to write
// into. Follow with SetFilled.
func (b *SampleBuffer) Space() []int16 {
	b.filled, b.consumed = 0, 0
	return b.buf
}

// SetFilled records how many frames the decoder wrote into Space.
func (b *SampleBuffer) SetFilled(frames int) {
	b.filled = max(0, min(frames, b.Cap()))
	b.consumed = 0
}

// Discard drops up to n frames and returns how many were dropped.
func (b *SampleBuffer) Discard(n int) int {
	n = max(0, min(n, b.Filled()))
	b.consumed += n

	return n
}

// Consume copies up to n frames into dst and returns how many were copied.
func (b *SampleBuffer) Consume(dst []int16, n int) int {
	n = max(0, min(n, b.Filled(), len(dst)/b.channels))

	from := b.consumed * b.channels
	copy(dst[:n*b.channels], b.buf[from:from+n*b.channels])
	b.consumed += n

	return n
}

// Silence writes n frames of zeros of channels samples into dst and
// returns the number of frames written.
func Silence(dst []int16, n, channels int) int {
	n = max(0, min(n, len(dst)/channels))
	clear(dst[:n*channels])

	return n
}
