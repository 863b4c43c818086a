// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"math"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
)

// State is the per-channel scratch a frame decoder carries between calls.
// Offset is where the current block of this channel starts; decoders add
// the frame index themselves.
type State struct {
	Src    bytesrc.Source
	Offset int64

	Hist1     int32
	Hist2     int32
	StepIndex int32
	Scale     int32
	Coefs     [16]int16
}

// NewState builds the initial state of a channel from its blueprint config.
func NewState(cfg audio.ChannelCfg) State {
	return State{
		Src:    cfg.Source,
		Offset: cfg.StartOffset,
		Hist1:  int32(cfg.Hist1),
		Hist2:  int32(cfg.Hist2),
		Scale:  int32(cfg.PredScale),
		Coefs:  cfg.Coefs,
	}
}

// FrameDecoder decodes fixed-size frames that the layout engine positions.
//
// Decode writes todo samples of the given lane to out, one every stride
// values, starting with sample pos counted from st.Offset. A run may cross
// frame boundaries but never a block boundary, and runs of one channel
// arrive in order.
type FrameDecoder interface {
	// SamplesPerFrame is 1 for codecs without framing.
	SamplesPerFrame() int
	// FrameBytes is the size of one frame including every lane.
	FrameBytes() int
	Decode(st *State, lane int, out []int16, stride, pos, todo int)
}

// BytesToSamples is how many samples of one lane fit in size bytes.
func BytesToSamples(d FrameDecoder, size int64) int64 {
	fb := int64(d.FrameBytes())
	if fb <= 0 {
		return 0
	}

	return size / fb * int64(d.SamplesPerFrame())
}

// EachFrame splits a run of todo samples starting at pos into per-frame
// pieces. fn gets the frame index, the first sample inside that frame, the
// piece length and how many samples came before it in the run.
func EachFrame(spf, pos, todo int, fn func(frame, first, n, done int)) {
	for done := 0; done < todo; {
		p := pos + done
		frame, first := p/spf, p%spf
		n := min(spf-first, todo-done)
		fn(frame, first, n, done)
		done += n
	}
}

// StreamDecoder owns the whole stream and produces interleaved frames.
// Decode returns fewer than samples frames with a nil error at the end of
// the stream; an error means the decoder cannot continue.
type StreamDecoder interface {
	Decode(out []int16, samples int) (int, error)
	Reset() error
	Close() error
}

// Seeker is a StreamDecoder with a native seek.
type Seeker interface {
	Seek(sample int64) error
}

// Skipper reports encoder delay known only to the decoder.
type Skipper interface {
	SkipSamples() int64
}

// ReadFrame reads n bytes at off into buf, zero-filling what the source
// cannot provide. It returns buf[:n].
func ReadFrame(src bytesrc.Source, off int64, n int, buf []byte) []byte {
	if cap(buf) < n {
		buf = make([]byte, n)
	}
	buf = buf[:n]

	got, _ := src.ReadAt(buf, off)
	clear(buf[got:])

	return buf
}

// Clamp16 saturates v to the int16 range.
func Clamp16(v int32) int16 {
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}

	return int16(v)
}

// Clamp16f rounds toward zero and saturates, like a C cast after a clamp.
func Clamp16f(v float64) int16 {
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}

	return int16(v)
}

// LowNibble and HighNibble return the sign-extended 4-bit halves of b.
func LowNibble(b byte) int32  { return int32(int8(b<<4) >> 4) }
func HighNibble(b byte) int32 { return int32(int8(b) >> 4) }
