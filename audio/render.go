// SPDX-License-Identifier: EPL-2.0

package audio

// RenderStatus tells how a render call ended.
type RenderStatus uint8

const (
	// StatusOK means every requested frame came from the decoder.
	StatusOK RenderStatus = iota
	// StatusEnd means the stream ended; the rest was zero-filled.
	StatusEnd
	// StatusDecoderFailed means the decoder gave up; the session now
	// outputs silence.
	StatusDecoderFailed
)

func (s RenderStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEnd:
		return "end of stream"
	case StatusDecoderFailed:
		return "decoder failed"
	}

	return "unknown"
}

// RenderResult reports how many frames of real audio a render produced.
// The output always holds the requested number of frames.
type RenderResult struct {
	Samples int
	Status  RenderStatus
}
