// SPDX-License-Identifier: EPL-2.0

package mp3

// Header is a decoded MPEG audio frame header.
type Header struct {
	// Version is 10 for MPEG-1, 20 for MPEG-2 and 25 for MPEG-2.5.
	Version    int
	Layer      int
	Bitrate    int // kbps
	SampleRate int
	Padding    bool
	Channels   int
}

var bitrates = [5][15]int{
	{0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448}, // v1 layer I
	{0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384},    // v1 layer II
	{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320},     // v1 layer III
	{0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256},    // v2 layer I
	{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},         // v2 layer II, III
}

var rates = [3][3]int{
	{44100, 48000, 32000},
	{22050, 24000, 16000},
	{11025, 12000, 8000},
}

// ParseHeader decodes the four bytes of a frame header. Free-format and
// reserved values are rejected.
func ParseHeader(b []byte) (Header, bool) {
	if len(b) < 4 || b[0] != 0xff || b[1]&0xe0 != 0xe0 {
		return Header{}, false
	}

	var h Header
	vi := 0
	switch (b[1] >> 3) & 3 {
	case 3:
		h.Version = 10
	case 2:
		h.Version, vi = 20, 1
	case 0:
		h.Version, vi = 25, 2
	default:
		return Header{}, false
	}

	switch (b[1] >> 1) & 3 {
	case 3:
		h.Layer = 1
	case 2:
		h.Layer = 2
	case 1:
		h.Layer = 3
	default:
		return Header{}, false
	}

	bi := int(b[2] >> 4)
	ri := int(b[2]>>2) & 3
	if bi == 0 || bi == 15 || ri == 3 {
		return Header{}, false
	}

	table := 4
	switch {
	case h.Version == 10:
		table = h.Layer - 1
	case h.Layer == 1:
		table = 3
	}

	h.Bitrate = bitrates[table][bi]
	h.SampleRate = rates[vi][ri]
	h.Padding = b[2]&0x02 != 0

	h.Channels = 2
	if b[3]>>6 == 3 {
		h.Channels = 1
	}

	return h, true
}

// SamplesPerFrame is the number of samples per channel in one frame.
func (h Header) SamplesPerFrame() int {
	switch {
	case h.Layer == 1:
		return 384
	case h.Layer == 3 && h.Version != 10:
		return 576
	}

	return 1152
}

// FrameSize is the size of the frame in bytes, header included.
func (h Header) FrameSize() int {
	pad := 0
	if h.Padding {
		pad = 1
	}

	if h.Layer == 1 {
		return (12*h.Bitrate*1000/h.SampleRate + pad) * 4
	}

	return h.SamplesPerFrame()/8*h.Bitrate*1000/h.SampleRate + pad
}
