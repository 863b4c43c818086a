// SPDX-License-Identifier: EPL-2.0

package utils

// Fade is a linear fade-out over Length frames starting at frame Start.
// Frames at or after Start+Length are silent.
type Fade struct {
	Start  int64
	Length int64
}

// Gain is the volume of frame pos, from 1 down to 0.
func (f Fade) Gain(pos int64) float64 {
	switch {
	case pos < f.Start:
		return 1
	case f.Length <= 0 || pos >= f.Start+f.Length:
		return 0
	}

	return 1 - float64(pos-f.Start)/float64(f.Length)
}

// Apply scales the interleaved frames in buf, whose first frame is frame
// pos of the output.
func (f Fade) Apply(buf []int16, channels int, pos int64) {
	if channels <= 0 {
		return
	}

	frames := len(buf) / channels
	if pos+int64(frames) <= f.Start {
		return
	}

	for i := range frames {
		g := f.Gain(pos + int64(i))
		if g == 1 {
			continue
		}
		for c := range channels {
			buf[i*channels+c] = int16(float64(buf[i*channels+c]) * g)
		}
	}
}
