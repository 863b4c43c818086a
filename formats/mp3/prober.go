// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/formats/internal/container"
)

const (
	name = "MPEG audio"

	// how far past the tags a first frame may start
	syncWindow = 0x1000
)

// Prober recognizes MPEG-1/2 audio streams by frame sync.
type Prober struct{}

func (Prober) Name() string { return name }

func (Prober) Extensions() []string { return []string{"mp3", "mp2", "mpa", "mus"} }

// id3Size is the size of an ID3v2 tag at off, or 0.
func id3Size(src bytesrc.Source, off int64) int64 {
	b, ok := bytesrc.ReadFull(src, off, 10)
	if !ok || string(b[:3]) != "ID3" {
		return 0
	}

	size := int64(b[6]&0x7f)<<21 | int64(b[7]&0x7f)<<14 | int64(b[8]&0x7f)<<7 | int64(b[9]&0x7f)
	size += 10
	if b[5]&0x10 != 0 {
		size += 10
	}

	return size
}

func headerAt(src bytesrc.Source, off int64) (Header, bool) {
	b, ok := bytesrc.ReadFull(src, off, 4)
	if !ok {
		return Header{}, false
	}

	return ParseHeader(b)
}

// FindStream returns the first frame with a matching frame after it and
// the number of consecutive frames from there.
func FindStream(src bytesrc.Source, start int64) (Header, int64, int64, bool) {
	start += id3Size(src, start)
	end := min(src.Size(), start+syncWindow)

	for off := start; off+4 <= end; off++ {
		h, ok := headerAt(src, off)
		if !ok {
			continue
		}

		next := off + int64(h.FrameSize())
		if n, ok := headerAt(src, next); next < src.Size() && (!ok || n.Layer != h.Layer || n.SampleRate != h.SampleRate) {
			continue
		}

		return h, off, countFrames(src, off, h), true
	}

	return Header{}, 0, 0, false
}

// countFrames walks frame headers until one does not match the first.
func countFrames(src bytesrc.Source, off int64, first Header) int64 {
	var frames int64
	for off+4 <= src.Size() {
		h, ok := headerAt(src, off)
		if !ok || h.Layer != first.Layer || h.SampleRate != first.SampleRate {
			break
		}

		frames++
		off += int64(h.FrameSize())
	}

	return frames
}

func (Prober) Probe(src bytesrc.Source, opts audio.ProbeOptions) (*audio.Blueprint, error) {
	h, start, frames, ok := FindStream(src, 0)
	if !ok {
		return nil, audio.ErrReject
	}

	if err := supported(h); err != nil {
		return nil, err
	}

	opts.Log().Debugf("%s: layer %d, MPEG %d, %d kbps, %d frames at 0x%x", name, h.Layer, h.Version, h.Bitrate, frames, start)

	return &audio.Blueprint{
		Format:      name,
		Channels:    outputChannels(h),
		SampleRate:  h.SampleRate,
		NumSamples:  frames * int64(h.SamplesPerFrame()),
		Codec:       audio.External,
		External:    audio.ExtMpeg,
		Layout:      audio.Layout{Kind: audio.LayoutNone},
		StreamSize:  src.Size() - start,
		ChannelCfgs: container.Shared(src, start),
	}, nil
}

// supported checks the frame against the backends: Layer III of every
// version and MPEG-1 Layer II.
func supported(h Header) error {
	switch {
	case h.Layer == 3:
		return nil
	case h.Layer == 2 && h.Version == 10:
		return nil
	}

	return audio.Unsupported(name, "MPEG %d layer %d", h.Version, h.Layer)
}

// outputChannels is what the backend produces: the Layer III decoder always
// writes stereo.
func outputChannels(h Header) int {
	if h.Layer == 3 {
		return 2
	}

	return h.Channels
}
