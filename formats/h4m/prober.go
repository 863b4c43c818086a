// SPDX-License-Identifier: EPL-2.0

package h4m

import (
	"encoding/binary"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/formats/internal/container"
)

const (
	name = "Hudson H4M"

	headerSize = 0x10
	maxBlocks  = 1 << 20
)

// Prober recognizes Hudson H4M audio tracks.
type Prober struct{}

func (Prober) Name() string { return name }

func (Prober) Probe(src bytesrc.Source, opts audio.ProbeOptions) (*audio.Blueprint, error) {
	if !bytesrc.IsID(src, 0, "H4M\x00") {
		return nil, audio.ErrReject
	}

	r := bytesrc.NewReader(src, binary.BigEndian)
	start := int64(r.U32(0x04))
	channels := int(r.U16(0x08))
	rate := int(r.U32(0x0c))

	if r.Short() {
		return nil, audio.Corrupt(name, "%v", r.Err())
	}

	switch {
	case channels < 1 || channels > 2:
		return nil, audio.Corrupt(name, "%d channels", channels)
	case rate <= 0:
		return nil, audio.Corrupt(name, "sample rate %d", rate)
	case start < headerSize || start >= src.Size():
		return nil, audio.Corrupt(name, "audio at 0x%x", start)
	}

	samples, blocks := countSamples(src, start, channels)
	if samples <= 0 {
		return nil, audio.Corrupt(name, "no audio blocks")
	}
	opts.Log().Debugf("%s: %d blocks, %d samples", name, blocks, samples)

	return &audio.Blueprint{
		Format:      name,
		Channels:    channels,
		SampleRate:  rate,
		NumSamples:  samples,
		Codec:       audio.Ima,
		Layout:      audio.Layout{Kind: audio.LayoutBlocked, Blocked: audio.BlockedH4M},
		StreamSize:  src.Size() - start,
		ChannelCfgs: container.Shared(src, start),
	}, nil
}

// frame types; anything else is video
const (
	frameHeader = 8
	audioFrame  = 2
)

// countSamples walks the frames (BE type, BE reserved, BE payload size) and
// sums the BE sample counts that open the audio payloads.
func countSamples(src bytesrc.Source, off int64, channels int) (int64, int) {
	var total int64
	hdr := 4 + 4*int64(channels)

	blocks := 0
	for frames := 0; frames < maxBlocks && off+frameHeader <= src.Size(); frames++ {
		kind, ok1 := bytesrc.U16BE(src, off)
		size, ok2 := bytesrc.U32BE(src, off+4)
		body := off + frameHeader
		if !ok1 || !ok2 || size == 0 || body+int64(size) > src.Size() {
			break
		}
		off = body + int64(size)

		if kind != audioFrame || int64(size) <= hdr {
			continue
		}
		if n, ok := bytesrc.U32BE(src, body); ok && n > 0 {
			total += int64(n)
			blocks++
		}
	}

	return total, blocks
}
