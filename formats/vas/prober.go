// SPDX-License-Identifier: EPL-2.0

package vas

import (
	"encoding/binary"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/formats/internal/container"
)

const (
	name = "Konami VAS"

	headerSize = 0x20
	maxBlocks  = 1 << 20
)

// Prober recognizes Konami VAS streams.
type Prober struct{}

func (Prober) Name() string { return name }

func (Prober) Probe(src bytesrc.Source, opts audio.ProbeOptions) (*audio.Blueprint, error) {
	if !bytesrc.IsID(src, 0, "VAS\x00") {
		return nil, audio.ErrReject
	}

	r := bytesrc.NewReader(src, binary.LittleEndian)
	start := int64(r.U32(0x04))
	rate := int(r.U32(0x08))
	channels := int(r.U32(0x0c))
	loopStart := int64(r.U32(0x10))
	loopEnd := int64(r.U32(0x14))

	if r.Short() {
		return nil, audio.Corrupt(name, "%v", r.Err())
	}

	switch {
	case channels < 1 || channels > 8:
		return nil, audio.Corrupt(name, "%d channels", channels)
	case rate <= 0:
		return nil, audio.Corrupt(name, "sample rate %d", rate)
	case start < headerSize || start >= src.Size():
		return nil, audio.Corrupt(name, "blocks at 0x%x", start)
	}

	samples := countSamples(src, start, channels)
	if samples <= 0 {
		return nil, audio.Corrupt(name, "no blocks")
	}

	bp := &audio.Blueprint{
		Format:      name,
		Channels:    channels,
		SampleRate:  rate,
		NumSamples:  samples,
		Codec:       audio.PsxAdpcm,
		Layout:      audio.Layout{Kind: audio.LayoutBlocked, Blocked: audio.BlockedVAS},
		StreamSize:  src.Size() - start,
		ChannelCfgs: container.Shared(src, start),
	}

	if loopEnd > loopStart {
		if loopEnd <= samples {
			bp.Loop = &audio.LoopRegion{Start: loopStart, End: loopEnd}
		} else {
			opts.Log().Debugf("%s: loop %d..%d past %d samples", name, loopStart, loopEnd, samples)
		}
	}

	return bp, nil
}

// countSamples walks the blocks: LE block size, LE size per channel, eight
// reserved bytes, then the channel data.
func countSamples(src bytesrc.Source, off int64, channels int) int64 {
	var total int64

	for range maxBlocks {
		size, ok1 := bytesrc.U32LE(src, off)
		per, ok2 := bytesrc.U32LE(src, off+4)
		if !ok1 || !ok2 || size <= 0x10 || per == 0 || 0x10+int64(per)*int64(channels) > int64(size) {
			break
		}

		total += container.Samples(audio.PsxAdpcm, 0, 1, int64(per))
		off += int64(size)
	}

	return total
}
