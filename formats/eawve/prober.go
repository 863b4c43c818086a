// SPDX-License-Identifier: EPL-2.0

package eawve

import (
	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/formats/internal/container"
)

const (
	name = "EA WVE"

	sampleRate = 22050
	// a runaway walk over a damaged file stops here
	maxChunks = 1 << 20
)

// variant is one audio chunk family.
type variant struct {
	ids     [2]string
	codec   audio.CodecID
	blocked audio.BlockedKind
	header  int64
}

var variants = []variant{
	{ids: [2]string{"Ad10", "Ad11"}, codec: audio.PsxAdpcm, blocked: audio.BlockedEAWVEAd10, header: 0x08},
	{ids: [2]string{"AU00", "AU01"}, codec: audio.EaXa, blocked: audio.BlockedEAWVEAu00, header: 0x10},
}

// Prober recognizes EA WVE videos and plays their audio chunks.
type Prober struct{}

func (Prober) Name() string { return name }

func (Prober) Probe(src bytesrc.Source, opts audio.ProbeOptions) (*audio.Blueprint, error) {
	if !bytesrc.IsID(src, 0, "AABB") {
		return nil, audio.ErrReject
	}

	headSize, ok := bytesrc.U32BE(src, 4)
	if !ok || headSize < 8 {
		return nil, audio.Corrupt(name, "header size %d", headSize)
	}

	start, v, stereo, ok := firstAudio(src, int64(headSize))
	if !ok {
		return nil, audio.Corrupt(name, "no audio chunk")
	}

	channels := 1
	if stereo {
		channels = 2
	}

	samples := countSamples(src, start, v, channels)
	if samples <= 0 {
		return nil, audio.Corrupt(name, "audio chunks hold no samples")
	}
	opts.Log().Debugf("%s: %s audio at 0x%x", name, v.ids[0], start)

	return &audio.Blueprint{
		Format:      name,
		Channels:    channels,
		SampleRate:  sampleRate,
		NumSamples:  samples,
		Codec:       v.codec,
		Layout:      audio.Layout{Kind: audio.LayoutBlocked, Blocked: v.blocked},
		StreamSize:  src.Size() - start,
		ChannelCfgs: container.Shared(src, start),
	}, nil
}

// chunk reads the BE id and size at off.
func chunk(src bytesrc.Source, off int64) (string, int64, bool) {
	id, ok := bytesrc.ReadFull(src, off, 4)
	if !ok {
		return "", 0, false
	}
	size, ok := bytesrc.U32BE(src, off+4)
	if !ok || size < 8 {
		return "", 0, false
	}

	return string(id), int64(size), true
}

// firstAudio skips video chunks up to the first audio one. The second id
// of a family marks stereo.
func firstAudio(src bytesrc.Source, off int64) (int64, variant, bool, bool) {
	for range maxChunks {
		id, size, ok := chunk(src, off)
		if !ok {
			break
		}

		for _, v := range variants {
			if id == v.ids[0] || id == v.ids[1] {
				return off, v, id == v.ids[1], true
			}
		}

		off += size
	}

	return 0, variant{}, false, false
}

func countSamples(src bytesrc.Source, off int64, v variant, channels int) int64 {
	var total int64

	for range maxChunks {
		id, size, ok := chunk(src, off)
		if !ok {
			break
		}

		if (id == v.ids[0] || id == v.ids[1]) && size > v.header {
			switch v.codec {
			case audio.PsxAdpcm:
				total += container.Samples(v.codec, 0, 1, (size-v.header)/int64(channels))
			default:
				n, _ := bytesrc.U32BE(src, off+0x08)
				total += int64(n)
			}
		}

		off += size
	}

	return total
}
