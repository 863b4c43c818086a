// SPDX-License-Identifier: EPL-2.0

package vag

import (
	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/formats/internal/container"
)

const (
	name = "Sony VAG"

	headerSize       = 0x30
	stereoInterleave = 0x800
)

// Prober recognizes VAGp PS-ADPCM files.
type Prober struct{}

func (Prober) Name() string { return name }

func (Prober) Probe(src bytesrc.Source, opts audio.ProbeOptions) (*audio.Blueprint, error) {
	if !bytesrc.IsID(src, 0, "VAGp") {
		return nil, audio.ErrReject
	}

	r := bytesrc.NewReader(src, nil)
	size := int64(r.U32BE(0x0c))
	rate := int(r.U32BE(0x10))
	channels := 1
	if r.U8(0x1e) == 2 {
		channels = 2
	}
	title := container.CString(r.Bytes(0x20, 0x10))

	if r.Short() {
		return nil, audio.Corrupt(name, "%v", r.Err())
	}
	if rate <= 0 {
		return nil, audio.Corrupt(name, "sample rate %d", rate)
	}

	// the size field is per channel; trust the file when it is shorter
	avail := (src.Size() - headerSize) / int64(channels)
	if size <= 0 || size > avail {
		opts.Log().Debugf("%s: data size 0x%x, file has 0x%x per channel", name, size, avail)
		size = avail
	}

	bp := &audio.Blueprint{
		Format:     name,
		Channels:   channels,
		SampleRate: rate,
		NumSamples: size / 0x10 * 28,
		Codec:      audio.PsxAdpcm,
		StreamName: container.ShiftJIS(title),
		StreamSize: size * int64(channels),
	}
	if bp.NumSamples <= 0 {
		return nil, audio.Corrupt(name, "no data")
	}

	if channels == 1 {
		bp.Layout = audio.Layout{Kind: audio.LayoutFlat}
		bp.ChannelCfgs = container.Shared(src, headerSize)
		bp.Loop, _ = container.PSXLoop(src, headerSize, size, 0, 1)
	} else {
		bp.Layout = audio.Layout{
			Kind:          audio.LayoutInterleave,
			BlockSize:     stereoInterleave,
			LastBlockSize: container.LastBlock(bp.StreamSize, stereoInterleave, channels),
		}
		bp.ChannelCfgs = container.Interleaved(src, headerSize, stereoInterleave, channels)
		bp.Loop, _ = container.PSXLoop(src, headerSize, bp.StreamSize, stereoInterleave, channels)
	}

	return bp, nil
}
