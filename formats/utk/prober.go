// SPDX-License-Identifier: EPL-2.0

package utk

import (
	"encoding/binary"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/codec/eamt"
	"github.com/ik5/vgmpbx/formats/internal/container"
)

const (
	name = "Maxis UTK"

	wfxOffset = 0x0c
	// minimum WAVEFORMAT: tag, channels, rate, byte rate, align, bits
	wfxMin = 0x10
)

// Prober recognizes Maxis UTM0 MicroTalk files.
type Prober struct{}

func (Prober) Name() string { return name }

func (Prober) Probe(src bytesrc.Source, opts audio.ProbeOptions) (*audio.Blueprint, error) {
	if !bytesrc.IsID(src, 0, "UTM0") {
		return nil, audio.ErrReject
	}

	r := bytesrc.NewReader(src, binary.LittleEndian)
	pcmSize := int64(r.U32(0x04))
	wfxSize := int64(r.U32(0x08))
	channels := int(r.U16(wfxOffset + 0x02))
	rate := int(r.U32(wfxOffset + 0x04))
	bitsPer := r.U16(wfxOffset + 0x0e)

	if r.Short() {
		return nil, audio.Corrupt(name, "%v", r.Err())
	}

	switch {
	case wfxSize < wfxMin:
		return nil, audio.Corrupt(name, "format size %d", wfxSize)
	case channels != 1:
		return nil, audio.Unsupported(name, "%d channels", channels)
	case bitsPer != 16:
		return nil, audio.Unsupported(name, "%d bits per sample", bitsPer)
	case rate <= 0:
		return nil, audio.Corrupt(name, "sample rate %d", rate)
	case pcmSize < 2:
		return nil, audio.Corrupt(name, "decompressed size %d", pcmSize)
	}

	start := wfxOffset + wfxSize
	if start >= src.Size() {
		return nil, audio.Corrupt(name, "no coded data")
	}

	samples := pcmSize / 2

	return &audio.Blueprint{
		Format:      name,
		Channels:    1,
		SampleRate:  rate,
		NumSamples:  samples,
		Codec:       audio.EaMt,
		Layout:      audio.Layout{Kind: audio.LayoutNone},
		StreamSize:  src.Size() - start,
		ChannelCfgs: container.Shared(src, start),
		CodecParams: eamt.Config{NumSamples: samples},
	}, nil
}
