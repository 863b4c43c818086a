// SPDX-License-Identifier: EPL-2.0

package ubiadpcm

import (
	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	ubidec "github.com/ik5/vgmpbx/codec/ubiadpcm"
	"github.com/ik5/vgmpbx/formats/internal/container"
)

const name = "Ubisoft ADPCM"

// Prober recognizes headered raw Ubisoft ADPCM streams.
type Prober struct{}

func (Prober) Name() string         { return name }
func (Prober) Extensions() []string { return []string{"ubi", "uadp"} }

func (Prober) Probe(src bytesrc.Source, opts audio.ProbeOptions) (*audio.Blueprint, error) {
	sig, ok := bytesrc.U32LE(src, 0)
	if !ok || sig != ubidec.Signature {
		return nil, audio.ErrReject
	}

	hdr, err := ubidec.ParseHeader(src, 0)
	if err != nil {
		return nil, audio.Corrupt(name, "%v", err)
	}

	size := ubidec.HeaderSize + hdr.DataSize()
	if size > src.Size() {
		opts.Log().Debugf("%s: frames need 0x%x bytes, file has 0x%x", name, size, src.Size())
		size = src.Size()
	}

	return &audio.Blueprint{
		Format:      name,
		Channels:    int(hdr.Channels),
		SampleRate:  int(hdr.SampleRate),
		NumSamples:  int64(hdr.SampleCount),
		Codec:       audio.UbiAdpcm,
		Layout:      audio.Layout{Kind: audio.LayoutNone},
		StreamSize:  size,
		ChannelCfgs: container.Shared(src, 0),
	}, nil
}
