// SPDX-License-Identifier: EPL-2.0

package tac

import (
	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	tacdec "github.com/ik5/vgmpbx/codec/tac"
	"github.com/ik5/vgmpbx/formats/internal/container"
)

const name = "tri-Ace TAC"

// Prober recognizes tri-Ace TAC streams by header shape.
type Prober struct{}

func (Prober) Name() string         { return name }
func (Prober) Extensions() []string { return []string{"tac"} }

func (Prober) Probe(src bytesrc.Source, opts audio.ProbeOptions) (*audio.Blueprint, error) {
	hdr, err := tacdec.ParseHeader(src)
	if err != nil {
		return nil, audio.ErrReject
	}

	// the header has no signature, so a bad shape is a reject
	if err := hdr.Validate(src.Size()); err != nil {
		opts.Log().Debugf("%s: %v", name, err)
		return nil, audio.ErrReject
	}

	if _, err := tacdec.ParseTables(src, int64(hdr.HuffmanOffset)); err != nil {
		return nil, audio.Corrupt(name, "%v", err)
	}

	bp := &audio.Blueprint{
		Format:      name,
		Channels:    tacdec.Channels,
		SampleRate:  48000,
		NumSamples:  hdr.NumSamples(),
		Codec:       audio.Tac,
		Layout:      audio.Layout{Kind: audio.LayoutNone},
		StreamSize:  src.Size(),
		ChannelCfgs: container.Shared(src, 0),
	}

	if start, ok := hdr.LoopStart(); ok {
		if start < bp.NumSamples {
			bp.Loop = &audio.LoopRegion{Start: start, End: bp.NumSamples}
		} else {
			opts.Log().Debugf("%s: loop start %d past the end", name, start)
		}
	}

	return bp, nil
}
