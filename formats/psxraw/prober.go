// SPDX-License-Identifier: EPL-2.0

package psxraw

import (
	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/formats/internal/container"
)

const (
	name = "PSX ADPCM (headerless)"

	frameSize  = 0x10
	checked    = 16
	sampleRate = 44100
)

// Prober is the last-resort guesser for raw PS-ADPCM dumps.
type Prober struct{}

func (Prober) Name() string         { return name }
func (Prober) Extensions() []string { return []string{"raw", "psx"} }

// plausible reports whether the frame header bytes at off could start a
// PS-ADPCM frame.
func plausible(hdr []byte) bool {
	coef, shift, flag := hdr[0]>>4, hdr[0]&0x0f, hdr[1]

	return coef <= 4 && shift <= 12 && flag <= 7
}

func (Prober) Probe(src bytesrc.Source, opts audio.ProbeOptions) (*audio.Blueprint, error) {
	size := src.Size() / frameSize * frameSize
	if size < frameSize {
		return nil, audio.ErrReject
	}

	frames := min(size/frameSize, checked)
	for i := range frames {
		hdr, ok := bytesrc.ReadFull(src, i*frameSize, 2)
		if !ok || !plausible(hdr) {
			opts.Log().Debugf("%s: frame %d header % x", name, i, hdr)
			return nil, audio.ErrReject
		}
	}

	bp := &audio.Blueprint{
		Format:      name,
		Channels:    1,
		SampleRate:  sampleRate,
		NumSamples:  size / frameSize * 28,
		Codec:       audio.PsxAdpcm,
		Layout:      audio.Layout{Kind: audio.LayoutFlat},
		StreamSize:  size,
		ChannelCfgs: container.Shared(src, 0),
	}
	bp.Loop, _ = container.PSXLoop(src, 0, size, 0, 1)

	return bp, nil
}
