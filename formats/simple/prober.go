// SPDX-License-Identifier: EPL-2.0

package simple

import (
	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/codec/adpcm"
	"github.com/ik5/vgmpbx/formats/internal/container"
)

const maxChannels = 8

// Prober probes one table entry.
type Prober struct {
	Format Format
}

// Probers returns a prober per entry of Formats.
func Probers() []audio.Prober {
	out := make([]audio.Prober, 0, len(Formats))
	for _, f := range Formats {
		out = append(out, Prober{Format: f})
	}

	return out
}

func (p Prober) Name() string { return p.Format.Name }

func (p Prober) Probe(src bytesrc.Source, opts audio.ProbeOptions) (*audio.Blueprint, error) {
	f := p.Format
	if !bytesrc.IsID(src, 0, f.Magic) {
		return nil, audio.ErrReject
	}

	r := bytesrc.NewReader(src, f.Order)
	get := func(fl Field) int64 {
		switch fl.Width {
		case 1:
			return int64(r.U8(fl.Off))
		case 2:
			return int64(r.U16(fl.Off))
		case 4:
			return int64(r.U32(fl.Off))
		}
		return fl.Value
	}

	for _, req := range f.Require {
		if got := get(Field{Off: req.Off, Width: req.Width}); got != req.Value {
			return nil, audio.ErrReject
		}
	}

	channels := int(get(f.Channels))
	rate := int(get(f.SampleRate))
	start := get(f.Start)
	frameSize := int(get(f.FrameSize))
	scale := int16(get(f.Scale))
	interleave := get(f.Interleave)

	if r.Short() {
		return nil, audio.Corrupt(f.Name, "%v", r.Err())
	}

	switch {
	case channels < 1 || channels > maxChannels:
		return nil, audio.Corrupt(f.Name, "%d channels", channels)
	case rate <= 0:
		return nil, audio.Corrupt(f.Name, "sample rate %d", rate)
	case start <= 0 || start >= src.Size():
		return nil, audio.Corrupt(f.Name, "data at 0x%x", start)
	}
	if _, err := adpcm.New(f.Codec, frameSize, 1); err != nil {
		return nil, audio.Corrupt(f.Name, "%v", err)
	}

	size := src.Size() - start
	if f.DataSize.set() {
		declared := get(f.DataSize)
		if declared > 0 && declared <= size {
			size = declared
		} else {
			opts.Log().Debugf("%s: data size 0x%x, 0x%x available", f.Name, declared, size)
		}
	}
	if channels == 1 {
		interleave = 0
	}

	var samples int64
	switch {
	case f.NumSamples.set():
		samples = get(f.NumSamples)
	case interleave > 0:
		samples = container.Samples(f.Codec, frameSize, 1, size/int64(channels))
	default:
		samples = container.Samples(f.Codec, frameSize, channels, size)
	}
	if r.Short() || samples <= 0 {
		return nil, audio.Corrupt(f.Name, "no samples")
	}

	bp := &audio.Blueprint{
		Format:     f.Name,
		Channels:   channels,
		SampleRate: rate,
		NumSamples: samples,
		Codec:      f.Codec,
		FrameSize:  frameSize,
		StreamSize: size,
	}

	if interleave > 0 {
		bp.Layout = audio.Layout{
			Kind:          audio.LayoutInterleave,
			BlockSize:     interleave,
			LastBlockSize: container.LastBlock(size, interleave, channels),
		}
		bp.ChannelCfgs = container.Interleaved(src, start, interleave, channels)
	} else {
		bp.Layout = audio.Layout{Kind: audio.LayoutFlat}
		bp.ChannelCfgs = container.Shared(src, start)
	}
	for i := range bp.ChannelCfgs {
		bp.ChannelCfgs[i].PredScale = scale
	}

	if f.LoopEnd.set() {
		ls, le := get(f.LoopStart), get(f.LoopEnd)
		switch {
		case le <= ls:
		case le > samples:
			opts.Log().Debugf("%s: loop %d..%d past %d samples", f.Name, ls, le, samples)
		default:
			bp.Loop = &audio.LoopRegion{Start: ls, End: le}
		}
	}

	return bp, nil
}
