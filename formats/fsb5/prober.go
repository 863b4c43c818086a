// SPDX-License-Identifier: EPL-2.0

package fsb5

import (
	"encoding/binary"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/formats/internal/container"
)

const formatName = "FMOD FSB5"

// Codec modes.
const (
	modePCM8     = 1
	modePCM16    = 2
	modePCM24    = 3
	modePCM32    = 4
	modePCMFloat = 5
	modeGCADPCM  = 6
	modeIMA      = 7
	modeVAG      = 8
	modeHEVAG    = 9
	modeXMA      = 10
	modeMPEG     = 11
	modeCELT     = 12
	modeAT9      = 13
	modeXWMA     = 14
	modeVorbis   = 15
	modeFADPCM   = 16
	modeOpus     = 17
)

// codecMode is how one mode maps onto the engine. interleave is the
// per-channel block of multichannel streams; 0 means the channels share
// every frame.
type codecMode struct {
	codec      audio.CodecID
	external   audio.ExternalKind
	interleave int64
}

var modes = map[uint32]codecMode{
	modePCM8:     {codec: audio.Pcm8},
	modePCM16:    {codec: audio.Pcm16Le},
	modePCM24:    {codec: audio.Pcm24Le},
	modePCMFloat: {codec: audio.PcmFloat},
	modeGCADPCM:  {codec: audio.DspAdpcm, interleave: 0x08},
	modeIMA:      {codec: audio.XboxIma},
	modeVAG:      {codec: audio.PsxAdpcm, interleave: 0x10},
	modeHEVAG:    {codec: audio.Hevag},
	modeXMA:      {codec: audio.External, external: audio.ExtXma},
	modeMPEG:     {codec: audio.External, external: audio.ExtMpeg},
	modeCELT:     {codec: audio.External, external: audio.ExtCelt},
	modeAT9:      {codec: audio.External, external: audio.ExtAtrac9},
	modeVorbis:   {codec: audio.External, external: audio.ExtVorbis},
	modeFADPCM:   {codec: audio.Fadpcm, interleave: 0x8c},
	modeOpus:     {codec: audio.External, external: audio.ExtOpus},
}

// Prober recognizes FSB5 banks.
type Prober struct{}

func (Prober) Name() string { return formatName }

func (Prober) Probe(src bytesrc.Source, opts audio.ProbeOptions) (*audio.Blueprint, error) {
	if !bytesrc.IsID(src, 0, "FSB5") {
		return nil, audio.ErrReject
	}

	r := bytesrc.NewReader(src, binary.LittleEndian)
	b := readBank(r)
	if r.Short() {
		return nil, audio.Corrupt(formatName, "%v", r.Err())
	}
	if b.version > 1 {
		return nil, audio.Unsupported(formatName, "version %d", b.version)
	}
	if b.data() > src.Size() {
		return nil, audio.Corrupt(formatName, "data section at 0x%x past end 0x%x", b.data(), src.Size())
	}

	index, err := audio.SelectSubsong(formatName, opts.Subsong, b.subsongs)
	if err != nil {
		return nil, err
	}

	mode, ok := modes[b.mode]
	if !ok {
		return nil, audio.Unsupported(formatName, "codec mode %d", b.mode)
	}

	// headers are variable sized, so walk up to the selected one
	off := b.headers()
	var s sample
	for range index {
		s = readSample(r, off)
		off = s.next
	}

	end := b.dataSize
	if index < b.subsongs {
		end = readSample(r, off).offset
	}
	if r.Short() || off > b.names() {
		return nil, audio.Corrupt(formatName, "subsong %d header runs past 0x%x", index, b.names())
	}

	switch {
	case s.rate <= 0:
		return nil, audio.Corrupt(formatName, "subsong %d: bad sample rate", index)
	case s.channels < 1:
		return nil, audio.Corrupt(formatName, "subsong %d: %d channels", index, s.channels)
	case s.samples <= 0:
		return nil, audio.Corrupt(formatName, "subsong %d: no samples", index)
	}

	start := b.data() + s.offset
	size := end - s.offset
	if start >= src.Size() || size <= 0 {
		return nil, audio.Corrupt(formatName, "subsong %d: data 0x%x..0x%x", index, s.offset, end)
	}
	if avail := src.Size() - start; size > avail {
		opts.Log().Debugf("%s: subsong %d wants 0x%x bytes, 0x%x left", formatName, index, size, avail)
		size = avail
	}

	bp := &audio.Blueprint{
		Format:     formatName,
		Channels:   s.channels,
		SampleRate: s.rate,
		NumSamples: s.samples,
		Codec:      mode.codec,
		External:   mode.external,
		Subsong:    &audio.Subsong{Index: index, Count: b.subsongs},
		StreamName: name(r, b, index-1),
		StreamSize: size,
	}

	switch {
	case mode.codec == audio.External || mode.codec == audio.Hevag:
		bp.Layout = audio.Layout{Kind: audio.LayoutNone}
		bp.ChannelCfgs = container.Shared(src, start)
	case mode.interleave > 0 && s.channels > 1:
		bp.Layout = audio.Layout{
			Kind:          audio.LayoutInterleave,
			BlockSize:     mode.interleave,
			LastBlockSize: container.LastBlock(size, mode.interleave, s.channels),
		}
		bp.ChannelCfgs = container.Interleaved(src, start, mode.interleave, s.channels)
	default:
		bp.Layout = audio.Layout{Kind: audio.LayoutFlat}
		bp.ChannelCfgs = container.Shared(src, start)
	}

	if mode.codec == audio.DspAdpcm {
		if len(s.dsp) < s.channels {
			return nil, audio.Corrupt(formatName, "subsong %d: DSP coefficients for %d of %d channels", index, len(s.dsp), s.channels)
		}
		for c := range bp.ChannelCfgs {
			bp.ChannelCfgs[c].Coefs = s.dsp[c].coefs
			bp.ChannelCfgs[c].Hist1 = s.dsp[c].hist1
			bp.ChannelCfgs[c].Hist2 = s.dsp[c].hist2
		}
	}

	if s.loop {
		ls, le := s.loopStart, min(s.loopEnd, s.samples)
		if ls < le {
			bp.Loop = &audio.LoopRegion{Start: ls, End: le}
		} else {
			opts.Log().Debugf("%s: subsong %d loop %d..%d ignored", formatName, index, s.loopStart, s.loopEnd)
		}
	}

	return bp, nil
}
