// SPDX-License-Identifier: EPL-2.0

package xma

import (
	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/formats/internal/container"
	"github.com/ik5/vgmpbx/formats/wav"
	"github.com/ik5/vgmpbx/msaudio"
)

const name = "Microsoft XMA/WMAPro"

const (
	tagWMAPro = 0x0162
	tagXMA1   = 0x0165
	tagXMA2   = 0x0166
)

// Prober recognizes RIFF files with XMA1, XMA2 or WMAPro streams.
type Prober struct{}

func (Prober) Name() string { return name }

// header is what the container variants agree on.
type header struct {
	kind   audio.ExternalKind
	params msaudio.Params

	// sample loop of XMA2 containers; XMA1 loops come from the bitstream
	loopStart, loopEnd int64
	loop               bool
}

func (Prober) Probe(src bytesrc.Source, opts audio.ProbeOptions) (*audio.Blueprint, error) {
	chunks, ok := wav.Chunks(src, "WAVE")
	if !ok {
		if chunks, ok = wav.Chunks(src, "XWMA"); !ok {
			return nil, audio.ErrReject
		}
	}

	h, err := readHeader(src, chunks)
	if err != nil {
		return nil, err
	}

	data, err := container.Find(chunks, "data")
	if err != nil {
		return nil, audio.Corrupt(name, "no data chunk")
	}

	p := h.params
	if p.Channels < 1 || p.SampleRate <= 0 {
		return nil, audio.Corrupt(name, "%d channels at %d Hz", p.Channels, p.SampleRate)
	}

	res, err := msaudio.Parse(src, data.Offset, data.Size, p)
	if err != nil {
		return nil, audio.Corrupt(name, "%s bitstream: %v", p.Version, err)
	}
	if res.NumSamples <= 0 {
		return nil, audio.Corrupt(name, "%s bitstream holds no samples", p.Version)
	}

	opts.Log().Debugf("%s: %s, %d frames, skips %d/%d", name, p.Version, res.Frames, res.StartSkip, res.EndSkip)

	bp := &audio.Blueprint{
		Format:       name,
		Channels:     p.Channels,
		SampleRate:   p.SampleRate,
		NumSamples:   res.NumSamples,
		Codec:        audio.External,
		External:     h.kind,
		Layout:       audio.Layout{Kind: audio.LayoutNone},
		StreamSize:   data.Size,
		EncoderDelay: int64(res.StartSkip),
		FrameSize:    msaudio.PacketSize,
		CodecParams:  p,
		ChannelCfgs:  container.Shared(src, data.Offset),
	}
	if p.Version == msaudio.WMAPro {
		bp.FrameSize = p.BlockAlign
	}

	switch {
	case p.Version == msaudio.XMA1 && res.Looping:
		bp.Loop = &audio.LoopRegion{Start: res.LoopStart, End: res.LoopEnd}
	case h.loop:
		end := min(h.loopEnd, res.NumSamples)
		if h.loopStart < end {
			bp.Loop = &audio.LoopRegion{Start: h.loopStart, End: end}
		}
	}

	return bp, nil
}

func readHeader(src bytesrc.Source, chunks []container.Chunk) (header, error) {
	if c, err := container.Find(chunks, "XMA2"); err == nil {
		return readXMA2Chunk(src, c)
	}

	fc, err := container.Find(chunks, "fmt ")
	if err != nil {
		return header{}, audio.ErrReject
	}

	f, ok := wav.ReadFormat(src, fc)
	if !ok {
		return header{}, audio.ErrReject
	}

	switch f.Tag {
	case tagXMA1:
		return readXMA1(src, fc)
	case tagXMA2:
		return readXMA2(src, fc, f)
	case tagWMAPro:
		if fc.Size < 0x22 {
			return header{}, audio.Corrupt(name, "WMAPro fmt chunk of 0x%x bytes", fc.Size)
		}
		flags, _ := bytesrc.U16LE(src, fc.Offset+0x20)

		return header{kind: audio.ExtWmaPro, params: msaudio.Params{
			Version:     msaudio.WMAPro,
			Channels:    f.Channels,
			SampleRate:  f.SampleRate,
			BlockAlign:  f.BlockAlign,
			DecodeFlags: int(flags),
		}}, nil
	}

	return header{}, audio.ErrReject
}

// readXMA1 parses an XMAWAVEFORMAT: a shared header and 0x14 bytes per
// stream. Channels add up over the streams.
func readXMA1(src bytesrc.Source, c container.Chunk) (header, error) {
	r := bytesrc.NewReader(src, nil)

	streams := int(r.U16LE(c.Offset + 0x08))
	if streams < 1 || c.Size < 0x0c+int64(streams)*0x14 {
		return header{}, audio.Corrupt(name, "XMA1 fmt with %d streams in 0x%x bytes", streams, c.Size)
	}

	first := c.Offset + 0x0c
	p := msaudio.Params{
		Version:    msaudio.XMA1,
		SampleRate: int(r.U32LE(first + 0x04)),
	}

	for i := range int64(streams) {
		p.Channels += int(r.U8(first + i*0x14 + 0x11))
	}

	p.LoopStartBit = int64(r.U32LE(first + 0x08))
	p.LoopEndBit = int64(r.U32LE(first + 0x0c))
	sub := r.U8(first + 0x10)
	p.LoopStartSubframe = int(sub & 0x0f)
	p.LoopEndSubframe = int(sub >> 4)
	p.LoopFlag = r.U8(c.Offset+0x0a) > 0 || p.LoopEndBit > 0

	if r.Short() {
		return header{}, audio.Corrupt(name, "%v", r.Err())
	}

	return header{kind: audio.ExtXma, params: p}, nil
}

// readXMA2 parses an XMA2WAVEFORMATEX. Its loop is in samples.
func readXMA2(src bytesrc.Source, c container.Chunk, f wav.Format) (header, error) {
	if c.Size < 0x34 {
		return header{}, audio.Corrupt(name, "XMA2 fmt chunk of 0x%x bytes", c.Size)
	}

	r := bytesrc.NewReader(src, nil)
	h := header{kind: audio.ExtXma, params: msaudio.Params{
		Version:    msaudio.XMA2,
		Channels:   f.Channels,
		SampleRate: f.SampleRate,
	}}

	begin := int64(r.U32LE(c.Offset + 0x28))
	length := int64(r.U32LE(c.Offset + 0x2c))
	count := r.U8(c.Offset + 0x30)

	h.loop = length > 0 && (count > 0 || begin > 0)
	h.loopStart, h.loopEnd = begin, begin+length

	return h, nil
}

// readXMA2Chunk parses the big-endian XMA2 chunk of early tools. Version 3
// keeps the rate at 0x14 and the stream table at 0x20; later versions move
// them 4 bytes on.
func readXMA2Chunk(src bytesrc.Source, c container.Chunk) (header, error) {
	r := bytesrc.NewReader(src, nil)

	version := r.U8(c.Offset)
	streams := int64(r.U8(c.Offset + 0x01))

	rateAt, table := int64(0x14), int64(0x20)
	if version > 3 {
		rateAt, table = 0x18, 0x24
	}
	if c.Size < table+streams*4 {
		return header{}, audio.Corrupt(name, "XMA2 chunk v%d of 0x%x bytes", version, c.Size)
	}

	h := header{kind: audio.ExtXma, params: msaudio.Params{
		Version:    msaudio.XMA2,
		SampleRate: int(r.U32BE(c.Offset + rateAt)),
	}}
	for i := range streams {
		h.params.Channels += int(r.U8(c.Offset + table + i*4))
	}

	h.loopStart = int64(r.U32BE(c.Offset + 0x04))
	h.loopEnd = int64(r.U32BE(c.Offset + 0x08))
	h.loop = h.loopEnd > 0

	if r.Short() {
		return header{}, audio.Corrupt(name, "%v", r.Err())
	}

	return h, nil
}
