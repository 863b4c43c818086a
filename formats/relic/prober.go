// SPDX-License-Identifier: EPL-2.0

package relic

import (
	"encoding/binary"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	relicdec "github.com/ik5/vgmpbx/codec/relic"
)

const (
	name = "Relic WXH/WXD"

	entriesOffset = 0x08
	entrySize     = 0x10
	sampleRate    = 44100
)

// Prober pairs a .wxh header with its .wxd data. Either file may be the
// one opened.
type Prober struct{}

func (Prober) Name() string         { return name }
func (Prober) Extensions() []string { return []string{"wxh", "wxd"} }

func (Prober) Probe(src bytesrc.Source, opts audio.ProbeOptions) (*audio.Blueprint, error) {
	head, data, ok := pair(src)
	if !ok {
		return nil, audio.ErrReject
	}
	defer head.Close()

	bp, err := probe(head, data, opts)
	if err != nil {
		data.Close()
		return nil, err
	}

	return bp, nil
}

// pair returns the header and data sources, each with a reference the
// caller owns.
func pair(src bytesrc.Source) (head, data bytesrc.Source, ok bool) {
	if bytesrc.IsID(src, 0, "WXH1") {
		wxd, ok := src.Companion(".wxd")
		if !ok {
			return nil, nil, false
		}
		return src.Retain(), wxd, true
	}

	if bytesrc.Ext(src) != "wxd" {
		return nil, nil, false
	}

	wxh, ok := src.Companion(".wxh")
	if !ok {
		return nil, nil, false
	}
	if !bytesrc.IsID(wxh, 0, "WXH1") {
		wxh.Close()
		return nil, nil, false
	}

	return wxh, src.Retain(), true
}

func probe(head, data bytesrc.Source, opts audio.ProbeOptions) (*audio.Blueprint, error) {
	r := bytesrc.NewReader(head, binary.LittleEndian)

	count := int(r.U32(0x04))
	if r.Short() {
		return nil, audio.Corrupt(name, "%v", r.Err())
	}

	index, err := audio.SelectSubsong(name, opts.Subsong, count)
	if err != nil {
		return nil, err
	}

	e := int64(entriesOffset + (index-1)*entrySize)
	offset := int64(r.U32(e))
	cfg := relicdec.Config{
		Bitrate:  int(r.U32(e + 0x04)),
		Channels: int(r.U16(e + 0x08)),
		DCTMode:  int(r.U8(e + 0x0c)),
	}
	loopFlag := r.U16(e + 0x0a)
	if r.Short() {
		return nil, audio.Corrupt(name, "entry %d: %v", index, r.Err())
	}

	switch {
	case cfg.Channels < 1 || cfg.Channels > 2:
		return nil, audio.Corrupt(name, "%d channels", cfg.Channels)
	case relicdec.FrameSize(cfg.Bitrate) <= 0:
		return nil, audio.Corrupt(name, "bitrate %d", cfg.Bitrate)
	case cfg.DCTMode > 2:
		return nil, audio.Unsupported(name, "dct mode %d", cfg.DCTMode)
	}

	if !bytesrc.IsID(data, offset, "DATA") {
		return nil, audio.Corrupt(name, "no DATA at 0x%x", offset)
	}
	size, _ := bytesrc.U32LE(data, offset+4)
	start := offset + 8
	if avail := data.Size() - start; int64(size) > avail {
		opts.Log().Debugf("%s: DATA says 0x%x bytes, 0x%x left", name, size, avail)
		size = uint32(avail)
	}

	cfg.NumSamples = relicdec.BytesToSamples(int64(size), cfg.Channels, cfg.Bitrate)
	if cfg.NumSamples <= 0 {
		return nil, audio.Corrupt(name, "no frames")
	}

	bp := &audio.Blueprint{
		Format:      name,
		Channels:    cfg.Channels,
		SampleRate:  sampleRate,
		NumSamples:  cfg.NumSamples,
		Codec:       audio.Relic,
		Layout:      audio.Layout{Kind: audio.LayoutNone},
		Subsong:     &audio.Subsong{Index: index, Count: count},
		StreamSize:  int64(size),
		ChannelCfgs: []audio.ChannelCfg{{Source: data, StartOffset: start}},
		CodecParams: cfg,
	}
	if loopFlag != 0 {
		bp.Loop = &audio.LoopRegion{Start: 0, End: bp.NumSamples}
	}

	return bp, nil
}
