// SPDX-License-Identifier: EPL-2.0

package cwav

import (
	"encoding/binary"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/codec/compresswave"
	"github.com/ik5/vgmpbx/formats/internal/container"
)

const (
	name = "CompressWave"

	tableOffset   = 0x14
	sizeOffset    = 0x414
	loopOffset    = 0x41c
	titleOffset   = 0x430
	artistOffset  = 0x4b4
	stringSize    = 0x84
	huffmanOffset = 0x538
	weightsOffset = huffmanOffset + 0x10
	// DataOffset is where the coded stream starts.
	DataOffset = 0x948
)

// Prober recognizes CmpWave files.
type Prober struct{}

func (Prober) Name() string { return name }

func (Prober) Probe(src bytesrc.Source, opts audio.ProbeOptions) (*audio.Blueprint, error) {
	if !bytesrc.IsID(src, 0, "CmpWave\x00") {
		return nil, audio.ErrReject
	}

	r := bytesrc.NewReader(src, binary.LittleEndian)

	cfg := compresswave.Config{
		Channels:   int(r.U32(0x08)),
		SampleRate: int(r.U32(0x0c)),
		CipherMask: r.U32(huffmanOffset),
		// the header loop points are wrong in every known file; the
		// whole stream loops and the decoder snapshots at its start
		LoopStart: 0,
	}
	bitsPer := r.U32(0x10)
	for i := range cfg.Table {
		cfg.Table[i] = r.S32(tableOffset + int64(i)*4)
		cfg.Weights[i] = r.U32(weightsOffset + int64(i)*4)
	}
	unpressed := int64(r.U64(sizeOffset))
	loopStart, loopEnd := r.U64(loopOffset), r.U64(loopOffset+8)

	if r.Short() {
		return nil, audio.Corrupt(name, "%v", r.Err())
	}

	switch {
	case cfg.Channels != 1 && cfg.Channels != 2:
		return nil, audio.Corrupt(name, "%d channels", cfg.Channels)
	case cfg.SampleRate != compresswave.OutputRate && cfg.SampleRate != compresswave.OutputRate/2:
		return nil, audio.Corrupt(name, "sample rate %d", cfg.SampleRate)
	case bitsPer != 16:
		return nil, audio.Unsupported(name, "%d bits per sample", bitsPer)
	case unpressed < 4:
		return nil, audio.Corrupt(name, "unpacked size %d", unpressed)
	}
	opts.Log().Debugf("%s: ignoring header loop 0x%x..0x%x", name, loopStart, loopEnd)

	cfg.NumSamples = unpressed / 2 / 2

	bp := &audio.Blueprint{
		Format:      name,
		Channels:    2,
		SampleRate:  compresswave.OutputRate,
		NumSamples:  cfg.NumSamples,
		Loop:        &audio.LoopRegion{Start: 0, End: cfg.NumSamples},
		Codec:       audio.CompressWave,
		Layout:      audio.Layout{Kind: audio.LayoutNone},
		StreamName:  title(r),
		StreamSize:  src.Size() - DataOffset,
		ChannelCfgs: container.Shared(src, DataOffset),
		CodecParams: cfg,
	}
	if bp.StreamSize <= 0 {
		bp.Close()
		return nil, audio.Corrupt(name, "no coded data")
	}

	return bp, nil
}

// title is the first non-empty of the two Shift-JIS name strings.
func title(r *bytesrc.Reader) string {
	for _, off := range []int64{titleOffset, artistOffset} {
		n := int(r.U8(off))
		if n == 0 || n >= stringSize {
			continue
		}
		if s := container.ShiftJIS(r.Bytes(off+1, n)); s != "" {
			return s
		}
	}

	return ""
}
