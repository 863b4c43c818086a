// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/formats/internal/container"
)

const name = "RIFF WAVE"

// fmt tags
const (
	tagPCM        = 0x0001
	tagMSADPCM    = 0x0002
	tagFloat      = 0x0003
	tagIMA        = 0x0011
	tagXboxIMA    = 0x0069
	tagWMAPro     = 0x0162
	tagXMA1       = 0x0165
	tagXMA2       = 0x0166
	tagExtensible = 0xfffe
)

// Prober recognizes RIFF WAVE files holding PCM, MS-ADPCM or IMA data.
type Prober struct{}

func (Prober) Name() string { return name }

// Format is the fmt chunk of a WAVE file.
type Format struct {
	Tag        uint16
	Channels   int
	SampleRate int
	BlockAlign int
	Bits       int
}

// ReadFormat parses the fmt chunk at c. Extensible headers report the tag
// of their sub-format.
func ReadFormat(src bytesrc.Source, c container.Chunk) (Format, bool) {
	if c.Size < 0x10 {
		return Format{}, false
	}

	r := bytesrc.NewReader(src, nil)
	f := Format{
		Tag:        r.U16LE(c.Offset),
		Channels:   int(r.U16LE(c.Offset + 0x02)),
		SampleRate: int(r.U32LE(c.Offset + 0x04)),
		BlockAlign: int(r.U16LE(c.Offset + 0x0c)),
		Bits:       int(r.U16LE(c.Offset + 0x0e)),
	}
	if f.Tag == tagExtensible && c.Size >= 0x28 {
		f.Tag = r.U16LE(c.Offset + 0x18)
	}

	return f, !r.Short()
}

// Chunks checks the RIFF WAVE header and lists the chunks after it.
func Chunks(src bytesrc.Source, form string) ([]container.Chunk, bool) {
	if !bytesrc.IsID(src, 0, "RIFF") || !bytesrc.IsID(src, 8, form) {
		return nil, false
	}

	size, _ := bytesrc.U32LE(src, 4)

	return container.RIFF(src, 12, 8+int64(size)), true
}

func (Prober) Probe(src bytesrc.Source, opts audio.ProbeOptions) (*audio.Blueprint, error) {
	chunks, ok := Chunks(src, "WAVE")
	if !ok {
		return nil, audio.ErrReject
	}

	fc, err := container.Find(chunks, "fmt ")
	if err != nil {
		return nil, audio.Corrupt(name, "no fmt chunk")
	}

	f, ok := ReadFormat(src, fc)
	if !ok {
		return nil, audio.Corrupt(name, "short fmt chunk")
	}

	switch f.Tag {
	case tagXMA1, tagXMA2, tagWMAPro:
		// Microsoft codecs belong to the xma prober
		return nil, audio.ErrReject
	}

	id, frameSize, err := codecFor(f)
	if err != nil {
		return nil, err
	}

	if f.Channels < 1 || f.SampleRate <= 0 {
		return nil, audio.Corrupt(name, "%d channels at %d Hz", f.Channels, f.SampleRate)
	}

	data, err := container.Find(chunks, "data")
	if err != nil {
		return nil, audio.Corrupt(name, "no data chunk")
	}

	bp := &audio.Blueprint{
		Format:     name,
		Channels:   f.Channels,
		SampleRate: f.SampleRate,
		NumSamples: container.Samples(id, frameSize, f.Channels, data.Size),
		Codec:      id,
		Layout:     audio.Layout{Kind: audio.LayoutFlat},
		FrameSize:  frameSize,
		StreamSize: data.Size,
	}

	// compressed streams pad their last block; fact has the real length
	if f.Tag != tagPCM && f.Tag != tagFloat {
		if fact, err := container.Find(chunks, "fact"); err == nil && fact.Size >= 4 {
			if n, ok := bytesrc.U32LE(src, fact.Offset); ok && n > 0 && int64(n) < bp.NumSamples {
				bp.NumSamples = int64(n)
			}
		}
	}

	if bp.NumSamples <= 0 {
		return nil, audio.Corrupt(name, "data chunk of 0x%x bytes holds no samples", data.Size)
	}

	if smpl, err := container.Find(chunks, "smpl"); err == nil {
		bp.Loop = readLoop(src, smpl, bp.NumSamples, opts.Log())
	}

	bp.ChannelCfgs = container.Shared(src, data.Offset)

	return bp, nil
}

func codecFor(f Format) (audio.CodecID, int, error) {
	switch f.Tag {
	case tagPCM:
		switch f.Bits {
		case 8:
			return audio.Pcm8u, 0, nil
		case 16:
			return audio.Pcm16Le, 0, nil
		case 24:
			return audio.Pcm24Le, 0, nil
		}
	case tagFloat:
		if f.Bits == 32 {
			return audio.PcmFloat, 0, nil
		}
	case tagMSADPCM:
		if f.Bits == 4 && f.BlockAlign > 7*f.Channels {
			return audio.MsAdpcm, f.BlockAlign, nil
		}
		return 0, 0, audio.Corrupt(name, "MS-ADPCM block align 0x%x", f.BlockAlign)
	case tagIMA:
		if f.Bits == 4 && f.BlockAlign > 4*f.Channels {
			return audio.MsIma, f.BlockAlign, nil
		}
		return 0, 0, audio.Corrupt(name, "IMA block align 0x%x", f.BlockAlign)
	case tagXboxIMA:
		return audio.XboxIma, 0, nil
	}

	return 0, 0, audio.Unsupported(name, "fmt tag 0x%04x with %d bits", f.Tag, f.Bits)
}

// readLoop takes the first loop of a smpl chunk. Its end is inclusive.
func readLoop(src bytesrc.Source, c container.Chunk, total int64, log audio.Logger) *audio.LoopRegion {
	r := bytesrc.NewReader(src, nil)

	if c.Size < 0x24+0x18 || r.U32LE(c.Offset+0x1c) == 0 {
		return nil
	}

	start := int64(r.U32LE(c.Offset + 0x2c))
	end := int64(r.U32LE(c.Offset+0x30)) + 1
	if r.Short() {
		return nil
	}

	end = min(end, total)
	if start >= end {
		log.Debugf("%s: ignoring smpl loop %d..%d", name, start, end)
		return nil
	}

	return &audio.LoopRegion{Start: start, End: end}
}
