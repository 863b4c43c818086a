// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"io"

	"github.com/go-audio/aiff"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/formats/internal/container"
)

const name = "AIFF"

// Prober recognizes AIFF and uncompressed AIFC files.
type Prober struct{}

func (Prober) Name() string { return name }

func (Prober) Probe(src bytesrc.Source, opts audio.ProbeOptions) (*audio.Blueprint, error) {
	if !bytesrc.IsID(src, 0, "FORM") {
		return nil, audio.ErrReject
	}

	aifc := bytesrc.IsID(src, 8, "AIFC")
	if !aifc && !bytesrc.IsID(src, 8, "AIFF") {
		return nil, audio.ErrReject
	}

	dec := aiff.NewDecoder(io.NewSectionReader(src, 0, src.Size()))
	if !dec.IsValidFile() {
		return nil, audio.ErrReject
	}

	dec.ReadInfo()

	f := dec.Format()
	if f == nil || f.NumChannels < 1 || f.SampleRate <= 0 {
		return nil, audio.Corrupt(name, "%v", ErrNoCommon)
	}

	formSize, _ := bytesrc.U32BE(src, 4)
	chunks := container.IFF(src, 12, 8+int64(formSize))

	comm, err := container.Find(chunks, "COMM")
	if err != nil {
		return nil, audio.Corrupt(name, "%v", ErrNoCommon)
	}

	r := bytesrc.NewReader(src, nil)
	frames := int64(r.U32BE(comm.Offset + 0x02))

	little := false
	if aifc && comm.Size >= 0x16 {
		switch string(r.Bytes(comm.Offset+0x12, 4)) {
		case "NONE", "twos":
		case "sowt":
			little = true
		default:
			return nil, audio.Unsupported(name, "AIFC compression %q", r.Bytes(comm.Offset+0x12, 4))
		}
	}

	var id audio.CodecID
	switch {
	case dec.BitDepth == 8:
		id = audio.Pcm8
	case dec.BitDepth == 16 && little:
		id = audio.Pcm16Le
	case dec.BitDepth == 16:
		id = audio.Pcm16Be
	default:
		return nil, audio.Unsupported(name, "%d-bit samples", dec.BitDepth)
	}

	ssnd, err := container.Find(chunks, "SSND")
	if err != nil {
		return nil, audio.Corrupt(name, "%v", ErrNoSoundData)
	}

	skip := int64(r.U32BE(ssnd.Offset))
	if r.Short() || 8+skip > ssnd.Size {
		return nil, audio.Corrupt(name, "SSND offset 0x%x past chunk end", skip)
	}

	start := ssnd.Offset + 8 + skip
	size := ssnd.Size - 8 - skip
	frames = min(frames, container.Samples(id, 0, f.NumChannels, size))

	bp := &audio.Blueprint{
		Format:     name,
		Channels:   f.NumChannels,
		SampleRate: f.SampleRate,
		NumSamples: frames,
		Codec:      id,
		Layout:     audio.Layout{Kind: audio.LayoutFlat},
		StreamSize: size,
	}
	if frames <= 0 {
		return nil, audio.Corrupt(name, "no sample frames")
	}

	bp.Loop = readLoop(src, chunks, frames, opts.Log())
	bp.ChannelCfgs = container.Shared(src, start)

	return bp, nil
}

// readLoop resolves the INST sustain loop through the MARK positions.
func readLoop(src bytesrc.Source, chunks []container.Chunk, total int64, log audio.Logger) *audio.LoopRegion {
	inst, err := container.Find(chunks, "INST")
	if err != nil || inst.Size < 0x0e {
		return nil
	}
	mark, err := container.Find(chunks, "MARK")
	if err != nil {
		return nil
	}

	r := bytesrc.NewReader(src, nil)
	if r.U16BE(inst.Offset+0x08) == 0 {
		return nil
	}
	begin, end := r.U16BE(inst.Offset+0x0a), r.U16BE(inst.Offset+0x0c)

	markers := make(map[uint16]int64)
	pos := mark.Offset + 2
	for range r.U16BE(mark.Offset) {
		if pos+7 > mark.Offset+mark.Size {
			break
		}
		// id, position, pascal string padded to an even size
		markers[r.U16BE(pos)] = int64(r.U32BE(pos + 2))
		n := int64(r.U8(pos + 6))
		pos += 6 + (n+2)&^1
	}

	ls, ok1 := markers[begin]
	le, ok2 := markers[end]
	if !ok1 || !ok2 || r.Short() {
		return nil
	}

	le = min(le, total)
	if ls >= le {
		log.Debugf("%s: ignoring sustain loop %d..%d", name, ls, le)
		return nil
	}

	return &audio.LoopRegion{Start: ls, End: le}
}
