// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"strconv"
	"strings"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/formats/internal/container"
)

const (
	name = "Ogg Vorbis"

	// the last page is looked for this far from the end
	tailWindow = 0x10000
)

// Prober recognizes Ogg Vorbis streams.
type Prober struct{}

func (Prober) Name() string { return name }

// page is an Ogg page header.
type page struct {
	granule int64
	body    int64 // offset of the page body
	size    int64 // body size
}

func readPage(src bytesrc.Source, off int64) (page, bool) {
	if !bytesrc.IsID(src, off, "OggS") {
		return page{}, false
	}

	r := bytesrc.NewReader(src, nil)
	p := page{granule: int64(r.U64LE(off + 6))}

	segs := int64(r.U8(off + 26))
	table := r.Bytes(off+27, int(segs))
	for _, s := range table {
		p.size += int64(s)
	}
	p.body = off + 27 + segs

	return p, !r.Short()
}

func (Prober) Probe(src bytesrc.Source, opts audio.ProbeOptions) (*audio.Blueprint, error) {
	first, ok := readPage(src, 0)
	if !ok || !bytesrc.IsID(src, first.body, "\x01vorbis") {
		return nil, audio.ErrReject
	}

	r := bytesrc.NewReader(src, nil)
	channels := int(r.U8(first.body + 0x0b))
	rate := int(r.U32LE(first.body + 0x0c))
	if r.Short() || channels < 1 || rate <= 0 {
		return nil, audio.Corrupt(name, "identification header: %d channels at %d Hz", channels, rate)
	}

	total := lastGranule(src)
	if total <= 0 {
		return nil, audio.Corrupt(name, "no final granule position")
	}

	bp := &audio.Blueprint{
		Format:      name,
		Channels:    channels,
		SampleRate:  rate,
		NumSamples:  total,
		Codec:       audio.External,
		External:    audio.ExtVorbis,
		Layout:      audio.Layout{Kind: audio.LayoutNone},
		StreamSize:  src.Size(),
		ChannelCfgs: container.Shared(src, 0),
	}

	next := first.body + first.size
	if tags, ok := readPage(src, next); ok {
		c := comments(src, tags.body, tags.size)
		bp.StreamName = c["TITLE"]
		bp.Loop = loopFrom(c, total, opts.Log())
	}

	return bp, nil
}

// lastGranule is the granule position of the last page, the stream length
// in samples.
func lastGranule(src bytesrc.Source) int64 {
	start := max(0, src.Size()-tailWindow)
	tail, _ := bytesrc.ReadFull(src, start, int(src.Size()-start))

	for i := len(tail) - 27; i >= 0; i-- {
		if string(tail[i:i+4]) != "OggS" {
			continue
		}
		if p, ok := readPage(src, start+int64(i)); ok && p.granule > 0 {
			return p.granule
		}
	}

	return 0
}

// comments parses the Vorbis comment packet at off. Keys are upper-cased.
func comments(src bytesrc.Source, off, size int64) map[string]string {
	out := make(map[string]string)
	if !bytesrc.IsID(src, off, "\x03vorbis") {
		return out
	}

	r := bytesrc.NewReader(src, nil)
	end := off + size
	pos := off + 7
	pos += 4 + int64(r.U32LE(pos)) // vendor

	count := r.U32LE(pos)
	pos += 4
	for range count {
		n := int64(r.U32LE(pos))
		if r.Short() || pos+4+n > end {
			break
		}

		kv := string(r.Bytes(pos+4, int(n)))
		if k, v, ok := strings.Cut(kv, "="); ok {
			out[strings.ToUpper(k)] = v
		}
		pos += 4 + n
	}

	return out
}

// loopFrom reads the LOOPSTART tag with LOOPLENGTH or LOOPEND.
func loopFrom(c map[string]string, total int64, log audio.Logger) *audio.LoopRegion {
	start, err := strconv.ParseInt(c["LOOPSTART"], 10, 64)
	if err != nil {
		return nil
	}

	end := total
	if v, err := strconv.ParseInt(c["LOOPLENGTH"], 10, 64); err == nil {
		end = start + v
	} else if v, err := strconv.ParseInt(c["LOOPEND"], 10, 64); err == nil {
		end = v
	}

	end = min(end, total)
	if start < 0 || start >= end {
		log.Debugf("%s: ignoring loop tags %d..%d", name, start, end)
		return nil
	}

	return &audio.LoopRegion{Start: start, End: end}
}
