// SPDX-License-Identifier: EPL-2.0

// Package container holds helpers shared by the probers: channel layouts,
// chunk walkers and name decoding.
package container

import (
	"bytes"
	"errors"
	"io"

	"github.com/go-audio/riff"
	"golang.org/x/text/encoding/japanese"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/codec"
	"github.com/ik5/vgmpbx/codec/adpcm"
	"github.com/ik5/vgmpbx/codec/pcm"
)

// Shared is the channel config of a stream every channel reads from start.
func Shared(src bytesrc.Source, start int64) []audio.ChannelCfg {
	return []audio.ChannelCfg{{Source: src.Retain(), StartOffset: start}}
}

// Interleaved gives each channel its first block of an interleave starting
// at start.
func Interleaved(src bytesrc.Source, start, block int64, channels int) []audio.ChannelCfg {
	cfgs := make([]audio.ChannelCfg, channels)
	for c := range cfgs {
		cfgs[c] = audio.ChannelCfg{Source: src.Retain(), StartOffset: start + int64(c)*block}
	}

	return cfgs
}

// LastBlock is the size of the shortened final block of an interleave over
// size bytes per channel, or 0 when every block is full.
func LastBlock(size, block int64, channels int) int64 {
	if block <= 0 || channels <= 0 {
		return 0
	}

	return (size / int64(channels)) % block
}

// Chunk is one chunk of a RIFF or IFF file. Offset is where its body
// starts.
type Chunk struct {
	ID     string
	Offset int64
	Size   int64
}

// ErrNoChunk is returned by Find.
var ErrNoChunk = errors.New("chunk not found")

// RIFF lists the little-endian chunks between start and end. Sizes are
// rounded up to even like the parser reports them; a truncated last chunk
// is clamped to the data that exists.
func RIFF(src bytesrc.Source, start, end int64) []Chunk {
	end = min(end, src.Size())
	if start >= end {
		return nil
	}

	sr := io.NewSectionReader(src, start, end-start)
	p := riff.New(sr)

	var chunks []Chunk
	for pos := int64(0); pos+8 <= end-start; {
		ch, err := p.NextChunk()
		if err != nil || ch == nil {
			break
		}

		body := pos + 8
		chunks = append(chunks, Chunk{
			ID:     string(ch.ID[:]),
			Offset: start + body,
			Size:   min(int64(ch.Size), end-start-body),
		})

		// the chunk reads from sr, so skipping it moves the parser on
		if sk, ok := ch.R.(io.Seeker); ok {
			if _, err := sk.Seek(int64(ch.Size), io.SeekCurrent); err != nil {
				break
			}
		} else {
			ch.Drain()
		}

		pos = body + int64(ch.Size)
	}

	return chunks
}

// IFF lists the big-endian chunks between start and end, padded to even
// sizes like RIFF.
func IFF(src bytesrc.Source, start, end int64) []Chunk {
	end = min(end, src.Size())

	var chunks []Chunk
	for pos := start; pos+8 <= end; {
		id, _ := bytesrc.ReadFull(src, pos, 4)
		sz, _ := bytesrc.U32BE(src, pos+4)

		size := min(int64(sz), end-pos-8)
		chunks = append(chunks, Chunk{ID: string(id), Offset: pos + 8, Size: size})

		pos += 8 + int64(sz) + int64(sz&1)
	}

	return chunks
}

// Find returns the first chunk with id.
func Find(chunks []Chunk, id string) (Chunk, error) {
	for _, c := range chunks {
		if c.ID == id {
			return c, nil
		}
	}

	return Chunk{}, ErrNoChunk
}

// CString cuts b at the first NUL.
func CString(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}

	return b
}

// ShiftJIS decodes a NUL-terminated Shift-JIS name. Plain ASCII passes
// through unchanged; undecodable input is returned as is.
func ShiftJIS(b []byte) string {
	b = CString(b)

	out, err := japanese.ShiftJIS.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}

	return string(out)
}

// Samples is how many samples per channel of a frame codec fit in size
// bytes of a stream all channels share.
func Samples(id audio.CodecID, frameSize, channels int, size int64) int64 {
	var (
		dec codec.FrameDecoder
		err error
	)

	if pcm.Supports(id) {
		dec, err = pcm.New(id, channels)
	} else {
		dec, err = adpcm.New(id, frameSize, channels)
	}
	if err != nil {
		return 0
	}

	return codec.BytesToSamples(dec, size)
}

// PSXLoop scans the PS-ADPCM frames of the first channel for the loop
// start (flag 0x06) and loop end (0x03) markers. block is the interleave,
// or 0 when the channel is contiguous. Positions are in samples.
func PSXLoop(src bytesrc.Source, start, size, block int64, channels int) (*audio.LoopRegion, bool) {
	if block <= 0 {
		block = size
		channels = 1
	}

	perBlock := block / 0x10
	if perBlock <= 0 {
		return nil, false
	}

	frames := size / int64(channels) / 0x10
	ls, le := int64(-1), int64(-1)

	for i := range frames {
		off := start + i/perBlock*block*int64(channels) + i%perBlock*0x10
		flag, ok := bytesrc.U8(src, off+1)
		if !ok {
			break
		}

		switch flag {
		case 0x06:
			if ls < 0 {
				ls = i * 28
			}
		case 0x03:
			if ls >= 0 {
				le = (i + 1) * 28
			}
		}
		if le >= 0 {
			break
		}
	}

	if ls < 0 || le <= ls {
		return nil, false
	}

	return &audio.LoopRegion{Start: ls, End: le}, true
}
