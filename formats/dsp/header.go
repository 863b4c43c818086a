// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"encoding/binary"
	"fmt"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
)

// HeaderSize is the size of the standard header in front of the frames.
const HeaderSize = 0x60

// Header is the standard Nintendo DSP header.
type Header struct {
	NumSamples int64
	NumNibbles int64
	SampleRate int
	Looping    bool
	Format     uint16
	LoopStart  int64
	LoopEnd    int64
	Coefs      [16]int16
	PredScale  int16
	Hist1      int16
	Hist2      int16
}

// ReadHeader reads the header at off.
func ReadHeader(src bytesrc.Source, off int64) (Header, error) {
	r := bytesrc.NewReader(src, binary.BigEndian)

	h := Header{
		NumSamples: int64(r.U32(off + 0x00)),
		NumNibbles: int64(r.U32(off + 0x04)),
		SampleRate: int(r.U32(off + 0x08)),
		Looping:    r.U16(off+0x0c) != 0,
		Format:     r.U16(off + 0x0e),
		LoopStart:  int64(r.U32(off + 0x10)),
		LoopEnd:    int64(r.U32(off + 0x14)),
		PredScale:  r.S16(off + 0x3e),
		Hist1:      r.S16(off + 0x40),
		Hist2:      r.S16(off + 0x42),
	}
	for i := range h.Coefs {
		h.Coefs[i] = r.S16(off + 0x1c + int64(i)*2)
	}

	return h, r.Err()
}

// NibblesToSamples converts a nibble address to a sample count: every
// 8-byte frame has a 2-nibble header and 14 sample nibbles.
func NibblesToSamples(nibbles int64) int64 {
	frames := nibbles / 16
	rem := nibbles % 16
	if rem > 2 {
		return frames*14 + rem - 2
	}

	return frames * 14
}

// check validates the header against the first frame at data.
func (h Header) check(src bytesrc.Source, data int64) error {
	switch {
	case h.Format != 0:
		return fmt.Errorf("format %d", h.Format)
	case h.SampleRate <= 0 || h.SampleRate > 192000:
		return fmt.Errorf("sample rate %d", h.SampleRate)
	case h.NumSamples == 0 || h.NumSamples > NibblesToSamples(h.NumNibbles):
		return fmt.Errorf("%d samples in %d nibbles", h.NumSamples, h.NumNibbles)
	}

	ps, ok := bytesrc.U8(src, data)
	if !ok || int16(ps) != h.PredScale {
		return fmt.Errorf("first frame header 0x%02x, expected 0x%02x", ps, h.PredScale)
	}

	return nil
}

// loop is the sample loop region, or nil.
func (h Header) loop() *audio.LoopRegion {
	if !h.Looping {
		return nil
	}

	start := NibblesToSamples(h.LoopStart)
	end := NibblesToSamples(h.LoopEnd) + 1
	if start >= end || end > h.NumSamples {
		return nil
	}

	return &audio.LoopRegion{Start: start, End: end}
}

func (h Header) channelCfg(src bytesrc.Source, data int64) audio.ChannelCfg {
	return audio.ChannelCfg{
		Source:      src,
		StartOffset: data,
		Coefs:       h.Coefs,
		PredScale:   h.PredScale,
		Hist1:       h.Hist1,
		Hist2:       h.Hist2,
	}
}
