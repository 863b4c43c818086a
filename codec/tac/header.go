// SPDX-License-Identifier: EPL-2.0

package tac

import (
	"encoding/binary"
	"fmt"

	"github.com/ik5/vgmpbx/bytesrc"
)

const (
	// BlockSize is the unit the stream is stored and streamed in.
	BlockSize = 0x4E000
	// FrameSamples is the length of every frame per channel.
	FrameSamples = 1024
	// Channels is fixed by the format.
	Channels = 2
	// HeaderSize is the size of the stream header in the first block.
	HeaderSize = 0x20

	bands      = 28
	maxTotal   = 16383
	huff1Size  = 257
	huff2Size  = 32
	huff3Size  = 258
	tablesSize = (huff1Size + Channels*huff2Size + huff3Size) * 2
)

// Header is the start of the first block.
type Header struct {
	HuffmanOffset uint32
	LoopFrame     uint16
	LoopDiscard   uint16
	FrameCount    uint16
	FrameLast     uint16
	LoopOffset    uint32
	FileSize      uint32
	JointStereo   uint32
}

// ParseHeader reads the header at the start of src.
func ParseHeader(src bytesrc.Source) (Header, error) {
	r := bytesrc.NewReader(src, binary.LittleEndian)

	h := Header{
		HuffmanOffset: r.U32(0x00),
		LoopFrame:     r.U16(0x08),
		LoopDiscard:   r.U16(0x0a),
		FrameCount:    r.U16(0x0c),
		FrameLast:     r.U16(0x0e),
		LoopOffset:    r.U32(0x10),
		FileSize:      r.U32(0x14),
		JointStereo:   r.U32(0x18),
	}

	return h, r.Err()
}

// Validate checks the header against the size of the stream. The last
// block may be missing or cut short.
func (h Header) Validate(size int64) error {
	switch {
	case h.HuffmanOffset < HeaderSize || h.HuffmanOffset > BlockSize:
		return fmt.Errorf("%w: huffman offset 0x%x", ErrBadHeader, h.HuffmanOffset)
	case h.FrameCount == 0:
		return fmt.Errorf("%w: no frames", ErrBadHeader)
	case h.FrameLast > FrameSamples:
		return fmt.Errorf("%w: last frame has %d samples", ErrBadHeader, h.FrameLast+1)
	case h.LoopFrame > h.FrameCount:
		return fmt.Errorf("%w: loop frame %d of %d", ErrBadHeader, h.LoopFrame, h.FrameCount)
	case h.JointStereo > 1:
		return fmt.Errorf("%w: joint stereo %d", ErrBadHeader, h.JointStereo)
	case h.FileSize == 0 || h.FileSize%BlockSize != 0:
		return fmt.Errorf("%w: file size 0x%x", ErrBadHeader, h.FileSize)
	case size > int64(h.FileSize) || size < int64(h.FileSize)-BlockSize:
		return fmt.Errorf("%w: stream is 0x%x bytes, header says 0x%x", ErrBadHeader, size, h.FileSize)
	}

	return nil
}

// NumSamples is the stream length per channel.
func (h Header) NumSamples() int64 {
	return (int64(h.FrameCount)-1)*FrameSamples + int64(h.FrameLast) + 1
}

// LoopStart returns the loop start sample when the stream loops.
func (h Header) LoopStart() (int64, bool) {
	if h.LoopFrame == 0 {
		return 0, false
	}

	return (int64(h.LoopFrame)-1)*FrameSamples + int64(h.LoopDiscard), true
}

// Tables are the entropy coder's frequency tables.
type Tables struct {
	// Huff1 is the cumulative frequency of the 256 spectral symbols.
	Huff1 [huff1Size]uint16
	// Huff2 seeds the band heads of each channel.
	Huff2 [Channels][huff2Size]int16
	// Huff3 is the cumulative frequency of the 257 head symbols; the last
	// one escapes to a 16-bit value.
	Huff3 [huff3Size]uint16

	// huff4 maps a cumulative value to its Huff1 symbol.
	huff4 []uint8
}

// ParseTables reads and checks the tables at off.
func ParseTables(src bytesrc.Source, off int64) (*Tables, error) {
	b, ok := bytesrc.ReadFull(src, off, tablesSize)
	if !ok {
		return nil, fmt.Errorf("%w: tables past the end", ErrBadTables)
	}

	t := &Tables{}
	pos := 0
	next := func() uint16 {
		v := binary.LittleEndian.Uint16(b[pos:])
		pos += 2
		return v
	}

	for i := range t.Huff1 {
		t.Huff1[i] = next()
	}
	for c := range t.Huff2 {
		for i := range t.Huff2[c] {
			t.Huff2[c][i] = int16(next())
		}
	}
	for i := range t.Huff3 {
		t.Huff3[i] = next()
	}

	if err := checkCumulative(t.Huff1[:]); err != nil {
		return nil, fmt.Errorf("huff1: %w", err)
	}
	if err := checkCumulative(t.Huff3[:]); err != nil {
		return nil, fmt.Errorf("huff3: %w", err)
	}

	total := int(t.Huff1[huff1Size-1])
	t.huff4 = make([]uint8, total)
	for s := range huff1Size - 1 {
		for v := t.Huff1[s]; v < t.Huff1[s+1]; v++ {
			t.huff4[v] = uint8(s)
		}
	}

	return t, nil
}

func checkCumulative(cum []uint16) error {
	if cum[0] != 0 {
		return fmt.Errorf("%w: first entry %d", ErrBadTables, cum[0])
	}
	for i := 1; i < len(cum); i++ {
		if cum[i] < cum[i-1] {
			return fmt.Errorf("%w: entry %d decreases", ErrBadTables, i)
		}
	}
	if total := cum[len(cum)-1]; total == 0 || total > maxTotal {
		return fmt.Errorf("%w: total %d", ErrBadTables, total)
	}

	return nil
}
