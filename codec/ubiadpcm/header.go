// SPDX-License-Identifier: EPL-2.0

package ubiadpcm

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ik5/vgmpbx/bytesrc"
)

const (
	// HeaderSize is the size of the stream header.
	HeaderSize = 0x30
	// Signature is the first field of every header.
	Signature = 0x08

	stateSize = 0x34
)

var ErrBadHeader = errors.New("ubiadpcm: bad header")

// Header is the stream header: twelve little-endian 32-bit fields.
type Header struct {
	SampleCount          uint32
	SubframeCount        uint32
	CodesPerSubframe     uint32
	CodesPerSubframeLast uint32
	SubframesPerFrame    uint32
	SampleRate           uint32
	BitsPerSample        uint32
	Channels             uint32
}

// ParseHeader reads and checks the header at off.
func ParseHeader(src bytesrc.Source, off int64) (Header, error) {
	r := bytesrc.NewReader(src, binary.LittleEndian)

	if sig := r.U32(off); sig != Signature {
		return Header{}, fmt.Errorf("%w: signature %#x", ErrBadHeader, sig)
	}

	h := Header{
		SampleCount:          r.U32(off + 0x04),
		SubframeCount:        r.U32(off + 0x08),
		CodesPerSubframe:     r.U32(off + 0x0c),
		CodesPerSubframeLast: r.U32(off + 0x10),
		SubframesPerFrame:    r.U32(off + 0x14),
		SampleRate:           r.U32(off + 0x18),
		BitsPerSample:        r.U32(off + 0x20),
		Channels:             r.U32(off + 0x28),
	}
	if err := r.Err(); err != nil {
		return Header{}, err
	}

	switch {
	case h.BitsPerSample != 4 && h.BitsPerSample != 6:
		return h, fmt.Errorf("%w: %d bits per sample", ErrBadHeader, h.BitsPerSample)
	case h.Channels != 1 && h.Channels != 2:
		return h, fmt.Errorf("%w: %d channels", ErrBadHeader, h.Channels)
	case h.SubframesPerFrame != 2:
		return h, fmt.Errorf("%w: %d subframes per frame", ErrBadHeader, h.SubframesPerFrame)
	case h.SubframeCount == 0 || h.CodesPerSubframe == 0 || h.CodesPerSubframe%h.Channels != 0:
		return h, fmt.Errorf("%w: %d subframes of %d codes", ErrBadHeader, h.SubframeCount, h.CodesPerSubframe)
	case h.CodesPerSubframeLast > h.CodesPerSubframe || h.CodesPerSubframeLast%h.Channels != 0:
		return h, fmt.Errorf("%w: last subframe has %d codes", ErrBadHeader, h.CodesPerSubframeLast)
	case h.SampleRate == 0 || h.SampleCount == 0:
		return h, fmt.Errorf("%w: rate %d, %d samples", ErrBadHeader, h.SampleRate, h.SampleCount)
	}

	return h, nil
}

// subframeBytes is the size of a subframe of codes codes, padded to
// 32-bit words.
func (h Header) subframeBytes(codes uint32) int64 {
	return int64((codes*h.BitsPerSample + 31) / 32 * 4)
}

// FrameBytes is the size of a full frame.
func (h Header) FrameBytes() int64 {
	return int64(h.Channels)*stateSize + 2*h.subframeBytes(h.CodesPerSubframe)
}

// SamplesPerFrame is the length of a full frame per channel.
func (h Header) SamplesPerFrame() int64 {
	return 2 * int64(h.CodesPerSubframe/h.Channels)
}

// Frames is the number of frames, counting a trailing half frame.
func (h Header) Frames() int64 { return int64(h.SubframeCount+1) / 2 }

// DataSize is the size of all frames.
func (h Header) DataSize() int64 {
	frames := h.Frames()
	size := (frames - 1) * h.FrameBytes()
	size += int64(h.Channels) * stateSize

	first, last := h.lastFrameCodes()
	size += h.subframeBytes(first)
	if last > 0 {
		size += h.subframeBytes(last)
	}

	return size
}

// lastFrameCodes gives the code counts of the last frame's subframes; the
// second is 0 when the stream ends after one subframe.
func (h Header) lastFrameCodes() (uint32, uint32) {
	last := h.CodesPerSubframeLast
	if last == 0 {
		last = h.CodesPerSubframe
	}

	if h.SubframeCount%2 == 1 {
		return last, 0
	}

	return h.CodesPerSubframe, last
}
