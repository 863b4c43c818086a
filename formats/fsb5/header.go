// SPDX-License-Identifier: EPL-2.0

package fsb5

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/formats/internal/container"
)

// Bank header fields.
const (
	offVersion     = 0x04
	offSubsongs    = 0x08
	offSampleHdrs  = 0x0c
	offNameTable   = 0x10
	offDataSize    = 0x14
	offMode        = 0x18
	baseHeaderSize = 0x3c
	// version 0 banks carry one more reserved word
	baseHeaderSizeV0 = 0x40
)

// Extra chunk types.
const (
	chunkChannels = 1
	chunkRate     = 2
	chunkLoop     = 3
	chunkDSPCoefs = 7
)

// dspCoefsSize is the per-channel DSP coefficient block.
const dspCoefsSize = 0x2e

var rates = [...]int{4000, 8000, 11000, 11025, 16000, 22050, 24000, 32000, 44100, 48000, 96000}

var channelCodes = [...]int{1, 2, 6, 8}

// bank is the fixed part of an FSB5 file.
type bank struct {
	version    uint32
	subsongs   int
	headerSize int64
	sampleHdrs int64
	nameTable  int64
	dataSize   int64
	mode       uint32
}

func (b bank) headers() int64 { return b.headerSize }
func (b bank) names() int64   { return b.headerSize + b.sampleHdrs }
func (b bank) data() int64    { return b.headerSize + b.sampleHdrs + b.nameTable }

func readBank(r *bytesrc.Reader) bank {
	b := bank{
		version:    r.U32(offVersion),
		subsongs:   int(r.U32(offSubsongs)),
		sampleHdrs: int64(r.U32(offSampleHdrs)),
		nameTable:  int64(r.U32(offNameTable)),
		dataSize:   int64(r.U32(offDataSize)),
		mode:       r.U32(offMode),
		headerSize: baseHeaderSize,
	}
	if b.version == 0 {
		b.headerSize = baseHeaderSizeV0
	}

	return b
}

// dspChannel is the decoder start state stored in a DSP coefficient chunk.
type dspChannel struct {
	coefs        [16]int16
	hist1, hist2 int16
}

// sample is one parsed subsong header.
type sample struct {
	rate     int
	channels int
	offset   int64 // relative to the data section
	samples  int64

	loop               bool
	loopStart, loopEnd int64 // end is exclusive

	dsp []dspChannel

	next int64 // offset of the following subsong header
}

// readSample parses the header at off. A bad rate index or channel chunk
// leaves rate or channels at 0 for the caller to reject.
func readSample(r *bytesrc.Reader, off int64) sample {
	raw := r.U64(off)

	s := sample{
		offset:  int64(raw>>7&(1<<27-1)) << 5,
		samples: int64(raw >> 34 & (1<<30 - 1)),
		next:    off + 8,
	}
	if idx := int(raw >> 1 & 0xf); idx < len(rates) {
		s.rate = rates[idx]
	}
	s.channels = channelCodes[raw>>5&0x3]

	more := raw&1 != 0
	for more && !r.Short() {
		h := r.U32(s.next)
		more = h&1 != 0
		size := int64(h >> 1 & 0xffffff)
		body := s.next + 4

		switch h >> 25 {
		case chunkChannels:
			s.channels = int(r.U8(body))
		case chunkRate:
			s.rate = int(r.U32(body))
		case chunkLoop:
			s.loop = true
			s.loopStart = int64(r.U32(body))
			s.loopEnd = int64(r.U32(body+4)) + 1
		case chunkDSPCoefs:
			s.dsp = make([]dspChannel, size/dspCoefsSize)
			for c := range s.dsp {
				b := r.Bytes(body+int64(c)*dspCoefsSize, dspCoefsSize)
				for i := range s.dsp[c].coefs {
					s.dsp[c].coefs[i] = int16(binary.BigEndian.Uint16(b[2*i:]))
				}
				s.dsp[c].hist1 = int16(binary.BigEndian.Uint16(b[0x24:]))
				s.dsp[c].hist2 = int16(binary.BigEndian.Uint16(b[0x26:]))
			}
		}

		s.next = body + size
	}

	return s
}

// name reads the NUL-terminated name of subsong index (0-based). Names
// that are not UTF-8 are read as Shift-JIS.
func name(r *bytesrc.Reader, b bank, index int) string {
	if b.nameTable < int64(4*b.subsongs) {
		return ""
	}

	at := b.names() + int64(r.U32(b.names()+int64(4*index)))
	end := b.names() + b.nameTable
	if at >= end {
		return ""
	}

	raw := container.CString(r.Bytes(at, int(end-at)))
	if utf8.Valid(raw) {
		return string(raw)
	}

	return container.ShiftJIS(raw)
}
