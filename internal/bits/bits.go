// SPDX-License-Identifier: EPL-2.0

// Package bits implements the two bit-slicing contracts used by the codecs:
// big-endian MSB-first slices up to 25 bits and LSB-packed slices up to 32
// bits. Bytes past the end of the buffer read as zero.
package bits

import "encoding/binary"

// MaxBE is the widest slice ReadBE can serve from one 32-bit load.
const MaxBE = 25

func load(buf []byte, pos int, n int) []byte {
	var tmp [8]byte
	if pos >= 0 && pos+n <= len(buf) {
		return buf[pos : pos+n]
	}

	for i := range n {
		if p := pos + i; p >= 0 && p < len(buf) {
			tmp[i] = buf[p]
		}
	}

	return tmp[:n]
}

// ReadBE returns width bits starting at bit offset off, where bit 0 is the
// most significant bit of buf[0]. It byte-aligns the offset, loads 32
// big-endian bits, shifts left by the remainder and right by 32-width.
func ReadBE(buf []byte, off uint64, width uint) uint32 {
	if width == 0 {
		return 0
	}
	if width > MaxBE {
		panic("bits: ReadBE width above 25")
	}

	v := binary.BigEndian.Uint32(load(buf, int(off/8), 4))
	v <<= off % 8
	v >>= 32 - width

	return v & (1<<width - 1)
}

// ReadLSB returns width bits starting at bit off of a little-endian packed
// stream, where bit 0 is the least significant bit of buf[0].
func ReadLSB(buf []byte, off uint64, width uint) uint32 {
	if width == 0 {
		return 0
	}
	if width > 32 {
		panic("bits: ReadLSB width above 32")
	}

	v := binary.LittleEndian.Uint64(load(buf, int(off/8), 8))
	v >>= off % 8

	return uint32(v & (1<<width - 1))
}

// Reader walks a buffer MSB-first.
type Reader struct {
	buf []byte
	pos uint64
}

func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// Read consumes width bits (at most 32).
func (r *Reader) Read(width uint) uint32 {
	var v uint32
	if width > MaxBE {
		hi := width - 16
		v = ReadBE(r.buf, r.pos, hi) << 16
		v |= ReadBE(r.buf, r.pos+uint64(hi), 16)
	} else {
		v = ReadBE(r.buf, r.pos, width)
	}
	r.pos += uint64(width)

	return v
}

func (r *Reader) Skip(width uint)    { r.pos += uint64(width) }
func (r *Reader) Pos() uint64        { return r.pos }
func (r *Reader) Seek(pos uint64)    { r.pos = pos }
func (r *Reader) Len() uint64        { return uint64(len(r.buf)) * 8 }
func (r *Reader) Overrun() bool      { return r.pos > r.Len() }
func (r *Reader) Reset(buf []byte)   { r.buf, r.pos = buf, 0 }
func (r *Reader) Peek(w uint) uint32 { return ReadBE(r.buf, r.pos, w) }

// LSBReader walks a buffer least significant bit first.
type LSBReader struct {
	buf []byte
	pos uint64
}

func NewLSBReader(buf []byte) *LSBReader { return &LSBReader{buf: buf} }

func (r *LSBReader) Read(width uint) uint32 {
	v := ReadLSB(r.buf, r.pos, width)
	r.pos += uint64(width)

	return v
}

// ReadSigned reads a sign-magnitude value: the top bit of the field is the
// sign and the remaining bits the magnitude.
func (r *LSBReader) ReadSigned(width uint) int32 {
	v := r.Read(width)
	if width < 2 {
		return int32(v)
	}

	mag := int32(v & (1<<(width-1) - 1))
	if v&(1<<(width-1)) != 0 {
		return -mag
	}

	return mag
}

func (r *LSBReader) Peek(width uint) uint32 { return ReadLSB(r.buf, r.pos, width) }
func (r *LSBReader) Skip(width uint)        { r.pos += uint64(width) }
func (r *LSBReader) Pos() uint64            { return r.pos }
func (r *LSBReader) Seek(pos uint64)        { r.pos = pos }
func (r *LSBReader) Overrun() bool          { return r.pos > uint64(len(r.buf))*8 }
