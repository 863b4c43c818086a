// SPDX-License-Identifier: EPL-2.0

package bytesrc

import (
	"encoding/binary"
	"fmt"
)

// ReadFull reads n bytes at off. ok is false when the source cannot
// satisfy the whole width.
func ReadFull(src Source, off int64, n int) ([]byte, bool) {
	buf := make([]byte, n)
	got, _ := src.ReadAt(buf, off)

	return buf, got == n
}

func U8(src Source, off int64) (uint8, bool) {
	var b [1]byte
	n, _ := src.ReadAt(b[:], off)

	return b[0], n == 1
}

func U16LE(src Source, off int64) (uint16, bool) { return read16(src, off, binary.LittleEndian) }
func U16BE(src Source, off int64) (uint16, bool) { return read16(src, off, binary.BigEndian) }
func U32LE(src Source, off int64) (uint32, bool) { return read32(src, off, binary.LittleEndian) }
func U32BE(src Source, off int64) (uint32, bool) { return read32(src, off, binary.BigEndian) }
func U64LE(src Source, off int64) (uint64, bool) { return read64(src, off, binary.LittleEndian) }
func U64BE(src Source, off int64) (uint64, bool) { return read64(src, off, binary.BigEndian) }

// IsID reports whether the bytes at off equal tag.
func IsID(src Source, off int64, tag string) bool {
	b, ok := ReadFull(src, off, len(tag))
	return ok && string(b) == tag
}

func read16(src Source, off int64, order binary.ByteOrder) (uint16, bool) {
	var b [2]byte
	n, _ := src.ReadAt(b[:], off)

	return order.Uint16(b[:]), n == 2
}

func read32(src Source, off int64, order binary.ByteOrder) (uint32, bool) {
	var b [4]byte
	n, _ := src.ReadAt(b[:], off)

	return order.Uint32(b[:]), n == 4
}

func read64(src Source, off int64, order binary.ByteOrder) (uint64, bool) {
	var b [8]byte
	n, _ := src.ReadAt(b[:], off)

	return order.Uint64(b[:]), n == 8
}

// Reader performs offset-addressed typed reads and remembers the first one
// that came up short, so a header can be read field by field and checked
// once. Order applies to the width-only methods (U16, U32, ...).
type Reader struct {
	Src   Source
	Order binary.ByteOrder

	shortAt int64
	short   bool
}

func NewReader(src Source, order binary.ByteOrder) *Reader {
	if order == nil {
		order = binary.LittleEndian
	}

	return &Reader{Src: src, Order: order}
}

func (r *Reader) fail(off int64) {
	if !r.short {
		r.short = true
		r.shortAt = off
	}
}

// Short reports whether any read so far was past the end of the source.
func (r *Reader) Short() bool { return r.short }

// Err returns ErrShortRead (wrapped with the offset) after a short read.
func (r *Reader) Err() error {
	if !r.short {
		return nil
	}

	return fmt.Errorf("%w at 0x%x", ErrShortRead, r.shortAt)
}

func (r *Reader) U8(off int64) uint8 {
	v, ok := U8(r.Src, off)
	if !ok {
		r.fail(off)
	}

	return v
}

func (r *Reader) S8(off int64) int8 { return int8(r.U8(off)) }

func (r *Reader) U16(off int64) uint16 { return r.u16(off, r.Order) }
func (r *Reader) U32(off int64) uint32 { return r.u32(off, r.Order) }
func (r *Reader) U64(off int64) uint64 { return r.u64(off, r.Order) }
func (r *Reader) S16(off int64) int16  { return int16(r.U16(off)) }
func (r *Reader) S32(off int64) int32  { return int32(r.U32(off)) }

func (r *Reader) U16LE(off int64) uint16 { return r.u16(off, binary.LittleEndian) }
func (r *Reader) U16BE(off int64) uint16 { return r.u16(off, binary.BigEndian) }
func (r *Reader) U32LE(off int64) uint32 { return r.u32(off, binary.LittleEndian) }
func (r *Reader) U32BE(off int64) uint32 { return r.u32(off, binary.BigEndian) }
func (r *Reader) U64LE(off int64) uint64 { return r.u64(off, binary.LittleEndian) }
func (r *Reader) U64BE(off int64) uint64 { return r.u64(off, binary.BigEndian) }
func (r *Reader) S16LE(off int64) int16  { return int16(r.U16LE(off)) }
func (r *Reader) S16BE(off int64) int16  { return int16(r.U16BE(off)) }
func (r *Reader) S32LE(off int64) int32  { return int32(r.U32LE(off)) }
func (r *Reader) S32BE(off int64) int32  { return int32(r.U32BE(off)) }

func (r *Reader) u16(off int64, order binary.ByteOrder) uint16 {
	v, ok := read16(r.Src, off, order)
	if !ok {
		r.fail(off)
	}

	return v
}

func (r *Reader) u32(off int64, order binary.ByteOrder) uint32 {
	v, ok := read32(r.Src, off, order)
	if !ok {
		r.fail(off)
	}

	return v
}

func (r *Reader) u64(off int64, order binary.ByteOrder) uint64 {
	v, ok := read64(r.Src, off, order)
	if !ok {
		r.fail(off)
	}

	return v
}

// Bytes reads n bytes at off; the missing tail of a short read is zero.
func (r *Reader) Bytes(off int64, n int) []byte {
	b, ok := ReadFull(r.Src, off, n)
	if !ok {
		r.fail(off)
	}

	return b
}

// ID reports whether tag is at off. A short read is not recorded: a missing
// magic is a rejection, not a truncation.
func (r *Reader) ID(off int64, tag string) bool {
	return IsID(r.Src, off, tag)
}

// CString reads a NUL-terminated string of at most max bytes.
func (r *Reader) CString(off int64, max int) string {
	b, _ := ReadFull(r.Src, off, max)
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}

	return string(b)
}
