// SPDX-License-Identifier: EPL-2.0

package bytesrc

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestMemory_ReadAtShort(t *testing.T) {
	t.Parallel()

	m := NewMemory("a.bin", []byte{1, 2, 3, 4})

	buf := make([]byte, 8)
	n, err := m.ReadAt(buf, 2)
	if n != 2 {
		t.Errorf("ReadAt() n = %d, want 2", n)
	}
	if !errors.Is(err, io.EOF) {
		t.Errorf("ReadAt() err = %v, want io.EOF", err)
	}

	n, err = m.ReadAt(buf, 10)
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadAt() past end = (%d, %v), want (0, EOF)", n, err)
	}

	if _, err := m.ReadAt(buf, -1); !errors.Is(err, ErrNegativeOffset) {
		t.Errorf("ReadAt(-1) err = %v, want ErrNegativeOffset", err)
	}
}

func TestTypedReads(t *testing.T) {
	t.Parallel()

	m := NewMemory("x", []byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0})

	tests := []struct {
		name string
		got  func() (uint64, bool)
		want uint64
		ok   bool
	}{
		{"u8", func() (uint64, bool) { v, ok := U8(m, 1); return uint64(v), ok }, 0x34, true},
		{"u16le", func() (uint64, bool) { v, ok := U16LE(m, 0); return uint64(v), ok }, 0x3412, true},
		{"u16be", func() (uint64, bool) { v, ok := U16BE(m, 0); return uint64(v), ok }, 0x1234, true},
		{"u32le", func() (uint64, bool) { v, ok := U32LE(m, 0); return uint64(v), ok }, 0x78563412, true},
		{"u32be", func() (uint64, bool) { v, ok := U32BE(m, 4); return uint64(v), ok }, 0x9abcdef0, true},
		{"u64be", func() (uint64, bool) { return U64BE(m, 0) }, 0x123456789abcdef0, true},
		{"u32 short", func() (uint64, bool) { v, ok := U32LE(m, 6); return uint64(v), ok }, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := tt.got()
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("value = %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestReader_StickyShort(t *testing.T) {
	t.Parallel()

	m := NewMemory("x", []byte("RIFF\x10\x00\x00\x00"))
	r := NewReader(m, binary.LittleEndian)

	if !r.ID(0, "RIFF") {
		t.Fatal("ID(RIFF) = false")
	}
	if got := r.U32(4); got != 0x10 {
		t.Errorf("U32(4) = %#x, want 0x10", got)
	}
	if r.Short() {
		t.Fatal("Short() after in-range reads")
	}

	_ = r.U32(6)
	_ = r.U8(0)
	if !r.Short() {
		t.Fatal("Short() = false after reading past the end")
	}
	if !errors.Is(r.Err(), ErrShortRead) {
		t.Errorf("Err() = %v, want ErrShortRead", r.Err())
	}
}

func TestSubView_Clamps(t *testing.T) {
	t.Parallel()

	m := NewMemory("bank.bin", []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})

	v := SubView(m, 4, 100)
	defer v.Close()

	if v.Size() != 6 {
		t.Fatalf("Size() = %d, want 6", v.Size())
	}

	b, ok := ReadFull(v, 0, 3)
	if !ok || b[0] != 4 || b[2] != 6 {
		t.Errorf("ReadFull() = %v, %v", b, ok)
	}

	nested := SubView(v, 2, 2)
	defer nested.Close()

	if x, _ := U8(nested, 1); x != 7 {
		t.Errorf("nested view byte = %d, want 7", x)
	}
	if _, ok := U8(nested, 2); ok {
		t.Error("nested view read past its size")
	}
}

func TestMemory_Companion(t *testing.T) {
	t.Parallel()

	m := NewMemory("music/track.wxh", []byte("hdr"))
	m.AddCompanion("music/track.wxd", []byte("data"))
	m.AddCompanion("music/TRACK_R.DSP", []byte("right"))

	c, ok := m.Companion(".wxd")
	if !ok {
		t.Fatal("Companion(.wxd) not found")
	}
	if c.Size() != 4 {
		t.Errorf("companion size = %d, want 4", c.Size())
	}

	if _, ok := m.Companion("track_r.dsp"); !ok {
		t.Error("case-insensitive companion lookup failed")
	}

	if _, ok := m.Companion(".xyz"); ok {
		t.Error("Companion(.xyz) found a missing file")
	}

	named := WithName(m, "music/other.wxh")
	defer named.Close()

	if _, ok := named.Companion(".wxd"); ok {
		t.Error("renamed view resolved companion against the old name")
	}
}

func TestFile_RetainClose(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.vag")
	if err := os.WriteFile(path, []byte("VAGp0123"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "A.VAS"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	f, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}

	view := SubView(f, 4, 4)
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	// the view keeps the handle alive
	if !IsID(view, 0, "0123") {
		t.Error("view read failed after parent Close")
	}
	if err := view.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := f.ReadAt(make([]byte, 1), 0); !errors.Is(err, ErrClosed) {
		t.Errorf("ReadAt after last Close = %v, want ErrClosed", err)
	}

	g, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	c, ok := g.Companion(".vas")
	if !ok {
		t.Fatal("file companion lookup ignoring case failed")
	}
	c.Close()
}
