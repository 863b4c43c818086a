// SPDX-License-Identifier: EPL-2.0

package container

import (
	"encoding/binary"
	"testing"

	"github.com/ik5/vgmpbx/bytesrc"
)

func chunkLE(id string, body []byte) []byte {
	b := append([]byte(id), binary.LittleEndian.AppendUint32(nil, uint32(len(body)))...)
	b = append(b, body...)
	if len(body)%2 == 1 {
		b = append(b, 0)
	}

	return b
}

func TestRIFF_OddChunkPadding(t *testing.T) {
	t.Parallel()

	data := append(chunkLE("abcd", []byte{1, 2, 3}), chunkLE("data", make([]byte, 8))...)
	src := bytesrc.NewMemory("x.wav", data)

	chunks := RIFF(src, 0, src.Size())
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}

	// sizes come back padded to even
	want := []Chunk{{"abcd", 8, 4}, {"data", 20, 8}}
	for i, c := range chunks {
		if c != want[i] {
			t.Errorf("chunk %d = %+v, want %+v", i, c, want[i])
		}
	}

	if _, err := Find(chunks, "smpl"); err != ErrNoChunk {
		t.Errorf("Find(smpl) error = %v, want ErrNoChunk", err)
	}
}

func TestRIFF_TruncatedChunk(t *testing.T) {
	t.Parallel()

	data := chunkLE("data", make([]byte, 16))[:12]
	chunks := RIFF(bytesrc.NewMemory("x.wav", data), 0, 12)

	if len(chunks) != 1 || chunks[0].Size != 4 {
		t.Fatalf("chunks = %+v, want one data chunk of 4 bytes", chunks)
	}
}

func TestIFF(t *testing.T) {
	t.Parallel()

	data := []byte("COMM\x00\x00\x00\x03abc\x00SSND\x00\x00\x00\x02xy")
	chunks := IFF(bytesrc.NewMemory("x.aif", data), 0, int64(len(data)))

	if len(chunks) != 2 || chunks[1].ID != "SSND" || chunks[1].Offset != 20 || chunks[1].Size != 2 {
		t.Fatalf("chunks = %+v", chunks)
	}
}

func TestInterleaved(t *testing.T) {
	t.Parallel()

	src := bytesrc.NewMemory("x", make([]byte, 0x100))
	cfgs := Interleaved(src, 0x30, 0x10, 3)

	for c, cfg := range cfgs {
		if want := int64(0x30 + c*0x10); cfg.StartOffset != want {
			t.Errorf("channel %d starts at 0x%x, want 0x%x", c, cfg.StartOffset, want)
		}
	}

	if got := LastBlock(0x50, 0x10, 2); got != 0x08 {
		t.Errorf("LastBlock = 0x%x, want 0x8", got)
	}
}

func TestShiftJIS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte("title\x00junk"), "title"},
		{[]byte{0x82, 0xa0, 0x82, 0xa2}, "あい"},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := ShiftJIS(tt.in); got != tt.want {
			t.Errorf("ShiftJIS(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPSXLoop(t *testing.T) {
	t.Parallel()

	// stereo, 0x20 interleave: channel 0 frames sit at 0x00, 0x10, 0x40, 0x50
	data := make([]byte, 0x80)
	data[0x10+1] = 0x06
	data[0x50+1] = 0x03
	data[0x60+1] = 0x06 // channel 1 is ignored

	loop, ok := PSXLoop(bytesrc.NewMemory("x", data), 0, 0x80, 0x20, 2)
	if !ok || loop.Start != 28 || loop.End != 4*28 {
		t.Fatalf("loop = %+v, %v; want 28..112", loop, ok)
	}

	if _, ok := PSXLoop(bytesrc.NewMemory("x", make([]byte, 0x40)), 0, 0x40, 0, 1); ok {
		t.Error("found a loop in silence")
	}
}
