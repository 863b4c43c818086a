// SPDX-License-Identifier: EPL-2.0

package eamt

import (
	"math/rand/v2"
	"testing"

	"github.com/ik5/vgmpbx/bytesrc"
)

type lsbWriter struct {
	buf []byte
	pos int
}

func (w *lsbWriter) at(pos int) { w.pos = pos }

func (w *lsbWriter) write(v uint32, width int) {
	for i := range width {
		for w.pos/8 >= len(w.buf) {
			w.buf = append(w.buf, 0)
		}
		if v>>i&1 != 0 {
			w.buf[w.pos/8] |= 1 << (w.pos % 8)
		}
		w.pos++
	}
}

func newDecoder(t *testing.T, data []byte, cfg Config) *Decoder {
	t.Helper()

	d, err := New(bytesrc.NewMemory("t.utk", data), 0, int64(len(data)), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return d
}

func TestCodebooks_PrefixFree(t *testing.T) {
	t.Parallel()

	for m, cmds := range modelCommands {
		seen := map[uint8]bool{}
		for peek, cmd := range codebooks[m] {
			seen[cmd] = true

			// every peek that shares the low bits of a code maps to the
			// same command
			size := commands[cmd].size
			low := peek & (1<<size - 1)
			if codebooks[m][low] != cmd {
				t.Fatalf("model %d: peek %#x -> %d, low bits %#x -> %d", m, peek, cmd, low, codebooks[m][low])
			}
		}

		for _, c := range cmds {
			if !seen[uint8(c)] {
				t.Errorf("model %d: command %d unreachable", m, c)
			}
		}
		if len(seen) != len(cmds) {
			t.Errorf("model %d: %d commands reachable, want %d", m, len(seen), len(cmds))
		}
	}
}

func TestDecode_ZeroStreamIsSilent(t *testing.T) {
	t.Parallel()

	d := newDecoder(t, make([]byte, 1024), Config{NumSamples: 2 * FrameSamples})

	out := make([]int16, 2*FrameSamples)
	if n, _ := d.Decode(out, len(out)); n != len(out) {
		t.Fatalf("Decode() = %d, want %d", n, len(out))
	}
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d = %d, want 0", i, v)
		}
	}
}

// An all-zero first frame is 15 header bits, 64 bits of reflection
// coefficients and four subframes of 18 parameter bits plus 108 two-bit
// zero pulses.
const zeroFrameBits = 15 + 64 + 4*(18+108*2)

func TestDecode_PCMPatch(t *testing.T) {
	t.Parallel()

	w := &lsbWriter{}
	w.at(zeroFrameBits)
	w.write(1, 1)
	w.write(2, 8)
	w.write(10, 9)
	w.write(1000, 16)
	w.write(uint32(0xffff&-1000), 16)
	w.write(0, 64)

	d := newDecoder(t, w.buf, Config{NumSamples: FrameSamples, PCMPatches: true})

	out := make([]int16, FrameSamples)
	d.Decode(out, FrameSamples)

	for i, v := range out {
		want := int16(0)
		switch i {
		case 10:
			want = 1000
		case 11:
			want = -1000
		}
		if v != want {
			t.Fatalf("sample %d = %d, want %d", i, v, want)
		}
	}
}

func TestDecode_ChunkedAndReset(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(11, 12))
	data := make([]byte, 2048)
	for i := range data {
		data[i] = byte(rng.IntN(256))
	}
	cfg := Config{NumSamples: 3 * FrameSamples}

	whole := newDecoder(t, data, cfg)
	want := make([]int16, 3*FrameSamples)
	whole.Decode(want, len(want))

	split := newDecoder(t, data, cfg)
	got := make([]int16, 0, len(want))
	for _, n := range []int{1, 100, 431, 7, 500} {
		buf := make([]int16, n)
		m, _ := split.Decode(buf, n)
		got = append(got, buf[:m]...)
	}
	rest := make([]int16, len(want)-len(got))
	m, _ := split.Decode(rest, len(rest))
	got = append(got, rest[:m]...)

	if len(got) != len(want) {
		t.Fatalf("chunked decode returned %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}

	whole.Reset()
	again := make([]int16, len(want))
	whole.Decode(again, len(again))
	for i := range want {
		if again[i] != want[i] {
			t.Fatalf("sample %d differs after Reset", i)
		}
	}
}

func TestRcToLPC_Zero(t *testing.T) {
	t.Parallel()

	var rc [order]float32
	for i, v := range rcToLPC(&rc) {
		if v != 0 {
			t.Errorf("lpc[%d] = %f, want 0", i, v)
		}
	}
}

func TestRcTable_KnownValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		idx  int
		want float32
	}{
		{0, 0},
		{1, -0.99677598},
		{8, -0.95163703},
		{9, -0.93075401},
		{19, -0.67063499},
		{20, -0.61904800},
		{32, 0},
		{63, 0.99677598},
	}
	for _, tt := range tests {
		if rcTable[tt.idx] != tt.want {
			t.Errorf("rcTable[%d] = %v, want %v", tt.idx, rcTable[tt.idx], tt.want)
		}
	}

	for k := 1; k < 32; k++ {
		if rcTable[32+k] != -rcTable[32-k] {
			t.Errorf("rcTable[%d] = %v, want %v", 32+k, rcTable[32+k], -rcTable[32-k])
		}
	}
}
