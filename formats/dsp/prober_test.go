// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/layout"
)

type params struct {
	samples, rate       uint32
	loop                bool
	loopStart, loopEnd  uint32
	ps                  uint8
	hist1, coef0, coef1 int16
}

// file builds a header and frames; every frame carries only its header
// byte, so the output is the filtered history.
func file(p params) []byte {
	b := make([]byte, HeaderSize)
	be := binary.BigEndian

	frames := (int(p.samples) + 13) / 14
	be.PutUint32(b[0x00:], p.samples)
	be.PutUint32(b[0x04:], uint32(frames*16))
	be.PutUint32(b[0x08:], p.rate)
	if p.loop {
		be.PutUint16(b[0x0c:], 1)
	}
	be.PutUint32(b[0x10:], p.loopStart)
	be.PutUint32(b[0x14:], p.loopEnd)
	be.PutUint16(b[0x1c:], uint16(p.coef0))
	be.PutUint16(b[0x1e:], uint16(p.coef1))
	be.PutUint16(b[0x3e:], uint16(p.ps))
	be.PutUint16(b[0x40:], uint16(p.hist1))

	for range frames {
		f := make([]byte, 8)
		f[0] = p.ps
		b = append(b, f...)
	}

	return b
}

func TestNibblesToSamples(t *testing.T) {
	t.Parallel()

	tests := []struct{ nibbles, want int64 }{
		{0, 0},
		{2, 0},
		{16, 14},
		{18, 14},
		{19, 15},
		{0x1f, 14 + 13},
	}

	for _, tt := range tests {
		if got := NibblesToSamples(tt.nibbles); got != tt.want {
			t.Errorf("NibblesToSamples(%d) = %d, want %d", tt.nibbles, got, tt.want)
		}
	}
}

func TestProbe_Mono(t *testing.T) {
	t.Parallel()

	src := bytesrc.NewMemory("se.dsp", file(params{samples: 28, rate: 32000, loop: true, loopStart: 2, loopEnd: 0x1f}))

	bp, err := Prober{}.Probe(src, audio.ProbeOptions{})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	if bp.Channels != 1 || bp.NumSamples != 28 || bp.SampleRate != 32000 {
		t.Errorf("got %d ch, %d samples, %d Hz", bp.Channels, bp.NumSamples, bp.SampleRate)
	}
	if bp.Loop == nil || *bp.Loop != (audio.LoopRegion{Start: 0, End: 28}) {
		t.Errorf("loop = %+v, want 0..28", bp.Loop)
	}
}

func TestProbe_SplitPair(t *testing.T) {
	t.Parallel()

	// coefficient 1.0 on hist1 holds the initial history
	left := file(params{samples: 14, rate: 48000, hist1: 1000, coef0: 2048})
	right := file(params{samples: 14, rate: 48000, hist1: -1000, coef0: 2048})

	tests := []struct{ primary, other string }{
		{"bgm(L).dsp", "bgm(R).dsp"},
		{"bgm_R.dsp", "bgm_L.dsp"},
		{"bgmL.dsp", "bgmR.dsp"},
		{"bgm_l.DSP", "bgm_r.DSP"},
	}

	for _, tt := range tests {
		pd, od := left, right
		if tt.primary[len(tt.primary)-6] == 'R' || tt.primary[len(tt.primary)-5] == 'R' {
			pd, od = right, left
		}
		src := bytesrc.NewMemory(tt.primary, pd).AddCompanion(tt.other, od)

		bp, err := Prober{}.Probe(src, audio.ProbeOptions{})
		if err != nil {
			t.Fatalf("%s: Probe: %v", tt.primary, err)
		}
		if bp.Channels != 2 {
			t.Fatalf("%s: %d channels, want 2", tt.primary, bp.Channels)
		}

		s, err := layout.New(bp)
		if err != nil {
			t.Fatalf("%s: layout.New: %v", tt.primary, err)
		}

		out := make([]int16, 2*14)
		s.Render(out, 14)
		if out[0] != 1000 || out[1] != -1000 {
			t.Errorf("%s: first frame = %d/%d, want 1000/-1000", tt.primary, out[0], out[1])
		}
	}
}

func TestProbe_Errors(t *testing.T) {
	t.Parallel()

	good := file(params{samples: 14, rate: 32000})
	badPS := file(params{samples: 14, rate: 32000, ps: 0x12})
	badPS[HeaderSize] = 0x13

	tests := []struct {
		name string
		src  bytesrc.Source
		want error
	}{
		{"short", bytesrc.NewMemory("a.dsp", good[:0x20]), audio.ErrReject},
		{"frame header", bytesrc.NewMemory("a.dsp", badPS), audio.ErrReject},
		{"rate", bytesrc.NewMemory("a.dsp", file(params{samples: 14})), audio.ErrReject},
		{"length", bytesrc.NewMemory("a.dsp", file(params{samples: 0, rate: 32000})), audio.ErrReject},
		{"pair mismatch", bytesrc.NewMemory("a_L.dsp", good).AddCompanion("a_R.dsp", file(params{samples: 28, rate: 32000})), audio.ErrCorrupt},
	}

	for _, tt := range tests {
		if _, err := (Prober{}).Probe(tt.src, audio.ProbeOptions{}); !errors.Is(err, tt.want) {
			t.Errorf("%s: Probe error = %v, want %v", tt.name, err, tt.want)
		}
	}
}
