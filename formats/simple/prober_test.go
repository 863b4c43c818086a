// SPDX-License-Identifier: EPL-2.0

package simple

import (
	"errors"
	"testing"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/layout"
)

func lookup(t *testing.T, name string) Format {
	t.Helper()

	for _, f := range Formats {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("no format %q", name)

	return Format{}
}

type values struct {
	channels, rate, start, size, samples int64
	loopStart, loopEnd, interleave       int64
	frame, scale                         int64
}

// build writes the declared fields of f into a header followed by data
// bytes of silence.
func build(f Format, v values, data int) []byte {
	start := v.start
	if f.Start.Width == 0 {
		start = f.Start.Value
	}
	b := make([]byte, int(start)+data)
	copy(b, f.Magic)

	put := func(fl Field, x int64) {
		switch fl.Width {
		case 1:
			b[fl.Off] = byte(x)
		case 2:
			f.Order.PutUint16(b[fl.Off:], uint16(x))
		case 4:
			f.Order.PutUint32(b[fl.Off:], uint32(x))
		}
	}

	put(f.Channels, v.channels)
	put(f.SampleRate, v.rate)
	put(f.Start, v.start)
	put(f.DataSize, v.size)
	put(f.NumSamples, v.samples)
	put(f.LoopStart, v.loopStart)
	put(f.LoopEnd, v.loopEnd)
	put(f.Interleave, v.interleave)
	put(f.FrameSize, v.frame)
	put(f.Scale, v.scale)
	for _, req := range f.Require {
		put(req, req.Value)
	}

	return b
}

func TestProbers_Unique(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, p := range Probers() {
		f := p.(Prober).Format
		if seen[f.Name] || seen[f.Magic] {
			t.Errorf("%s (%q) is listed twice", f.Name, f.Magic)
		}
		seen[f.Name], seen[f.Magic] = true, true
	}
	if len(seen) != 2*len(Formats) {
		t.Errorf("%d probers for %d formats", len(seen)/2, len(Formats))
	}
}

func TestProbe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format   string
		v        values
		data     int
		channels int
		samples  int64
		kind     audio.LayoutKind
		loop     *audio.LoopRegion
	}{
		{
			format: "Konami KCES",
			v:      values{channels: 2, rate: 44100, start: 0x20, size: 0x400, interleave: 0x100, loopStart: 28, loopEnd: 896},
			data:   0x400, channels: 2, samples: 896, kind: audio.LayoutInterleave,
			loop: &audio.LoopRegion{Start: 28, End: 896},
		},
		{
			format: "Tantalus",
			v:      values{channels: 1, rate: 22050, samples: 100},
			data:   0x80, channels: 1, samples: 100, kind: audio.LayoutFlat,
		},
		{
			// the declared size is larger than the file
			format: "Ocean DSA",
			v:      values{channels: 2, rate: 22050, size: 0x1000},
			data:   0x40, channels: 2, samples: 4 * 14, kind: audio.LayoutFlat,
		},
		{
			format: "Konami XMD",
			v:      values{channels: 1, rate: 22050, frame: 0x15, samples: 64, loopStart: 10, loopEnd: 100},
			data:   0x40, channels: 1, samples: 64, kind: audio.LayoutFlat,
		},
		{
			format: "Circus XPCM",
			v:      values{channels: 2, rate: 44100, size: 0x100, scale: 6},
			data:   0x100, channels: 2, samples: 0x80, kind: audio.LayoutFlat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			f := lookup(t, tt.format)
			bp, err := Prober{Format: f}.Probe(bytesrc.NewMemory("a.bin", build(f, tt.v, tt.data)), audio.ProbeOptions{})
			if err != nil {
				t.Fatalf("Probe: %v", err)
			}

			if bp.Channels != tt.channels || bp.NumSamples != tt.samples || bp.Layout.Kind != tt.kind {
				t.Errorf("got %d ch, %d samples, %s", bp.Channels, bp.NumSamples, bp.Layout)
			}
			if (bp.Loop == nil) != (tt.loop == nil) || (bp.Loop != nil && *bp.Loop != *tt.loop) {
				t.Errorf("loop = %+v, want %+v", bp.Loop, tt.loop)
			}
			if bp.ChannelCfgs[0].PredScale != int16(tt.v.scale) {
				t.Errorf("scale = %d, want %d", bp.ChannelCfgs[0].PredScale, tt.v.scale)
			}

			s, err := layout.New(bp)
			if err != nil {
				t.Fatalf("layout.New: %v", err)
			}
			out := make([]int16, int(bp.NumSamples)*bp.Channels)
			s.Render(out, int(bp.NumSamples))
		})
	}
}

func TestProbe_Errors(t *testing.T) {
	t.Parallel()

	dsa := lookup(t, "Ocean DSA")
	xpcm := lookup(t, "Circus XPCM")
	xmd := lookup(t, "Konami XMD")

	wrongCodec := build(xpcm, values{channels: 1, rate: 44100, size: 0x10}, 0x10)
	wrongCodec[0x08] = 1

	tests := []struct {
		name string
		f    Format
		data []byte
		want error
	}{
		{"magic", dsa, []byte("DSA\x1b"), audio.ErrReject},
		{"require", xpcm, wrongCodec, audio.ErrReject},
		{"short", dsa, []byte("DSA\x1a\x01\x00"), audio.ErrCorrupt},
		{"channels", dsa, build(dsa, values{rate: 22050, size: 0x10}, 0x10), audio.ErrCorrupt},
		{"rate", dsa, build(dsa, values{channels: 1, size: 0x10}, 0x10), audio.ErrCorrupt},
		{"no data", dsa, build(dsa, values{channels: 1, rate: 22050}, 0), audio.ErrCorrupt},
		{"frame size", xmd, build(xmd, values{channels: 1, rate: 22050, frame: 2, samples: 10}, 0x10), audio.ErrCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Prober{Format: tt.f}.Probe(bytesrc.NewMemory("a.bin", tt.data), audio.ProbeOptions{})
			if !errors.Is(err, tt.want) {
				t.Errorf("Probe error = %v, want %v", err, tt.want)
			}
		})
	}
}
