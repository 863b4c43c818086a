// SPDX-License-Identifier: EPL-2.0

package eawve

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/layout"
)

func chunkOf(id string, body []byte) []byte {
	b := []byte(id)
	b = binary.BigEndian.AppendUint32(b, uint32(8+len(body)))

	return append(b, body...)
}

func wve(chunks ...[]byte) []byte {
	b := chunkOf("AABB", make([]byte, 8))
	for _, c := range chunks {
		b = append(b, c...)
	}

	return b
}

func au00(samples uint32, payload int) []byte {
	body := binary.BigEndian.AppendUint32(nil, samples)
	body = append(body, 0, 0, 0, 0)

	return chunkOf("AU00", append(body, make([]byte, payload)...))
}

func TestProbe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     []byte
		channels int
		samples  int64
		codec    audio.CodecID
		start    int64
	}{
		{
			name:     "Ad11 stereo after video",
			data:     wve(chunkOf("vAA0", make([]byte, 0x20)), chunkOf("Ad11", make([]byte, 0x40)), chunkOf("vAA0", nil), chunkOf("Ad11", make([]byte, 0x40))),
			channels: 2, samples: 4 * 28, codec: audio.PsxAdpcm, start: 0x10 + 0x28,
		},
		{
			name:     "Ad10 mono",
			data:     wve(chunkOf("Ad10", make([]byte, 0x30))),
			channels: 1, samples: 3 * 28, codec: audio.PsxAdpcm, start: 0x10,
		},
		{
			name:     "AU00 counts",
			data:     wve(au00(28, 0x0f), au00(20, 0x0f)),
			channels: 1, samples: 48, codec: audio.EaXa, start: 0x10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			bp, err := Prober{}.Probe(bytesrc.NewMemory("a.wve", tt.data), audio.ProbeOptions{})
			if err != nil {
				t.Fatalf("Probe: %v", err)
			}

			if bp.Channels != tt.channels || bp.NumSamples != tt.samples || bp.Codec != tt.codec {
				t.Errorf("got %d ch, %d samples, %s", bp.Channels, bp.NumSamples, bp.Codec)
			}
			if bp.ChannelCfgs[0].StartOffset != tt.start {
				t.Errorf("start = 0x%x, want 0x%x", bp.ChannelCfgs[0].StartOffset, tt.start)
			}
		})
	}
}

func TestProbe_PlaysSilence(t *testing.T) {
	t.Parallel()

	data := wve(chunkOf("Ad11", make([]byte, 0x40)), chunkOf("vAA0", nil), chunkOf("Ad11", make([]byte, 0x40)))
	bp, err := Prober{}.Probe(bytesrc.NewMemory("a.wve", data), audio.ProbeOptions{})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	s, err := layout.New(bp)
	if err != nil {
		t.Fatalf("layout.New: %v", err)
	}

	out := make([]int16, 2*bp.NumSamples)
	if res := s.Render(out, int(bp.NumSamples)); res.Samples != int(bp.NumSamples) || res.Status != audio.StatusOK {
		t.Errorf("Render = %+v, want %d ok", res, bp.NumSamples)
	}
}

func TestProbe_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"magic", []byte("AABC\x00\x00\x00\x08"), audio.ErrReject},
		{"header size", []byte("AABB\x00\x00\x00\x02"), audio.ErrCorrupt},
		{"video only", wve(chunkOf("vAA0", make([]byte, 8))), audio.ErrCorrupt},
		{"empty audio", wve(chunkOf("Ad10", nil)), audio.ErrCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := (Prober{}).Probe(bytesrc.NewMemory("a.wve", tt.data), audio.ProbeOptions{}); !errors.Is(err, tt.want) {
				t.Errorf("Probe error = %v, want %v", err, tt.want)
			}
		})
	}
}
