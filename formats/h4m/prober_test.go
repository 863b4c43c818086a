// SPDX-License-Identifier: EPL-2.0

package h4m

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/layout"
)

func header(start uint32, channels uint16, rate uint32) []byte {
	b := []byte("H4M\x00")
	b = binary.BigEndian.AppendUint32(b, start)
	b = binary.BigEndian.AppendUint16(b, channels)
	b = append(b, 0, 0)

	return binary.BigEndian.AppendUint32(b, rate)
}

func frame(kind uint16, payload []byte) []byte {
	b := binary.BigEndian.AppendUint16(nil, kind)
	b = append(b, 0, 0)
	b = binary.BigEndian.AppendUint32(b, uint32(len(payload)))

	return append(b, payload...)
}

// block is an audio frame of zero IMA codes, so each channel repeats its
// history.
func block(samples int, hist []int16) []byte {
	b := binary.BigEndian.AppendUint32(nil, uint32(samples))
	for _, h := range hist {
		b = binary.BigEndian.AppendUint16(b, uint16(h))
		b = append(b, 0, 0)
	}

	return frame(audioFrame, append(b, make([]byte, len(hist)*samples/2)...))
}

// video is a frame the audio walk has to step over.
func video(size int) []byte {
	payload := make([]byte, size)
	for i := range payload {
		payload[i] = 0x77
	}

	return frame(1, payload)
}

func TestProbe_AudioFramesBetweenVideo(t *testing.T) {
	t.Parallel()

	data := header(headerSize, 2, 32000)
	data = append(data, video(40)...)
	data = append(data, block(8, []int16{100, -100})...)
	data = append(data, video(13)...)
	data = append(data, block(8, []int16{200, -200})...)

	bp, err := Prober{}.Probe(bytesrc.NewMemory("a.h4m", data), audio.ProbeOptions{})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if bp.Channels != 2 || bp.SampleRate != 32000 || bp.NumSamples != 16 {
		t.Fatalf("got %d ch, %d Hz, %d samples", bp.Channels, bp.SampleRate, bp.NumSamples)
	}

	s, err := layout.New(bp)
	if err != nil {
		t.Fatalf("layout.New: %v", err)
	}

	out := make([]int16, 2*16)
	s.Render(out, 16)
	for i := range 16 {
		want := int16(100)
		if i >= 8 {
			want = 200
		}
		if out[2*i] != want || out[2*i+1] != -want {
			t.Fatalf("frame %d = %d/%d, want %d/%d", i, out[2*i], out[2*i+1], want, -want)
		}
	}
}

func TestProbe_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"magic", []byte("H4M\x01"), audio.ErrReject},
		{"short", []byte("H4M\x00\x00\x00"), audio.ErrCorrupt},
		{"channels", append(header(headerSize, 3, 32000), block(8, []int16{0, 0, 0})...), audio.ErrCorrupt},
		{"rate", append(header(headerSize, 1, 0), block(8, []int16{0})...), audio.ErrCorrupt},
		{"start", append(header(0x400, 1, 32000), block(8, []int16{0})...), audio.ErrCorrupt},
		{"no blocks", append(header(headerSize, 1, 32000), make([]byte, 16)...), audio.ErrCorrupt},
		{"video only", append(header(headerSize, 1, 32000), video(32)...), audio.ErrCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := (Prober{}).Probe(bytesrc.NewMemory("a.h4m", tt.data), audio.ProbeOptions{}); !errors.Is(err, tt.want) {
				t.Errorf("Probe error = %v, want %v", err, tt.want)
			}
		})
	}
}
