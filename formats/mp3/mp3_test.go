// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
)

// frames is n silent frames with the given header.
func frames(header []byte, n int) []byte {
	h, _ := ParseHeader(header)

	var b []byte
	for range n {
		f := make([]byte, h.FrameSize())
		copy(f, header)
		b = append(b, f...)
	}

	return b
}

var (
	layer3Header = []byte{0xff, 0xfb, 0x90, 0x00} // MPEG-1 layer III, 128 kbps, stereo
	layer2Header = []byte{0xff, 0xfd, 0x80, 0xc0} // MPEG-1 layer II, 128 kbps, mono
)

func id3(size int) []byte {
	b := []byte{'I', 'D', '3', 4, 0, 0, 0, 0, byte(size >> 7), byte(size & 0x7f)}
	return append(b, make([]byte, size)...)
}

func TestParseHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []byte
		ok   bool
		want Header
		size int
		spf  int
	}{
		{"mpeg1 layer3", layer3Header, true, Header{10, 3, 128, 44100, false, 2}, 417, 1152},
		{"mpeg1 layer2 mono", layer2Header, true, Header{10, 2, 128, 44100, false, 1}, 417, 1152},
		{"mpeg2 layer3 padded", []byte{0xff, 0xf3, 0x56, 0x00}, true, Header{20, 3, 40, 24000, true, 2}, 121, 576},
		{"mpeg1 layer1", []byte{0xff, 0xff, 0x10, 0x00}, true, Header{10, 1, 32, 44100, false, 2}, 32 * 1000 * 12 / 44100 * 4, 384},
		{"reserved version", []byte{0xff, 0xeb, 0x90, 0x00}, false, Header{}, 0, 0},
		{"free format", []byte{0xff, 0xfb, 0x00, 0x00}, false, Header{}, 0, 0},
		{"bad rate", []byte{0xff, 0xfb, 0x9c, 0x00}, false, Header{}, 0, 0},
		{"no sync", []byte{0xff, 0x1b, 0x90, 0x00}, false, Header{}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, ok := ParseHeader(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if h != tt.want {
				t.Errorf("header = %+v, want %+v", h, tt.want)
			}
			if h.FrameSize() != tt.size || h.SamplesPerFrame() != tt.spf {
				t.Errorf("frame %d bytes / %d samples, want %d / %d", h.FrameSize(), h.SamplesPerFrame(), tt.size, tt.spf)
			}
		})
	}
}

func TestProbe_SkipsID3(t *testing.T) {
	t.Parallel()

	data := append(id3(200), frames(layer3Header, 10)...)
	data = append(data, []byte("TAG")...)

	bp, err := Prober{}.Probe(bytesrc.NewMemory("a.mp3", data), audio.ProbeOptions{})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	if bp.Codec != audio.External || bp.External != audio.ExtMpeg {
		t.Errorf("codec %s/%s, want external MPEG", bp.Codec, bp.External)
	}
	if bp.NumSamples != 10*1152 || bp.Channels != 2 || bp.SampleRate != 44100 {
		t.Errorf("got %d samples, %d ch, %d Hz", bp.NumSamples, bp.Channels, bp.SampleRate)
	}
	if bp.ChannelCfgs[0].StartOffset != 210 {
		t.Errorf("stream starts at %d, want 210", bp.ChannelCfgs[0].StartOffset)
	}
}

func TestProbe_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"noise", bytes.Repeat([]byte{0x12, 0x34}, 1000), audio.ErrReject},
		{"lone sync", append([]byte{0xff, 0xfb, 0x90, 0x00}, bytes.Repeat([]byte{1}, 1000)...), audio.ErrReject},
		{"layer1", frames([]byte{0xff, 0xff, 0x90, 0x00}, 4), audio.ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Prober{}.Probe(bytesrc.NewMemory("a.mp3", tt.data), audio.ProbeOptions{})
			if !errors.Is(err, tt.want) {
				t.Errorf("Probe error = %v, want %v", err, tt.want)
			}
		})
	}
}

func decodeAll(t *testing.T, c audio.ExternalCodec, channels int) []int16 {
	t.Helper()

	var all []int16
	buf := make([]int16, 1000*channels)
	for {
		n, err := c.Decode(buf, 1000)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		all = append(all, buf[:n*channels]...)
		if n < 1000 {
			return all
		}
	}
}

func TestOpen_Backends(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		header   []byte
		channels int
	}{
		{"layer3", layer3Header, 2},
		{"layer2", layer2Header, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := frames(tt.header, 8)
			src := bytesrc.NewMemory("a.mp3", data)

			c, err := Open(src, 0, src.Size(), audio.ExternalConfig{Kind: audio.ExtMpeg})
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer c.Close()

			pcm := decodeAll(t, c, tt.channels)
			if len(pcm) == 0 || len(pcm) > 8*1152*tt.channels {
				t.Fatalf("decoded %d values", len(pcm))
			}
			for i, v := range pcm {
				if v != 0 {
					t.Fatalf("sample %d = %d, want silence", i, v)
				}
			}

			if err := c.Seek(1152); err != nil {
				t.Fatalf("Seek: %v", err)
			}
			if again := decodeAll(t, c, tt.channels); len(again) != len(pcm)-1152*tt.channels {
				t.Errorf("after Seek decoded %d values, want %d", len(again), len(pcm)-1152*tt.channels)
			}
		})
	}
}

func TestOpen_NoFrames(t *testing.T) {
	t.Parallel()

	src := bytesrc.NewMemory("a.mp3", make([]byte, 64))
	if _, err := Open(src, 0, 64, audio.ExternalConfig{}); !errors.Is(err, ErrNoFrames) {
		t.Errorf("Open error = %v, want ErrNoFrames", err)
	}
}
