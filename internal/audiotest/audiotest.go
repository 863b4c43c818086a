// SPDX-License-Identifier: EPL-2.0

// Package audiotest builds synthetic streams and fake backends for tests.
package audiotest

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
)

// Waveform gives the value of a channel at a sample index.
type Waveform func(sample, channel int) int16

// Ramp is a distinct value per sample and channel.
func Ramp(sample, channel int) int16 {
	v := int16(sample%8000 + 1)
	if channel%2 == 1 {
		return -v
	}

	return v
}

// Sine is a 440 Hz tone at 44.1 kHz.
func Sine(sample, channel int) int16 {
	return int16(8000 * math.Sin(2*math.Pi*440*float64(sample)/44100+float64(channel)))
}

// Interleaved renders n frames of w.
func Interleaved(w Waveform, channels, n int) []int16 {
	out := make([]int16, n*channels)
	for i := range n {
		for c := range channels {
			out[i*channels+c] = w(i, c)
		}
	}

	return out
}

// PCM16Interleave lays out n frames of w as little-endian PCM in blocks of
// block bytes per channel. The last block of each channel is shortened to
// what is left.
func PCM16Interleave(w Waveform, channels, n, block int) []byte {
	per := block / 2
	var data []byte

	for start := 0; start < n; start += per {
		count := min(per, n-start)
		for c := range channels {
			for i := range count {
				data = binary.LittleEndian.AppendUint16(data, uint16(w(start+i, c)))
			}
		}
	}

	return data
}

// PSXSilence is n PS-ADPCM frames of silence: filter 0, shift 0, no flag.
func PSXSilence(frames int) []byte {
	return make([]byte, 16*frames)
}

// Blueprint is a minimal valid blueprint over data.
func Blueprint(data []byte, codec audio.CodecID, channels int, samples int64) *audio.Blueprint {
	src := bytesrc.NewMemory("test.bin", data)

	bp := &audio.Blueprint{
		Format:     "test",
		Channels:   channels,
		SampleRate: 44100,
		NumSamples: samples,
		Codec:      codec,
		Layout:     audio.Layout{Kind: audio.LayoutFlat},
		StreamSize: int64(len(data)),
	}
	bp.ChannelCfgs = []audio.ChannelCfg{{Source: src}}

	return bp
}

// ErrFake is what a failing Backend returns.
var ErrFake = errors.New("fake backend failure")

// Backend is an in-memory audio.ExternalCodec producing a waveform.
type Backend struct {
	Wave     Waveform
	Channels int
	Total    int64
	// Delay samples come before the waveform.
	Delay int64
	// FailAt makes Decode fail once this many samples were produced; 0
	// never fails.
	FailAt int64

	pos    int64
	Seeks  int
	Resets int
	Closed bool
}

func (b *Backend) Decode(out []int16, samples int) (int, error) {
	done := 0
	for done < samples && b.pos < b.Total+b.Delay {
		if b.FailAt > 0 && b.pos >= b.FailAt {
			return done, ErrFake
		}

		for c := range b.Channels {
			var v int16
			if b.pos >= b.Delay {
				v = b.Wave(int(b.pos-b.Delay), c)
			}
			out[done*b.Channels+c] = v
		}
		done++
		b.pos++
	}

	return done, nil
}

func (b *Backend) Seek(sample int64) error {
	b.Seeks++
	b.pos = sample
	return nil
}

func (b *Backend) Reset() error {
	b.Resets++
	b.pos = 0
	return nil
}

func (b *Backend) SkipSamples() int64 { return b.Delay }

func (b *Backend) Close() error {
	b.Closed = true
	return nil
}

// Externals registers a factory for kind that returns b.
func Externals(kind audio.ExternalKind, b *Backend) *audio.Externals {
	e := audio.NewExternals()
	e.Register(kind, func(bytesrc.Source, int64, int64, audio.ExternalConfig) (audio.ExternalCodec, error) {
		return b, nil
	})

	return e
}
