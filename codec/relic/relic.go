// SPDX-License-Identifier: EPL-2.0

// Package relic decodes the Relic transform codec: per channel frames of
// band exponents and sparse quantized spectra, synthesized with an inverse
// MDCT and upsampled to a fixed 512 samples per frame.
package relic

import (
	"errors"
	"fmt"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/codec"
)

// SamplesPerFrame is the output length of every frame.
const SamplesPerFrame = 512

var ErrBadConfig = errors.New("relic: bad config")

// Config describes the stream.
type Config struct {
	Channels int
	// Bitrate sets the frame size: Bitrate/8 bytes per channel.
	Bitrate int
	// DCTMode selects the transform size: 0 is 512, 1 is 256, 2 is 128.
	DCTMode    int
	NumSamples int64
}

// FrameSize is the size of one channel frame.
func FrameSize(bitrate int) int { return bitrate / 8 }

// BytesToSamples is the length of size bytes of frames.
func BytesToSamples(size int64, channels, bitrate int) int64 {
	fs := int64(FrameSize(bitrate))
	if channels <= 0 || fs <= 0 {
		return 0
	}

	return size / int64(channels) / fs * SamplesPerFrame
}

func dctSize(mode int) (int, error) {
	switch mode {
	case 0:
		return 512, nil
	case 1:
		return 256, nil
	case 2:
		return 128, nil
	}

	return 0, fmt.Errorf("%w: dct mode %d", ErrBadConfig, mode)
}

// Decoder owns one Relic stream.
type Decoder struct {
	src  bytesrc.Source
	off  int64
	size int64
	cfg  Config

	frameSize int
	dct       *imdct
	upsample  int

	exps  [][maxFreq]uint8
	prev  [][]float64
	freq1 [maxFreq]float32
	freq2 [maxFreq]float32
	y     []float64

	buf    []byte
	frame  int64
	pcm    *audio.SampleBuffer
	played int64
}

// New decodes size bytes of frames at off.
func New(src bytesrc.Source, off, size int64, cfg Config) (*Decoder, error) {
	if cfg.Channels < 1 || cfg.Channels > 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrBadConfig, cfg.Channels)
	}
	if FrameSize(cfg.Bitrate) <= 0 {
		return nil, fmt.Errorf("%w: bitrate %d", ErrBadConfig, cfg.Bitrate)
	}

	n, err := dctSize(cfg.DCTMode)
	if err != nil {
		return nil, err
	}

	d := &Decoder{
		src:       src,
		off:       off,
		size:      size,
		cfg:       cfg,
		frameSize: FrameSize(cfg.Bitrate),
		dct:       newIMDCT(n),
		upsample:  SamplesPerFrame / n,
		exps:      make([][maxFreq]uint8, cfg.Channels),
		prev:      make([][]float64, cfg.Channels),
		y:         make([]float64, n),
		pcm:       audio.NewSampleBuffer(cfg.Channels, SamplesPerFrame),
	}
	for c := range d.prev {
		d.prev[c] = make([]float64, n/2)
	}

	if d.cfg.NumSamples <= 0 {
		d.cfg.NumSamples = BytesToSamples(size, cfg.Channels, cfg.Bitrate)
	}

	return d, nil
}

func (d *Decoder) Reset() error {
	for c := range d.prev {
		clear(d.prev[c])
		d.exps[c] = [maxFreq]uint8{}
	}
	d.frame, d.played = 0, 0
	d.pcm.SetFilled(0)

	return nil
}

func (d *Decoder) Close() error { return nil }

func (d *Decoder) nextFrame() bool {
	fb := int64(d.frameSize * d.cfg.Channels)
	at := d.frame * fb
	if at+fb > d.size {
		return false
	}

	d.buf = codec.ReadFrame(d.src, d.off+at, int(fb), d.buf)
	d.frame++

	n := d.dct.n
	half := n / 2
	ch := d.cfg.Channels
	pcm := d.pcm.Space()

	for c := range ch {
		unpack(d.buf[c*d.frameSize:(c+1)*d.frameSize], d.freq1[:], d.freq2[:], &d.exps[c], half)

		out := 0
		for _, freq := range [2][]float32{d.freq1[:], d.freq2[:]} {
			d.dct.transform(freq, d.y)

			for i := range half {
				v := codec.Clamp16f(d.prev[c][i] + d.y[i]*d.dct.window[i])
				for range d.upsample {
					pcm[out*ch+c] = v
					out++
				}
				d.prev[c][i] = d.y[half+i] * d.dct.window[half+i]
			}
		}
	}

	d.pcm.SetFilled(SamplesPerFrame)

	return true
}

// Decode writes up to samples interleaved frames to out.
func (d *Decoder) Decode(out []int16, samples int) (int, error) {
	ch := d.cfg.Channels

	done := 0
	for done < samples && d.played < d.cfg.NumSamples {
		if d.pcm.Filled() == 0 && !d.nextFrame() {
			break
		}

		n := d.pcm.Consume(out[done*ch:], min(samples-done, int(d.cfg.NumSamples-d.played)))
		done += n
		d.played += int64(n)
	}

	return done, nil
}
