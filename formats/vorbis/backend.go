// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/utils"
)

// oggReader is the part of oggvorbis.Reader the backend uses.
type oggReader interface {
	Channels() int
	Read([]float32) (int, error)
	SetPosition(int64) error
}

var newReader = func(r io.ReadSeeker) (oggReader, error) {
	return oggvorbis.NewReader(r)
}

type backend struct {
	dec      oggReader
	view     bytesrc.Source
	channels int
	buf      []float32
}

// Open is the audio.ExternalFactory for Ogg Vorbis.
func Open(src bytesrc.Source, start, size int64, cfg audio.ExternalConfig) (audio.ExternalCodec, error) {
	view := bytesrc.SubView(src, start, size)

	dec, err := newReader(io.NewSectionReader(view, 0, view.Size()))
	if err != nil {
		view.Close()
		return nil, fmt.Errorf("%w: %w", ErrDecoder, err)
	}

	if cfg.Channels > 0 && dec.Channels() != cfg.Channels {
		view.Close()
		return nil, fmt.Errorf("%w: stream has %d channels, expected %d", ErrDecoder, dec.Channels(), cfg.Channels)
	}

	return &backend{dec: dec, view: view, channels: dec.Channels()}, nil
}

func (b *backend) Decode(out []int16, samples int) (int, error) {
	want := samples * b.channels
	if cap(b.buf) < want {
		b.buf = make([]float32, want)
	}

	done := 0
	for done < want {
		n, err := b.dec.Read(b.buf[done:want])
		done += n

		if errors.Is(err, io.EOF) || (err == nil && n == 0) {
			break
		}
		if err != nil {
			utils.Float32sToInt16(out, b.buf[:done])
			return done / b.channels, fmt.Errorf("%w: %w", ErrDecoder, err)
		}
	}

	utils.Float32sToInt16(out, b.buf[:done])

	return done / b.channels, nil
}

func (b *backend) Seek(sample int64) error {
	if err := b.dec.SetPosition(sample); err != nil {
		return fmt.Errorf("%w: %w", ErrDecoder, err)
	}

	return nil
}

func (b *backend) Reset() error       { return b.Seek(0) }
func (b *backend) SkipSamples() int64 { return 0 }
func (b *backend) Close() error       { return b.view.Close() }
