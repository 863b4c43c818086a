// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/gen2brain/mpeg"
	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/utils"
)

// Open is the audio.ExternalFactory for MPEG audio. The first frame picks
// the backend: Layer III goes to go-mp3, MPEG-1 Layer II to gen2brain/mpeg.
func Open(src bytesrc.Source, start, size int64, cfg audio.ExternalConfig) (audio.ExternalCodec, error) {
	view := bytesrc.SubView(src, start, size)

	h, off, _, ok := FindStream(view, 0)
	if !ok {
		view.Close()
		return nil, ErrNoFrames
	}
	if err := supported(h); err != nil {
		view.Close()
		return nil, err
	}

	r := io.NewSectionReader(view, off, view.Size()-off)

	var (
		c   audio.ExternalCodec
		err error
	)
	if h.Layer == 3 {
		c, err = newLayer3(r, view)
	} else {
		c, err = newLayer2(r, view, h.Channels)
	}
	if err != nil {
		view.Close()
		return nil, err
	}

	return c, nil
}

// layer3 decodes through go-mp3, which always writes 16-bit stereo.
type layer3 struct {
	dec  *gomp3.Decoder
	view bytesrc.Source
	buf  []byte
}

func newLayer3(r io.ReadSeeker, view bytesrc.Source) (*layer3, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecoder, err)
	}

	return &layer3{dec: dec, view: view}, nil
}

func (d *layer3) Decode(out []int16, samples int) (int, error) {
	want := samples * 4
	if cap(d.buf) < want {
		d.buf = make([]byte, want)
	}
	d.buf = d.buf[:want]

	n, err := io.ReadFull(d.dec, d.buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, fmt.Errorf("%w: %w", ErrDecoder, err)
	}

	got := n / 4
	for i := range got * 2 {
		out[i] = int16(binary.LittleEndian.Uint16(d.buf[2*i:]))
	}

	return got, nil
}

func (d *layer3) Seek(sample int64) error {
	if _, err := d.dec.Seek(sample*4, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %w", ErrDecoder, err)
	}

	return nil
}

func (d *layer3) Reset() error       { return d.Seek(0) }
func (d *layer3) SkipSamples() int64 { return 0 }
func (d *layer3) Close() error       { return d.view.Close() }

// layer2 decodes through gen2brain/mpeg one 1152-sample frame at a time.
type layer2 struct {
	dec      *mpeg.Audio
	view     bytesrc.Source
	channels int

	frame []float32 // interleaved stereo of the current frame
	pos   int       // next sample inside frame
}

func newLayer2(r io.ReadSeeker, view bytesrc.Source, channels int) (*layer2, error) {
	buf, err := mpeg.NewBuffer(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecoder, err)
	}
	buf.SetLoadCallback(buf.LoadReaderCallback)

	return &layer2{dec: mpeg.NewAudio(buf), view: view, channels: channels}, nil
}

// next loads the following frame; false at the end of the stream.
func (d *layer2) next() bool {
	s := d.dec.Decode()
	if s == nil {
		d.frame = nil
		return false
	}

	d.frame = s.Interleaved
	d.pos = 0

	return true
}

func (d *layer2) Decode(out []int16, samples int) (int, error) {
	done := 0
	for done < samples {
		if d.pos >= len(d.frame)/2 && !d.next() {
			break
		}

		n := min(samples-done, len(d.frame)/2-d.pos)
		for i := range n {
			for c := range d.channels {
				out[(done+i)*d.channels+c] = utils.Float32ToInt16(d.frame[(d.pos+i)*2+c])
			}
		}

		d.pos += n
		done += n
	}

	return done, nil
}

// Seek decodes from the start up to the frame holding sample.
func (d *layer2) Seek(sample int64) error {
	if err := d.Reset(); err != nil {
		return err
	}

	for range sample / mpeg.SamplesPerFrame {
		if !d.next() {
			return nil
		}
	}

	if rem := int(sample % mpeg.SamplesPerFrame); rem > 0 && d.next() {
		d.pos = rem
	}

	return nil
}

func (d *layer2) Reset() error {
	d.dec.Rewind()
	d.frame = nil
	d.pos = 0

	return nil
}

func (d *layer2) SkipSamples() int64 { return 0 }
func (d *layer2) Close() error       { return d.view.Close() }
