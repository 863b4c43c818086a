// SPDX-License-Identifier: EPL-2.0

// Package pcm decodes uncompressed sample formats into 16-bit samples.
package pcm

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/codec"
	"github.com/ik5/vgmpbx/utils"
)

type sampleFunc func(b []byte) int16

// Decoder reads one fixed-width sample per lane per frame.
type Decoder struct {
	width  int
	lanes  int
	sample sampleFunc
	buf    []byte
}

// New returns the decoder for a PCM codec id.
func New(id audio.CodecID, lanes int) (*Decoder, error) {
	if lanes < 1 {
		lanes = 1
	}

	d := &Decoder{lanes: lanes}

	switch id {
	case audio.Pcm8:
		d.width, d.sample = 1, func(b []byte) int16 { return int16(int8(b[0])) << 8 }
	case audio.Pcm8u:
		d.width, d.sample = 1, func(b []byte) int16 { return int16(int8(b[0]^0x80)) << 8 }
	case audio.Pcm16Le:
		d.width, d.sample = 2, func(b []byte) int16 { return int16(binary.LittleEndian.Uint16(b)) }
	case audio.Pcm16Be:
		d.width, d.sample = 2, func(b []byte) int16 { return int16(binary.BigEndian.Uint16(b)) }
	case audio.Pcm24Le:
		d.width, d.sample = 3, func(b []byte) int16 { return int16(uint16(b[1]) | uint16(b[2])<<8) }
	case audio.PcmFloat:
		d.width, d.sample = 4, func(b []byte) int16 {
			return utils.Float32ToInt16(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		}
	default:
		return nil, fmt.Errorf("%w: %s", codec.ErrUnknownCodec, id)
	}

	return d, nil
}

// Supports reports whether New knows id.
func Supports(id audio.CodecID) bool {
	switch id {
	case audio.Pcm8, audio.Pcm8u, audio.Pcm16Le, audio.Pcm16Be, audio.Pcm24Le, audio.PcmFloat:
		return true
	}

	return false
}

// Width is the size of one sample in bytes.
func (d *Decoder) Width() int { return d.width }

func (d *Decoder) SamplesPerFrame() int { return 1 }
func (d *Decoder) FrameBytes() int      { return d.width * d.lanes }

func (d *Decoder) Decode(st *codec.State, lane int, out []int16, stride, pos, todo int) {
	fb := d.FrameBytes()
	d.buf = codec.ReadFrame(st.Src, st.Offset+int64(pos*fb), todo*fb, d.buf)

	for i := range todo {
		at := i*fb + lane*d.width
		out[i*stride] = d.sample(d.buf[at : at+d.width])
	}
}
