// SPDX-License-Identifier: EPL-2.0

// Package ubiadpcm decodes Ubisoft's 4-bit and 6-bit ADPCM. Every frame
// restarts from a stored state vector per channel, so frames decode
// independently.
package ubiadpcm

import (
	"encoding/binary"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/codec"
	"github.com/ik5/vgmpbx/internal/bits"
)

// deltaTable scales 6-bit codes, indexed by code+33.
var deltaTable = func() (t [66]int32) {
	for i := range t {
		x := int32(i - 33)
		mag := max(x, -x)

		var v int32
		switch {
		case mag <= 8:
			v = mag * 16
		case mag <= 16:
			v = 128 + (mag-8)*24
		default:
			v = 320 + (mag-16)*32
		}
		if x < 0 {
			v = -v
		}
		t[i] = v
	}

	return t
}()

// stepTable is the Q8 step multiplier for a 6-bit code magnitude.
var stepTable = func() (t [33]int32) {
	for m := range t {
		switch {
		case m <= 4:
			t[m] = 230
		case m <= 12:
			t[m] = 256 + int32(m-4)*16
		default:
			t[m] = 384 + int32(m-12)*8
		}
	}

	return t
}()

// channelState is the 0x34 byte vector stored at the start of each frame.
type channelState struct {
	step    int32
	coef1   int32
	coef2   int32
	weights [4]int16
	hist1   int32
	hist2   int32
	deltas  [5]int32
}

func parseState(b []byte) channelState {
	s := channelState{
		step:  int32(binary.LittleEndian.Uint32(b[0x00:])),
		coef1: int32(binary.LittleEndian.Uint32(b[0x04:])),
		coef2: int32(binary.LittleEndian.Uint32(b[0x08:])),
		hist1: int32(binary.LittleEndian.Uint32(b[0x14:])),
		hist2: int32(binary.LittleEndian.Uint32(b[0x18:])),
	}
	for i := range s.weights {
		s.weights[i] = int16(binary.LittleEndian.Uint16(b[0x0c+2*i:]))
	}
	for i := range s.deltas {
		s.deltas[i] = int32(binary.LittleEndian.Uint32(b[0x1c+4*i:]))
	}
	s.step = max(1, min(s.step, 0x7fff))

	return s
}

func sign(v int32) int32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}

	return 0
}

func (s *channelState) push(delta int32) {
	copy(s.deltas[1:], s.deltas[:4])
	s.deltas[0] = delta
}

// expand4 runs the two-history predictor and adapts its coefficients
// toward the sign of the error.
func (s *channelState) expand4(code int32) int16 {
	pred := (s.coef1*s.hist1 + s.coef2*s.hist2) >> 12
	delta := code * s.step
	out := codec.Clamp16(pred + delta)

	sc := sign(code)
	s.coef1 = max(-0x1fff, min(0x1fff, s.coef1+sc*sign(s.hist1)*int32(s.weights[0])))
	s.coef2 = max(-0x0fff, min(0x0fff, s.coef2+sc*sign(s.hist2)*int32(s.weights[1])))

	if code >= 4 || code <= -4 {
		s.step += s.step * int32(s.weights[2]) >> 8
	} else {
		s.step -= s.step * int32(s.weights[3]) >> 8
	}
	s.step = max(1, min(s.step, 0x7fff))

	s.hist2, s.hist1 = s.hist1, int32(out)
	s.push(delta)

	return out
}

// expand6 adds a table delta to the last sample.
func (s *channelState) expand6(code int32) int16 {
	delta := deltaTable[code+33] * s.step >> 6
	out := codec.Clamp16(s.hist1 + delta)

	s.step = max(1, min(s.step*stepTable[max(code, -code)]>>8, 0x7fff))
	s.hist2, s.hist1 = s.hist1, int32(out)
	s.push(delta)

	return out
}

// Decoder owns one stream: the header at off and the frames after it.
type Decoder struct {
	src bytesrc.Source
	off int64
	hdr Header

	states [2]channelState
	buf    []byte
	codes  []int16

	frame  int64
	pcm    *audio.SampleBuffer
	played int64
}

func New(src bytesrc.Source, off int64) (*Decoder, error) {
	hdr, err := ParseHeader(src, off)
	if err != nil {
		return nil, err
	}

	spf := hdr.SamplesPerFrame()

	return &Decoder{
		src:   src,
		off:   off,
		hdr:   hdr,
		codes: make([]int16, hdr.CodesPerSubframe),
		pcm:   audio.NewSampleBuffer(int(hdr.Channels), int(spf)),
	}, nil
}

func (d *Decoder) Header() Header { return d.hdr }

func (d *Decoder) Reset() error {
	d.frame, d.played = 0, 0
	d.pcm.SetFilled(0)

	return nil
}

// Seek decodes the frame holding sample and drops what comes before it.
func (d *Decoder) Seek(sample int64) error {
	d.Reset()

	spf := d.hdr.SamplesPerFrame()
	d.frame = sample / spf
	d.played = d.frame * spf

	if skip := int(sample - d.played); skip > 0 {
		if !d.nextFrame() {
			return nil
		}
		d.played += int64(d.pcm.Discard(skip))
	}

	return nil
}

func (d *Decoder) Close() error { return nil }

func (d *Decoder) nextFrame() bool {
	h := d.hdr
	if d.frame >= h.Frames() {
		return false
	}

	codes := [2]uint32{h.CodesPerSubframe, h.CodesPerSubframe}
	if d.frame == h.Frames()-1 {
		codes[0], codes[1] = h.lastFrameCodes()
	}

	size := int64(h.Channels)*stateSize + h.subframeBytes(codes[0]) + h.subframeBytes(codes[1])
	at := d.off + HeaderSize + d.frame*h.FrameBytes()
	d.buf = codec.ReadFrame(d.src, at, int(size), d.buf)
	d.frame++

	ch := int(h.Channels)
	for c := range ch {
		d.states[c] = parseState(d.buf[c*stateSize:])
	}

	pcm := d.pcm.Space()
	pos := ch * stateSize
	out := 0
	for _, n := range codes {
		if n == 0 {
			continue
		}

		sb := int(h.subframeBytes(n))
		d.subframe(pcm, d.buf[pos:pos+sb], int(n), out)
		pos += sb
		out += int(n) / ch
	}

	d.pcm.SetFilled(out)

	return out > 0
}

// subframe decodes n codes into pcm starting at frame sample first. Stereo
// codes alternate mid and side and are mixed back to left and right.
func (d *Decoder) subframe(pcm []int16, b []byte, n, first int) {
	width := uint(d.hdr.BitsPerSample)
	r := bits.NewLSBReader(b)

	for i := range n {
		v := int32(r.Read(width))
		v = v << (32 - width) >> (32 - width)
		d.codes[i] = int16(v)
	}

	ch := int(d.hdr.Channels)
	for i := range n / ch {
		var s [2]int16
		for c := range ch {
			code := int32(d.codes[i*ch+c])
			if width == 4 {
				s[c] = d.states[c].expand4(code)
			} else {
				s[c] = d.states[c].expand6(code)
			}
		}

		at := (first + i) * ch
		if ch == 1 {
			pcm[at] = s[0]
			continue
		}

		mid, side := int32(s[0]), int32(s[1])
		pcm[at] = codec.Clamp16(mid + side)
		pcm[at+1] = codec.Clamp16(mid - side)
	}
}

// Decode writes up to samples interleaved frames to out.
func (d *Decoder) Decode(out []int16, samples int) (int, error) {
	ch := int(d.hdr.Channels)
	total := int64(d.hdr.SampleCount)

	done := 0
	for done < samples && d.played < total {
		if d.pcm.Filled() == 0 && !d.nextFrame() {
			break
		}

		n := d.pcm.Consume(out[done*ch:], min(samples-done, int(total-d.played)))
		done += n
		d.played += int64(n)
	}

	return done, nil
}
