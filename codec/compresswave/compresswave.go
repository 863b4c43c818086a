// SPDX-License-Identifier: EPL-2.0

// Package compresswave decodes CompressWave streams: huffman coded second
// order deltas behind a light XOR cipher, always rendered as 44100 Hz
// stereo.
package compresswave

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/codec"
)

const (
	// OutputRate is the rate of every decoded stream.
	OutputRate = 44100

	clampLimit = 32760
	leaves     = 256
	nodes      = leaves*2 - 1

	fullVolume = int32(256) << 20
)

var ErrBadConfig = errors.New("compresswave: bad config")

// Config is what the container header declares.
type Config struct {
	// Channels is the coded channel count, 1 or 2. Mono is duplicated.
	Channels int
	// SampleRate is the coded rate, 44100 or 22050.
	SampleRate int

	Table      [256]int32
	Weights    [256]uint32
	CipherMask uint32

	// NumSamples is the length in output frames.
	NumSamples int64
	// LoopStart is the output frame where the loop snapshot is taken, or
	// -1 when the stream has no usable loop point.
	LoopStart int64
}

type node struct {
	child [2]int
}

// state is everything that moves while decoding.
type state struct {
	pos    int
	word   uint32
	left   uint
	cipher uint32

	vv, aa [2]int32
	back   [2]int32

	// volume moves toward target by fade every coded sample
	volume, target, fade int32

	played int64
}

// Decoder owns one CompressWave stream.
type Decoder struct {
	cfg     Config
	data    []byte
	tree    [nodes]node
	root    int
	ciphers [8]uint32

	// pcm holds the one or two output frames of the last coded sample
	pcm    *audio.SampleBuffer
	volume int32

	st      state
	snap    state
	snapPCM [4]int16
	snapLen int
	hasSnp  bool
}

// New reads size bytes of coded data at off.
func New(src bytesrc.Source, off, size int64, cfg Config) (*Decoder, error) {
	if cfg.Channels != 1 && cfg.Channels != 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrBadConfig, cfg.Channels)
	}
	if cfg.SampleRate != OutputRate && cfg.SampleRate != OutputRate/2 {
		return nil, fmt.Errorf("%w: rate %d", ErrBadConfig, cfg.SampleRate)
	}
	if size < 0 || off+size > src.Size() {
		size = max(0, src.Size()-off)
	}

	data := make([]byte, size)
	n, _ := src.ReadAt(data, off)

	d := &Decoder{
		cfg:    cfg,
		data:   data[:n],
		pcm:    audio.NewSampleBuffer(2, 2),
		volume: fullVolume,
	}
	d.buildTree()

	for i, div := range [8]uint32{3, 17, 7, 5, 3, 11, 13, 19} {
		d.ciphers[i] = cfg.CipherMask / div
	}

	d.Reset()

	return d, nil
}

// buildTree joins the lightest active node with its nearest-weight
// neighbor until one root remains. Ties go to the lowest index.
func (d *Decoder) buildTree() {
	var weight [nodes]uint64
	var active [nodes]bool

	for i := range leaves {
		weight[i] = uint64(d.cfg.Weights[i])
		active[i] = true
	}

	next := leaves
	for count := leaves; count > 1; count-- {
		l := -1
		for i := range next {
			if active[i] && (l < 0 || weight[i] < weight[l]) {
				l = i
			}
		}
		active[l] = false

		r := -1
		for i := range next {
			if active[i] && (r < 0 || absDiff(weight[i], weight[l]) < absDiff(weight[r], weight[l])) {
				r = i
			}
		}
		active[r] = false

		d.tree[next] = node{child: [2]int{l, r}}
		weight[next] = weight[l] + weight[r]
		active[next] = true
		next++
	}

	d.root = next - 1
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}

	return b - a
}

// Reset rewinds to the first frame at the volume last set.
func (d *Decoder) Reset() error {
	d.st = state{cipher: d.cfg.CipherMask, volume: d.volume, target: d.volume}
	d.pcm.SetFilled(0)

	return nil
}

// SetVolume fades the output toward volume, where 1 is unity and 2 the
// maximum, over fade output frames. A fade of 0 applies it at once.
func (d *Decoder) SetVolume(volume float64, fade int) {
	target := int32(max(0, min(volume, 2)) * float64(fullVolume))
	d.volume = target

	st := &d.st
	st.target = target

	if d.cfg.SampleRate != OutputRate {
		fade /= 2
	}
	if fade <= 0 {
		st.volume, st.fade = target, 0
		return
	}

	diff := target - st.volume
	if diff < 0 {
		diff = -diff
	}
	st.fade = max(1, diff/int32(fade))
}

// Seek restores the loop snapshot when asked for its position and decodes
// from the start otherwise.
func (d *Decoder) Seek(sample int64) error {
	if d.hasSnp && sample == d.cfg.LoopStart {
		d.st = d.snap
		d.refill()

		return nil
	}

	d.Reset()

	var scratch [512]int16
	for sample > 0 {
		n, _ := d.Decode(scratch[:], int(min(sample, 256)))
		if n == 0 {
			break
		}
		sample -= int64(n)
	}

	return nil
}

func (d *Decoder) Close() error { return nil }

func (d *Decoder) bit() (uint32, bool) {
	st := &d.st

	if st.left == 0 {
		if st.pos+4 > len(d.data) {
			return 0, false
		}

		w := binary.LittleEndian.Uint32(d.data[st.pos:]) ^ st.cipher
		st.cipher = bits.RotateLeft32(st.cipher, -int(w&7)) ^ d.ciphers[w&7]
		st.word, st.left = w, 32
		st.pos += 4
	}

	b := st.word >> 31
	st.word <<= 1
	st.left--

	return b, true
}

func (d *Decoder) code() (byte, bool) {
	n := d.root
	for n >= leaves {
		b, ok := d.bit()
		if !ok {
			return 0, false
		}
		n = d.tree[n].child[b]
	}

	return byte(n), true
}

// step decodes one coded sample pair.
func (d *Decoder) step() (l, r int16, ok bool) {
	var codes [2]byte

	if d.cfg.Channels == 2 {
		if codes[1], ok = d.code(); !ok {
			return 0, 0, false
		}
		if codes[0], ok = d.code(); !ok {
			return 0, 0, false
		}
	} else {
		if codes[0], ok = d.code(); !ok {
			return 0, 0, false
		}
		codes[1] = codes[0]
	}

	st := &d.st
	for c := range 2 {
		st.aa[c] += d.cfg.Table[codes[c]]
		st.vv[c] += st.aa[c]

		switch {
		case st.vv[c] > clampLimit:
			st.vv[c], st.aa[c] = clampLimit, 0
		case st.vv[c] < -clampLimit:
			st.vv[c], st.aa[c] = -clampLimit, 0
		}
	}

	switch {
	case st.volume < st.target:
		st.volume = min(st.volume+st.fade, st.target)
	case st.volume > st.target:
		st.volume = max(st.volume-st.fade, st.target)
	}

	mul := st.volume >> 20

	return codec.Clamp16(st.vv[0] * mul / 256), codec.Clamp16(st.vv[1] * mul / 256), true
}

// fill decodes one coded sample into pcm. Half rate streams yield the
// midpoint with the previous sample and then the sample itself.
func (d *Decoder) fill() bool {
	l, r, ok := d.step()
	if !ok {
		return false
	}

	buf := d.pcm.Space()
	if d.cfg.SampleRate == OutputRate {
		buf[0], buf[1] = l, r
		d.pcm.SetFilled(1)

		return true
	}

	st := &d.st
	buf[0] = int16((st.back[0] + int32(l)) / 2)
	buf[1] = int16((st.back[1] + int32(r)) / 2)
	buf[2], buf[3] = l, r
	st.back = [2]int32{int32(l), int32(r)}
	d.pcm.SetFilled(2)

	return true
}

// takeSnapshot saves the state with the frames still buffered.
func (d *Decoder) takeSnapshot() {
	d.snap, d.hasSnp = d.st, true
	d.snapLen = d.pcm.Consume(d.snapPCM[:], d.pcm.Filled())
	d.refill()
}

func (d *Decoder) refill() {
	copy(d.pcm.Space(), d.snapPCM[:d.snapLen*2])
	d.pcm.SetFilled(d.snapLen)
}

// Decode writes up to samples stereo frames to out.
func (d *Decoder) Decode(out []int16, samples int) (int, error) {
	st := &d.st

	done := 0
	for done < samples && st.played < d.cfg.NumSamples {
		want := min(int64(samples-done), d.cfg.NumSamples-st.played)
		if d.cfg.LoopStart >= 0 && !d.hasSnp {
			if st.played == d.cfg.LoopStart {
				d.takeSnapshot()
			} else if st.played < d.cfg.LoopStart {
				want = min(want, d.cfg.LoopStart-st.played)
			}
		}

		if d.pcm.Filled() == 0 && !d.fill() {
			break
		}

		n := d.pcm.Consume(out[done*2:], int(want))
		done += n
		st.played += int64(n)
	}

	return done, nil
}
