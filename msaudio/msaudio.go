// SPDX-License-Identifier: EPL-2.0

package msaudio

import (
	"fmt"
	"math/bits"

	"github.com/ik5/vgmpbx/bytesrc"
	ibits "github.com/ik5/vgmpbx/internal/bits"
)

// Version is the bitstream family.
type Version uint8

const (
	XMA1 Version = iota + 1
	XMA2
	WMAPro
)

func (v Version) String() string {
	switch v {
	case XMA1:
		return "XMA1"
	case XMA2:
		return "XMA2"
	case WMAPro:
		return "WMAPro"
	}

	return "unknown"
}

const (
	// PacketSize is the XMA packet size.
	PacketSize = 2048
	// SamplesPerFrame is the XMA frame length.
	SamplesPerFrame = 512
	// SamplesPerSubframe is the XMA loop granularity.
	SamplesPerSubframe = 128

	xmaFrameSizeBits = 15
	maxSkip          = 512
	fullSkip         = 0x800
)

// Params is what the container tells about the bitstream.
type Params struct {
	Version    Version
	Channels   int
	SampleRate int

	// WMAPro only
	BlockAlign  int
	DecodeFlags int

	// LoopStartBit and LoopEndBit are bit offsets from the start of the
	// data; the subframe indices refine them to 128 samples.
	LoopFlag          bool
	LoopStartBit      int64
	LoopEndBit        int64
	LoopStartSubframe int
	LoopEndSubframe   int
}

// Result holds the sample positions recovered from the bitstream.
type Result struct {
	NumSamples int64
	// Looping is set when both loop bit offsets matched a frame start.
	Looping   bool
	LoopStart int64
	LoopEnd   int64
	StartSkip int
	EndSkip   int
	Frames    int64
}

// packet is one packet owned by the stream, in bit offsets from the start
// of the data.
type packet struct {
	data  int64 // first bit after the header
	end   int64
	first int64 // first frame, relative to data
	full  bool  // no frame starts here
}

type walker struct {
	buf       []byte
	p         Params
	frameBits uint
	spf       int64
	packets   []packet
}

// Parse walks size bytes at off and counts frames.
func Parse(src bytesrc.Source, off, size int64, p Params) (Result, error) {
	if size <= 0 || off+size > src.Size() {
		size = src.Size() - off
	}

	buf, ok := bytesrc.ReadFull(src, off, int(size))
	if !ok || len(buf) == 0 {
		return Result{}, fmt.Errorf("%w: 0x%x bytes at 0x%x", ErrShortData, size, off)
	}

	w := &walker{buf: buf, p: p}
	if err := w.setup(); err != nil {
		return Result{}, err
	}
	w.scanPackets()

	return w.walk(), nil
}

func (w *walker) setup() error {
	switch w.p.Version {
	case XMA1, XMA2:
		w.frameBits = xmaFrameSizeBits
		w.spf = SamplesPerFrame

	case WMAPro:
		if w.p.BlockAlign <= 0 {
			return fmt.Errorf("%w: block align %d", ErrBadParams, w.p.BlockAlign)
		}
		if w.p.DecodeFlags&0x40 == 0 {
			return fmt.Errorf("%w: WMAPro frames without length prefix", ErrUnsupported)
		}
		w.frameBits = uint(bits.Len(uint(w.p.BlockAlign))-1) + 4
		w.spf = 1 << frameLenBits(w.p.SampleRate, w.p.DecodeFlags)

	default:
		return fmt.Errorf("%w: version %d", ErrBadParams, w.p.Version)
	}

	if w.p.Channels < 1 {
		return fmt.Errorf("%w: %d channels", ErrBadParams, w.p.Channels)
	}

	return nil
}

// frameLenBits is the WMA version 3 frame length for a rate and flags.
func frameLenBits(rate, flags int) uint {
	var n uint
	switch {
	case rate <= 16000:
		n = 9
	case rate <= 22050:
		n = 10
	case rate <= 48000:
		n = 11
	case rate <= 96000:
		n = 12
	default:
		n = 13
	}

	switch flags & 0x6 {
	case 0x2:
		n++
	case 0x4:
		n--
	case 0x6:
		n -= 2
	}

	return n
}

func (w *walker) read(pos int64, width uint) uint32 {
	if pos < 0 || width == 0 {
		return 0
	}

	return ibits.ReadBE(w.buf, uint64(pos), width)
}

// scanPackets reads every header and keeps the packets of the first
// stream.
func (w *walker) scanPackets() {
	size := int64(PacketSize)
	if w.p.Version == WMAPro {
		size = int64(w.p.BlockAlign)
	}
	total := int64(len(w.buf)) / size

	for i := int64(0); i < total; {
		off := i * size * 8

		var header, first, skip int64
		switch w.p.Version {
		case XMA1:
			header = 32
			first = int64(w.read(off+6, 15))
			skip = int64(w.read(off+21, 11))
			if skip&0x700 == 0x100 {
				// XMA2 packets in an XMA1 container
				skip &^= 0x100
			}
			if skip == 0x7ff {
				skip = fullSkip
			}

		case XMA2:
			header = 32
			first = int64(w.read(off+6, 15))
			skip = int64(w.read(off+24, 8))
			if skip == 0xff {
				skip = fullSkip
			}

		case WMAPro:
			header = 6 + int64(w.frameBits)
			first = int64(w.read(off+6, w.frameBits))
		}

		pk := packet{data: off + header, end: off + size*8, first: first}
		if skip == fullSkip {
			pk.full = true
			skip = 0
		}
		w.packets = append(w.packets, pk)

		i += 1 + skip
	}
}

// cursor is a bit position in the logical stream that hops packet headers.
type cursor struct {
	w   *walker
	pkt int
	pos int64
}

func (c *cursor) valid() bool { return c.pkt < len(c.w.packets) }

func (c *cursor) normalize() {
	for c.valid() && c.pos >= c.w.packets[c.pkt].end {
		over := c.pos - c.w.packets[c.pkt].end
		c.pkt++
		if c.valid() {
			c.pos = c.w.packets[c.pkt].data + over
		}
	}
}

func (c *cursor) read(width uint) uint32 {
	var v uint32
	for width > 0 && c.valid() {
		n := uint(min(int64(width), c.w.packets[c.pkt].end-c.pos))
		v = v<<n | c.w.read(c.pos, n)
		c.pos += int64(n)
		width -= n
		c.normalize()
	}

	return v << width
}

func (c *cursor) skip(n int64) {
	c.pos += n
	c.normalize()
}

func (w *walker) walk() Result {
	var res Result
	var frames int64
	var loopStart, loopEnd int64 = -1, -1
	firstFrame, lastFrame := cursor{w: w, pkt: -1}, cursor{w: w, pkt: -1}
	allOnes := uint32(1)<<w.frameBits - 1

	for i, pk := range w.packets {
		if pk.full {
			continue
		}

		c := cursor{w: w, pkt: i, pos: pk.data + pk.first}
		for c.pkt == i && c.pos < pk.end {
			start := c

			if w.p.LoopFlag {
				if c.pos == w.p.LoopStartBit {
					loopStart = frames
				}
				if c.pos == w.p.LoopEndBit {
					loopEnd = frames
				}
			}

			// padding ends the packet; the next one restarts at its
			// first frame
			size := c.read(w.frameBits)
			if size == 0 || size == allOnes {
				break
			}

			frames++
			if firstFrame.pkt < 0 {
				firstFrame = start
			}
			lastFrame = start

			c = start
			c.skip(int64(size))
		}
	}

	res.Frames = frames

	if w.p.Version == WMAPro {
		// the first frame only primes the overlap
		res.NumSamples = max(0, frames-1) * w.spf
		if loopStart >= 0 && loopEnd >= 0 {
			res.LoopStart = max(0, loopStart-1) * w.spf
			res.LoopEnd = min(max(0, loopEnd-1)*w.spf, res.NumSamples)
			res.Looping = res.LoopStart < res.LoopEnd
		}
		return res
	}

	if firstFrame.pkt >= 0 {
		res.StartSkip, _ = w.skips(firstFrame)
		_, res.EndSkip = w.skips(lastFrame)
	}

	res.NumSamples = max(0, frames*w.spf-int64(res.StartSkip)-int64(res.EndSkip))

	if loopStart >= 0 && loopEnd >= 0 {
		ls := loopStart*w.spf + int64(w.p.LoopStartSubframe)*SamplesPerSubframe - int64(res.StartSkip)
		le := loopEnd*w.spf + int64(w.p.LoopEndSubframe)*SamplesPerSubframe - SamplesPerSubframe - int64(res.StartSkip)
		if le > res.NumSamples {
			le -= int64(res.EndSkip)
		}

		res.LoopStart = max(0, ls)
		res.LoopEnd = min(le, res.NumSamples)
		res.Looping = res.LoopStart < res.LoopEnd
	}

	return res
}

// skips reads the start and end skip of the frame at c.
func (w *walker) skips(c cursor) (start, end int) {
	c.skip(int64(w.frameBits))
	c.skip(15) // tile header

	if w.p.Channels > 1 {
		if c.read(1) == 1 {
			if c.read(1) == 1 {
				c.skip(4 * int64(w.p.Channels))
			}
		}
	}

	if c.read(1) == 0 {
		return 0, 0
	}
	if c.read(1) == 1 {
		start = int(c.read(10))
	}
	if c.read(1) == 1 {
		end = int(c.read(10))
	}

	if start >= maxSkip {
		start = 0
	}
	if end >= maxSkip {
		end = 0
	}

	return start, end
}
