// SPDX-License-Identifier: EPL-2.0

// Package tac decodes tri-Ace TAC streams: range coded spectra in CRC
// protected frames, packed into fixed-size blocks.
package tac

import (
	"encoding/binary"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
)

const (
	frameHeaderSize = 12
	blockEnd        = 0xFFFFFFFF
	flagBit         = 0x8000
)

// Decoder owns one TAC stream and outputs interleaved stereo frames.
type Decoder struct {
	src bytesrc.Source
	hdr Header
	tab *Tables
	log audio.Logger

	block    []byte
	blockLen int
	blockIdx int64
	cursor   int

	frameNum int
	carry    [Channels][bands]int32
	hist     [Channels][frameVecs]vec

	rc    rangeDecoder
	heads [bands]int32
	coefs [bands * bandCoefs]int32
	spec  [frameVecs]vec
	tmp   [frameVecs]vec
	waves [Channels][frameVecs]vec

	pcm     *audio.SampleBuffer
	discard int
	played  int64

	// Skipped counts frames dropped for a bad CRC or id.
	Skipped int
}

// New parses the header and tables of src.
func New(src bytesrc.Source, log audio.Logger) (*Decoder, error) {
	if log == nil {
		log = audio.NopLogger
	}

	hdr, err := ParseHeader(src)
	if err != nil {
		return nil, err
	}
	if err := hdr.Validate(src.Size()); err != nil {
		return nil, err
	}

	tab, err := ParseTables(src, int64(hdr.HuffmanOffset))
	if err != nil {
		return nil, err
	}

	d := &Decoder{
		src:   src,
		hdr:   hdr,
		tab:   tab,
		log:   log,
		block: make([]byte, BlockSize),
		pcm:   audio.NewSampleBuffer(Channels, FrameSamples),
	}
	d.Reset()

	return d, nil
}

// Header returns the parsed stream header.
func (d *Decoder) Header() Header { return d.hdr }

// Reset rewinds to the first frame of the first block.
func (d *Decoder) Reset() error {
	d.resetState()
	d.played = 0
	d.frameNum = 0
	d.loadBlock(0)

	return nil
}

func (d *Decoder) resetState() {
	for c := range d.carry {
		for i := range bands {
			d.carry[c][i] = int32(d.tab.Huff2[c][i])
		}
	}
	d.hist = [Channels][frameVecs]vec{}
	d.pcm.SetFilled(0)
	d.discard = 0
}

// Seek jumps to the loop frame natively when asked for the loop start and
// decodes from the beginning otherwise.
func (d *Decoder) Seek(sample int64) error {
	if start, ok := d.hdr.LoopStart(); ok && sample == start {
		d.resetState()
		d.frameNum = int(d.hdr.LoopFrame) - 1
		d.loadBlock(int64(d.hdr.LoopOffset) / BlockSize)
		d.discard = int(d.hdr.LoopDiscard)
		d.played = sample

		return nil
	}

	d.Reset()

	var scratch [FrameSamples * Channels]int16
	for sample > 0 {
		n, _ := d.Decode(scratch[:], int(min(sample, FrameSamples)))
		if n == 0 {
			break
		}
		sample -= int64(n)
	}

	return nil
}

// Close is a no-op; the source belongs to the caller.
func (d *Decoder) Close() error { return nil }

// loadBlock reads block idx and points the cursor at its first frame.
func (d *Decoder) loadBlock(idx int64) bool {
	d.blockIdx = idx
	d.blockLen, d.cursor = 0, 0

	off := idx * BlockSize
	if off >= d.src.Size() {
		return false
	}

	n, _ := d.src.ReadAt(d.block, off)
	d.blockLen = n
	if idx == 0 {
		d.cursor = int(d.hdr.HuffmanOffset) + tablesSize
	}

	return n > 0
}

// nextFrame decodes one frame into pcm. It returns false at the end of the
// stream.
func (d *Decoder) nextFrame() bool {
	for {
		if d.frameNum >= int(d.hdr.FrameCount) {
			return false
		}

		if d.cursor+4 > d.blockLen || binary.LittleEndian.Uint32(d.block[d.cursor:]) == blockEnd {
			if !d.loadBlock(d.blockIdx + 1) {
				return false
			}
			continue
		}

		// crc, flag and size, id, count, initial code word; size counts
		// the bytes after the first eight
		b := d.block[d.cursor:d.blockLen]
		if len(b) < frameHeaderSize {
			d.cursor = d.blockLen
			continue
		}

		sizeFlag := binary.LittleEndian.Uint16(b[2:])
		size := int(sizeFlag &^ flagBit)
		if size < frameHeaderSize-8 || 8+size > len(b) {
			d.log.Debugf("tac: frame %d: bad size 0x%x, skipping block %d", d.frameNum, size, d.blockIdx)
			d.cursor = d.blockLen
			continue
		}
		d.cursor += 8 + size

		id := binary.LittleEndian.Uint16(b[4:])
		if crc16(b[4:8+size]) != binary.BigEndian.Uint16(b) || id != uint16(d.frameNum) {
			d.log.Debugf("tac: frame %d: bad crc or id %d, skipped", d.frameNum, id)
			d.Skipped++
			d.silentFrame()
			return true
		}

		count := int(binary.LittleEndian.Uint16(b[6:]))
		code := binary.BigEndian.Uint32(b[8:])
		d.rc.reset(code, b[frameHeaderSize:8+size])
		d.decodeFrame(sizeFlag&flagBit != 0, count)

		return true
	}
}

func (d *Decoder) silentFrame() {
	d.hist = [Channels][frameVecs]vec{}
	clear(d.pcm.Space())
	d.finishFrame()
}

func (d *Decoder) finishFrame() {
	d.frameNum++
	d.pcm.SetFilled(FrameSamples)
	d.pcm.Discard(d.discard)
	d.discard = 0
}

func (d *Decoder) decodeFrame(delta bool, count int) {
	coded := min(max(count-bands, 0), len(d.coefs))

	for c := range Channels {
		clear(d.coefs[:])

		if count >= bands {
			for i := range bands {
				v := d.head()
				if delta {
					v += d.carry[c][i]
				}
				d.carry[c][i] = v
				d.heads[i] = v
			}

			for i := range coded {
				d.coefs[i] = int32(d.rc.decode(d.tab.Huff1[:], d.tab.huff4)) - 128
			}
		}

		unpackChannel(&d.spec, &d.heads, d.coefs[:coded])
		transform(&d.spec, &d.tmp)
		process(&d.spec, &d.hist[c], &d.waves[c])
	}

	out := d.pcm.Space()
	l, r := &d.waves[0], &d.waves[1]
	for i := range frameVecs {
		for lane := range 4 {
			lv, rv := l[i][lane], r[i][lane]
			if d.hdr.JointStereo == 1 {
				lv, rv = lv+rv, lv-rv
			}
			at := (i*4 + lane) * Channels
			out[at] = toPCM(lv)
			out[at+1] = toPCM(rv)
		}
	}

	d.finishFrame()
}

func (d *Decoder) head() int32 {
	sym := d.rc.decode(d.tab.Huff3[:], nil)
	if sym < 256 {
		return int32(sym) - 128
	}

	hi := d.rc.decode(d.tab.Huff1[:], d.tab.huff4)
	lo := d.rc.decode(d.tab.Huff1[:], d.tab.huff4)

	return int32(int16(hi<<8 | lo))
}

// Decode writes up to samples stereo frames to out.
func (d *Decoder) Decode(out []int16, samples int) (int, error) {
	total := d.hdr.NumSamples()

	done := 0
	for done < samples && d.played < total {
		if d.pcm.Filled() == 0 {
			if !d.nextFrame() {
				break
			}
			continue
		}

		n := d.pcm.Consume(out[done*Channels:], min(samples-done, int(total-d.played)))
		if n == 0 {
			break
		}

		done += n
		d.played += int64(n)
	}

	return done, nil
}
