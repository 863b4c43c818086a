// SPDX-License-Identifier: EPL-2.0

package layout

import (
	"encoding/binary"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/codec"
)

// block is one parsed container block.
type block struct {
	offsets []int64
	samples int64
	next    int64

	// initial decoder state per channel, when the block carries one
	hist []int32
	step []int32
}

// blockReader parses the block at off. It reports false at the end of the
// stream.
type blockReader func(src bytesrc.Source, off int64, channels int, dec codec.FrameDecoder) (block, bool)

func blockReaderFor(kind audio.BlockedKind) (blockReader, bool) {
	switch kind {
	case audio.BlockedEAWVEAd10:
		return readAd10, true
	case audio.BlockedEAWVEAu00:
		return readAu00, true
	case audio.BlockedH4M:
		return readH4M, true
	case audio.BlockedVAS:
		return readVAS, true
	}

	return nil, false
}

func stripes(off, header, payload int64, channels int) []int64 {
	size := payload / int64(channels)
	offsets := make([]int64, channels)
	for c := range offsets {
		offsets[c] = off + header + int64(c)*size
	}

	return offsets
}

// eaChunks walks EA WVE chunks (BE id, BE size including the 8-byte
// header) until one with an audio id.
func eaChunks(src bytesrc.Source, off int64, ids ...string) (int64, int64, bool) {
	for off+8 <= src.Size() {
		size, ok := bytesrc.U32BE(src, off+4)
		if !ok || size < 8 {
			return 0, 0, false
		}

		for _, id := range ids {
			if bytesrc.IsID(src, off, id) {
				return off, int64(size), true
			}
		}

		off += int64(size)
	}

	return 0, 0, false
}

// readAd10 parses "Ad10"/"Ad11" chunks: PSX data split in equal channel
// stripes after the 8-byte header.
func readAd10(src bytesrc.Source, off int64, channels int, dec codec.FrameDecoder) (block, bool) {
	at, size, ok := eaChunks(src, off, "Ad10", "Ad11")
	if !ok {
		return block{}, false
	}

	payload := size - 8
	return block{
		offsets: stripes(at, 8, payload, channels),
		samples: codec.BytesToSamples(dec, payload/int64(channels)),
		next:    at + size,
	}, true
}

// readAu00 parses "AU00"/"AU01" chunks: a BE sample count at 0x08, then
// EA-XA channel stripes after 0x10.
func readAu00(src bytesrc.Source, off int64, channels int, _ codec.FrameDecoder) (block, bool) {
	at, size, ok := eaChunks(src, off, "AU00", "AU01")
	if !ok || size < 0x10 {
		return block{}, false
	}

	samples, _ := bytesrc.U32BE(src, at+0x08)

	return block{
		offsets: stripes(at, 0x10, size-0x10, channels),
		samples: int64(samples),
		next:    at + size,
	}, true
}

// H4M frames carry a BE type, a reserved BE half and the BE payload size.
// Only audio frames are decoded; video frames are stepped over.
const (
	h4mFrameHeader = 8
	h4mAudioFrame  = 2
)

// readH4M walks frames from off to the next audio frame. Its payload holds a
// BE sample count, per channel a BE history, a step index and a pad byte,
// then IMA channel stripes.
func readH4M(src bytesrc.Source, off int64, channels int, _ codec.FrameDecoder) (block, bool) {
	hdr := 4 + 4*int64(channels)

	for off+h4mFrameHeader <= src.Size() {
		b, ok := bytesrc.ReadFull(src, off, h4mFrameHeader)
		if !ok {
			return block{}, false
		}

		kind := binary.BigEndian.Uint16(b)
		body := off + h4mFrameHeader
		size := int64(binary.BigEndian.Uint32(b[4:]))
		next := body + size
		if size == 0 || next > src.Size() {
			return block{}, false
		}

		off = next
		if kind != h4mAudioFrame || size <= hdr {
			continue
		}

		a, ok := bytesrc.ReadFull(src, body, int(hdr))
		if !ok {
			return block{}, false
		}

		samples := int64(binary.BigEndian.Uint32(a))
		if samples == 0 {
			continue
		}

		blk := block{
			offsets: stripes(body, hdr, size-hdr, channels),
			samples: samples,
			next:    next,
			hist:    make([]int32, channels),
			step:    make([]int32, channels),
		}
		for c := range channels {
			blk.hist[c] = int32(int16(binary.BigEndian.Uint16(a[4+4*c:])))
			blk.step[c] = int32(min(a[4+4*c+2], 88))
		}

		return blk, true
	}

	return block{}, false
}

// readVAS parses a LE block size, a LE per-channel size and 8 reserved
// bytes, then PSX channel stripes.
func readVAS(src bytesrc.Source, off int64, channels int, dec codec.FrameDecoder) (block, bool) {
	b, ok := bytesrc.ReadFull(src, off, 8)
	if !ok {
		return block{}, false
	}

	size := int64(binary.LittleEndian.Uint32(b))
	per := int64(binary.LittleEndian.Uint32(b[4:]))
	if size <= 0x10 || per <= 0 || 0x10+per*int64(channels) > size {
		return block{}, false
	}

	offsets := make([]int64, channels)
	for c := range offsets {
		offsets[c] = off + 0x10 + int64(c)*per
	}

	return block{
		offsets: offsets,
		samples: codec.BytesToSamples(dec, per),
		next:    off + size,
	}, true
}
