// SPDX-License-Identifier: EPL-2.0

package layout

import (
	"fmt"
	"math"
	"slices"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/codec"
	"github.com/ik5/vgmpbx/codec/adpcm"
	"github.com/ik5/vgmpbx/codec/pcm"
)

// cursor is the position of the frame player inside the layout.
type cursor struct {
	index   int64 // block number
	off     int64 // container offset of a blocked layout's block
	first   int64 // stream sample where the block starts
	samples int64 // length of the block
	pos     int64 // next sample inside the block
	ended   bool
}

type frameSnapshot struct {
	states []codec.State
	cur    cursor
}

// framePlayer drives a FrameDecoder through a flat, interleaved or blocked
// layout.
type framePlayer struct {
	bp     *audio.Blueprint
	dec    codec.FrameDecoder
	shared bool
	states []codec.State
	cur    cursor

	// interleave block samples
	blockSamples, firstSamples, lastSamples int64
	total                                   int64

	readBlock blockReader
}

func frameDecoder(bp *audio.Blueprint, lanes int) (codec.FrameDecoder, error) {
	switch {
	case pcm.Supports(bp.Codec):
		return pcm.New(bp.Codec, lanes)
	case adpcm.Supports(bp.Codec):
		return adpcm.New(bp.Codec, bp.FrameSize, lanes)
	}

	return nil, fmt.Errorf("%w: %s", ErrNoDecoder, bp.Codec)
}

// isFrameCodec reports whether the codec is scheduled by the engine.
func isFrameCodec(id audio.CodecID) bool {
	return pcm.Supports(id) || adpcm.Supports(id)
}

// sharedStream reports whether every channel reads the same bytes, so one
// decoder call per channel picks its lane out of a common frame.
func sharedStream(bp *audio.Blueprint) bool {
	if bp.Layout.Kind != audio.LayoutFlat {
		return false
	}
	if len(bp.ChannelCfgs) == 1 {
		return true
	}

	first := bp.ChannelCfgs[0]
	for _, c := range bp.ChannelCfgs[1:] {
		if c.Source != first.Source || c.StartOffset != first.StartOffset {
			return false
		}
	}

	return true
}

func newFramePlayer(bp *audio.Blueprint) (*framePlayer, error) {
	shared := sharedStream(bp)
	lanes := 1
	if shared {
		lanes = bp.Channels
	}

	dec, err := frameDecoder(bp, lanes)
	if err != nil {
		return nil, err
	}

	p := &framePlayer{
		bp:     bp,
		dec:    dec,
		shared: shared,
		states: make([]codec.State, bp.Channels),
		total:  bp.NumSamples + bp.EncoderDelay,
	}

	switch bp.Layout.Kind {
	case audio.LayoutFlat:
		if !shared && len(bp.ChannelCfgs) != bp.Channels {
			return nil, fmt.Errorf("%w: %d channel sources for %d channels", ErrBadParams, len(bp.ChannelCfgs), bp.Channels)
		}

	case audio.LayoutInterleave:
		l := bp.Layout
		p.blockSamples = codec.BytesToSamples(dec, l.BlockSize)
		p.firstSamples = p.blockSamples
		if l.FirstBlockSize > 0 {
			p.firstSamples = codec.BytesToSamples(dec, l.FirstBlockSize)
		}
		p.lastSamples = p.blockSamples
		if l.LastBlockSize > 0 {
			p.lastSamples = codec.BytesToSamples(dec, l.LastBlockSize)
		}
		if p.blockSamples <= 0 || p.firstSamples <= 0 || p.lastSamples <= 0 {
			return nil, fmt.Errorf("%w: interleave 0x%x holds no %s frame", ErrBadParams, l.BlockSize, bp.Codec)
		}

	case audio.LayoutBlocked:
		rd, ok := blockReaderFor(bp.Layout.Blocked)
		if !ok {
			return nil, fmt.Errorf("%w: blocked layout %s", ErrBadParams, bp.Layout.Blocked)
		}
		p.readBlock = rd

	default:
		return nil, fmt.Errorf("%w: %s cannot use layout %s", ErrBadParams, bp.Codec, bp.Layout)
	}

	p.reset()

	return p, nil
}

func (p *framePlayer) cfg(c int) audio.ChannelCfg {
	if c < len(p.bp.ChannelCfgs) {
		return p.bp.ChannelCfgs[c]
	}

	return p.bp.ChannelCfgs[0]
}

func (p *framePlayer) reset() {
	for c := range p.states {
		p.states[c] = codec.NewState(p.cfg(c))
	}

	p.cur = cursor{}
	p.enterBlock()
}

// enterBlock positions every channel at block p.cur.index.
func (p *framePlayer) enterBlock() {
	switch p.bp.Layout.Kind {
	case audio.LayoutFlat:
		p.cur.samples = math.MaxInt64 / 2

	case audio.LayoutInterleave:
		p.enterInterleave()

	case audio.LayoutBlocked:
		if p.cur.index == 0 {
			p.cur.off = p.cfg(0).StartOffset
		}

		blk, ok := p.readBlock(p.cfg(0).Source, p.cur.off, p.bp.Channels, p.dec)
		if !ok {
			p.cur.ended = true
			return
		}

		for c := range p.states {
			p.states[c].Offset = blk.offsets[c]
			if blk.hist != nil {
				p.states[c].Hist1 = blk.hist[c]
				p.states[c].StepIndex = blk.step[c]
			}
		}
		p.cur.samples = blk.samples
		p.cur.off = blk.next
	}
}

func (p *framePlayer) enterInterleave() {
	l := p.bp.Layout
	ch := int64(p.bp.Channels)
	b := p.cur.index

	fbs := l.FirstBlockSize
	if fbs <= 0 {
		fbs = l.BlockSize
	}

	if b == 0 {
		for c := range p.states {
			p.states[c].Offset = p.cfg(c).StartOffset
		}
		p.cur.samples = p.firstSamples

		return
	}

	last := l.LastBlockSize > 0 && p.cur.first+p.blockSamples > p.total
	p.cur.samples = p.blockSamples
	if last {
		p.cur.samples = p.lastSamples
	}

	for c := range p.states {
		ci := int64(c)
		off := p.cfg(c).StartOffset + fbs*(ch-ci) + l.FirstSkip*(ch-ci-1) + l.BlockSize*ci + (b-1)*l.BlockSize*ch
		if last {
			off = off - ci*l.BlockSize + ci*l.LastBlockSize
		}
		p.states[c].Offset = off
	}
}

func (p *framePlayer) nextBlock() bool {
	p.cur.first += p.cur.samples
	p.cur.index++
	p.cur.pos = 0
	p.enterBlock()

	return !p.cur.ended
}

// decode writes up to samples interleaved frames. Runs never cross a block
// end.
func (p *framePlayer) decode(out []int16, samples int) int {
	ch := p.bp.Channels
	done := 0

	for done < samples && !p.cur.ended {
		if p.cur.pos >= p.cur.samples {
			if !p.nextBlock() {
				break
			}
			continue
		}

		todo := int(min(int64(samples-done), p.cur.samples-p.cur.pos))
		for c := range p.states {
			lane := 0
			if p.shared {
				lane = c
			}
			p.dec.Decode(&p.states[c], lane, out[done*ch+c:], ch, int(p.cur.pos), todo)
		}

		p.cur.pos += int64(todo)
		done += todo
	}

	return done
}

func (p *framePlayer) snapshot() *frameSnapshot {
	return &frameSnapshot{states: slices.Clone(p.states), cur: p.cur}
}

func (p *framePlayer) restore(s *frameSnapshot) {
	copy(p.states, s.states)
	p.cur = s.cur
}
