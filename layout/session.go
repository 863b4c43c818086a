// SPDX-License-Identifier: EPL-2.0

package layout

import (
	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/codec"
)

const scratchFrames = 1024

// Session plays one blueprint. It is not safe for concurrent use; separate
// sessions over the same blueprint are independent.
type Session struct {
	bp  *audio.Blueprint
	opt options

	frames *framePlayer
	stream codec.StreamDecoder

	played  int64
	failed  bool
	snap    *frameSnapshot
	scratch []int16
}

// New opens a session. Errors are *audio.OpenError.
func New(bp *audio.Blueprint, opts ...Option) (*Session, error) {
	s := &Session{bp: bp, opt: newOptions(opts)}

	if err := bp.Validate(); err != nil {
		return nil, &audio.OpenError{Codec: bp.Codec, Err: err}
	}

	if isFrameCodec(bp.Codec) {
		p, err := newFramePlayer(bp)
		if err != nil {
			return nil, &audio.OpenError{Codec: bp.Codec, Err: err}
		}
		s.frames = p
	} else {
		if bp.Layout.Kind != audio.LayoutNone && bp.Layout.Kind != audio.LayoutFlat {
			return nil, &audio.OpenError{Codec: bp.Codec, Err: ErrBadParams}
		}

		d, err := openStream(bp, s.opt)
		if err != nil {
			return nil, &audio.OpenError{Codec: bp.Codec, Err: err}
		}
		s.stream = d
	}

	s.scratch = make([]int16, scratchFrames*bp.Channels)
	s.skipDelay()

	return s, nil
}

func (s *Session) loop() *audio.LoopRegion {
	if !s.opt.looping {
		return nil
	}

	return s.bp.Loop
}

// delay is the number of samples dropped after every reset.
func (s *Session) delay() int64 {
	d := s.bp.EncoderDelay
	if sk, ok := s.stream.(codec.Skipper); ok {
		d += sk.SkipSamples()
	}

	return d
}

func (s *Session) decode(out []int16, samples int) (int, error) {
	if s.frames != nil {
		return s.frames.decode(out, samples), nil
	}

	return s.stream.Decode(out, samples)
}

// discard decodes n samples into scratch.
func (s *Session) discard(n int64) {
	for n > 0 {
		got, err := s.decode(s.scratch, int(min(n, scratchFrames)))
		if err != nil {
			s.fail(err)
			return
		}
		if got == 0 {
			return
		}
		n -= int64(got)
	}
}

func (s *Session) fail(err error) {
	s.opt.log.Warnf("%s: decoder failed at sample %d: %v", s.bp.Codec, s.played, err)
	s.failed = true
}

func (s *Session) reset() {
	s.failed = false
	if s.frames != nil {
		s.frames.reset()
	} else if err := s.stream.Reset(); err != nil {
		s.fail(err)
	}
}

func (s *Session) skipDelay() {
	if d := s.delay(); d > 0 {
		s.discard(d)
	}
}

// seekTo moves the decoders to stream sample at, leaving played untouched.
func (s *Session) seekTo(at int64) {
	if sk, ok := s.stream.(codec.Seeker); ok {
		s.failed = false
		if err := sk.Seek(at + s.delay()); err != nil {
			s.fail(err)
		}
		return
	}

	s.reset()
	s.skipDelay()
	s.discard(at)
}

// Render fills out with samples interleaved frames. Past the end of the
// stream, after a decoder failure or on a short read the rest is silence.
func (s *Session) Render(out []int16, samples int) audio.RenderResult {
	ch := s.bp.Channels
	samples = max(0, min(samples, len(out)/ch))

	res := audio.RenderResult{Status: audio.StatusOK}
	done := 0

	for done < samples {
		if s.failed {
			audio.Silence(out[done*ch:], samples-done, ch)
			res.Status = audio.StatusDecoderFailed
			break
		}

		loop := s.loop()
		limit := s.bp.NumSamples

		if loop != nil {
			limit = loop.End
			if s.played >= loop.End {
				s.jumpToLoop(loop)
				continue
			}
			if s.played == loop.Start && s.frames != nil && s.snap == nil {
				s.snap = s.frames.snapshot()
			}
		}

		if s.played >= limit {
			audio.Silence(out[done*ch:], samples-done, ch)
			res.Status = audio.StatusEnd
			break
		}

		n := int(min(int64(samples-done), limit-s.played))
		if loop != nil && s.played < loop.Start {
			n = int(min(int64(n), loop.Start-s.played))
		}

		got, err := s.decode(out[done*ch:], n)
		if err != nil {
			s.fail(err)
		}

		res.Samples += got
		s.played += int64(got)
		done += got

		if got < n && !s.failed {
			// the data ran out before the declared length
			s.opt.log.Debugf("%s: short decode at sample %d (%d of %d)", s.bp.Codec, s.played, got, n)
			audio.Silence(out[done*ch:], n-got, ch)
			s.played += int64(n - got)
			done += n - got
		}
	}

	return res
}

func (s *Session) jumpToLoop(loop *audio.LoopRegion) {
	if s.snap != nil {
		s.frames.restore(s.snap)
		s.failed = false
	} else {
		s.seekTo(loop.Start)
	}

	s.played = loop.Start
}

// Seek moves playback to sample. Positions past the loop end of a looping
// session wrap into the loop; others clamp to the stream.
func (s *Session) Seek(sample int64) {
	sample = max(0, sample)

	if loop := s.loop(); loop != nil && sample >= loop.End {
		sample = loop.Start + (sample-loop.Start)%(loop.End-loop.Start)
	}
	sample = min(sample, s.bp.NumSamples)

	if !s.failed && sample >= s.played {
		s.discard(sample - s.played)
		s.played = sample

		return
	}

	if loop := s.loop(); loop != nil && s.snap != nil && sample >= loop.Start {
		s.frames.restore(s.snap)
		s.failed = false
		s.played = loop.Start
		s.discard(sample - loop.Start)
		s.played = sample

		return
	}

	s.seekTo(sample)
	s.played = sample
}

// Position is the next sample Render produces.
func (s *Session) Position() int64 { return s.played }

func (s *Session) Info() audio.Info {
	info := s.bp.Info()
	if !s.opt.looping {
		info.Loop = nil
	}

	return info
}

// Close releases the decoder. The blueprint stays with the caller.
func (s *Session) Close() error {
	if s.stream != nil {
		return s.stream.Close()
	}

	return nil
}
