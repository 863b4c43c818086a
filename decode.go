// SPDX-License-Identifier: EPL-2.0

package vgmpbx

import (
	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/layout"
)

// decodeChunk is how many frames DecodeAll renders per call.
const decodeChunk = 4096

// DecodeAll probes src and renders it into one interleaved buffer.
//
// maxSamples bounds the output in frames. When it is 0 or negative the
// stream is rendered once without looping, otherwise looping streams repeat
// until maxSamples frames are out. The rendered length is never longer
// than a non-looping stream.
func DecodeAll(src bytesrc.Source, opts audio.ProbeOptions, maxSamples int64) ([]int16, audio.Info, error) {
	bp, err := Probe(src, opts)
	if err != nil {
		return nil, audio.Info{}, err
	}
	defer bp.Close()

	info := bp.Info()

	total := bp.NumSamples
	looping := maxSamples > 0 && bp.Looping()
	switch {
	case looping:
		total = maxSamples
	case maxSamples > 0:
		total = min(total, maxSamples)
	}

	s, err := Open(bp, layout.WithLogger(opts.Log()), layout.WithLooping(looping))
	if err != nil {
		return nil, info, err
	}
	defer s.Close()

	ch := bp.Channels
	pcm16 := make([]int16, 0, min(total, 1<<20)*int64(ch))
	buf := make([]int16, decodeChunk*ch)

	for done := int64(0); done < total; {
		n := int(min(decodeChunk, total-done))

		// short reads inside the stream come back as silence and count
		res := s.Render(buf, n)
		if res.Status == audio.StatusOK {
			res.Samples = n
		}
		pcm16 = append(pcm16, buf[:res.Samples*ch]...)
		done += int64(res.Samples)

		if res.Status != audio.StatusOK {
			if res.Status == audio.StatusDecoderFailed {
				opts.Log().Warnf("%s: stopped after %d of %d samples", info.Format, done, total)
			}
			break
		}
	}

	return pcm16, info, nil
}
