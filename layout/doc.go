// SPDX-License-Identifier: EPL-2.0

// Package layout turns a blueprint into interleaved 16-bit PCM.
//
// A Session pulls samples through the decoder the blueprint names and
// applies the container framing, the encoder delay, the loop region and
// seeks. Render always fills the requested number of frames; the result
// tells how many came from the decoder:
//
//	s, err := layout.New(bp, layout.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	buf := make([]int16, 4096*bp.Channels)
//	for {
//		res := s.Render(buf, 4096)
//		write(buf[:res.Samples*bp.Channels])
//		if res.Status != audio.StatusOK {
//			break
//		}
//	}
//
// # Scheduling
//
// Frame codecs (PCM and the ADPCM family) are driven by the engine:
//
//   - Flat: every channel reads one stream; multi-channel frames are split
//     by lane.
//   - Interleave: fixed blocks per channel, with an optional larger first
//     block after a skipped header and a shorter last block.
//   - Blocked: container blocks parsed by a block reader (EA WVE Ad10 and
//     AU00, H4M, VAS) that positions each channel and may seed its history.
//
// A run of samples never crosses a block end. Stream codecs (CompressWave,
// TAC, Relic, MicroTalk, Ubisoft ADPCM and external backends) use layout
// None and produce every channel themselves.
//
// # Loops and seeks
//
// When playback first reaches the loop start, the engine snapshots the
// channel states and the layout cursor of a frame codec; reaching the loop
// end restores it. Stream codecs jump with their native Seek when they have
// one and decode from the start otherwise. Seek forward decodes and drops
// the samples in between; Seek backward resets first. Either way the output
// after a seek matches a linear decode.
//
// # Errors
//
// New reports problems as *audio.OpenError. Render never fails: a decoder
// error is logged, the status becomes StatusDecoderFailed and the session
// outputs silence until the next Seek.
package layout
