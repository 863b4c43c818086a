// SPDX-License-Identifier: EPL-2.0

// Package codec defines the decoder contracts shared by the codec packages.
//
// There are two kinds of decoders:
//
//   - FrameDecoder: small fixed-size frames (ADPCM and PCM variants). The
//     layout engine decides where each channel's frames are and asks the
//     decoder for a run of samples inside one frame. Per-channel history
//     lives in a State owned by the engine, so a snapshot of the states is
//     enough to return to a loop point.
//   - StreamDecoder: codecs that need the whole stream (CompressWave, TAC,
//     Relic, MicroTalk, Ubisoft ADPCM and external backends). They produce
//     interleaved frames for every channel at once.
//
// # Frame positions
//
// A FrameDecoder gets the sample position counted from the start of the
// channel's current block and walks the frames of the run with EachFrame:
//
//	codec.EachFrame(spf, pos, todo, func(frame, first, n, done int) {
//		off := st.Offset + int64(frame*d.FrameBytes())
//		...
//	})
//
// Frames that start with their own history (MS-ADPCM, FADPCM, XBOX-IMA, ...)
// are decoded whole and the requested run is copied out. Frames that
// continue the previous history (PSX, DSP, ...) decode only the run.
//
// # Errors
//
// Frame decoders never fail: bytes past the end of a source read as zero,
// which decodes to silence or to a decaying tail. Stream decoders return an
// error only when they cannot produce anything more; a single bad frame is
// replaced with silence inside the decoder.
package codec
