// SPDX-License-Identifier: EPL-2.0

// Package vgmpbx decodes streamed game audio into 16-bit PCM.
//
// Decoding is two steps. Probe identifies the container of a byte source
// and returns an [audio.Blueprint] with everything needed to play it: the
// codec, channel count, sample rate, length, loop region and where each
// channel's data lives. Open turns a blueprint into a [layout.Session],
// which renders interleaved int16 frames, follows the loop and seeks.
//
// # Quick Start
//
//	src, _ := bytesrc.OpenFile("bgm_01.fsb")
//	defer src.Close()
//
//	bp, err := vgmpbx.Probe(src, audio.ProbeOptions{Subsong: 2})
//	if err != nil {
//	    return err
//	}
//	defer bp.Close()
//
//	s, err := vgmpbx.Open(bp)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	buf := make([]int16, 4096*bp.Channels)
//	res := s.Render(buf, 4096)
//
// DecodeAll does all of this in one call and collects the output.
//
// # Supported Formats
//
// Probers run in registry order: formats with a unique signature first,
// then formats recognized by extension and header shape, then guessers.
//
//   - FMOD FSB5 banks, with subsongs and names
//   - RIFF WAVE (PCM, float, MS-ADPCM, IMA, XBOX-IMA) and XMA/xWMA
//   - AIFF and AIFC
//   - Sony VAG, CompressWave, tri-Ace TAC, Relic WXH/WXD, Maxis UTK
//   - EA WVE, Hudson H4M, Konami VAS, Ubisoft ADPCM
//   - Nintendo DSP, including split left/right files
//   - a table of small headered ADPCM formats (see formats/simple)
//   - MPEG audio and Ogg Vorbis through external backends
//   - headerless PS-ADPCM dumps
//
// # External Codecs
//
// Codecs that are not decoded by the core (MPEG, Vorbis, XMA, Opus, ...)
// go through an [audio.Externals] table. NewExternals fills it with the
// backends this module ships; opening a stream whose backend is missing
// fails with [audio.ErrNoExternalCodec].
package vgmpbx
