// SPDX-License-Identifier: EPL-2.0

// Package mp3 probes MPEG audio streams and decodes them as an external
// backend.
//
// The prober skips an ID3v2 tag, looks for two consecutive frames with
// matching headers and counts frames to the end of the stream. The
// blueprint uses audio.External with audio.ExtMpeg, so other containers
// carrying MPEG (FSB5 mode 11, for one) share the same backend.
//
// # Backends
//
// Open is the audio.ExternalFactory registered for audio.ExtMpeg:
//
//   - Layer III of MPEG-1, 2 and 2.5 goes through
//     github.com/hajimehoshi/go-mp3. Output is always stereo and seeking
//     is native.
//   - MPEG-1 Layer II goes through github.com/gen2brain/mpeg. Seeking
//     decodes from the start.
//
// Layer I streams are reported as unsupported.
package mp3
