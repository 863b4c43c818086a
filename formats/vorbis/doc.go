// SPDX-License-Identifier: EPL-2.0

// Package vorbis probes Ogg Vorbis files and decodes them as an external
// backend.
//
// The prober reads the identification header for channels and sample rate,
// the granule position of the last page for the length, and the comment
// header for the title and the LOOPSTART / LOOPLENGTH (or LOOPEND) tags
// that game rips carry.
//
// Open is the audio.ExternalFactory for audio.ExtVorbis. It decodes with
// github.com/jfreymuth/oggvorbis and seeks with its SetPosition.
package vorbis
