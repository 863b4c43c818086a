// SPDX-License-Identifier: EPL-2.0

// Package xma probes RIFF containers of Microsoft console codecs.
//
// Three header variants are read: the XMAWAVEFORMAT of XMA1 (fmt tag
// 0x0165), the XMA2WAVEFORMATEX (tag 0x0166) and the big-endian XMA2 chunk
// of early tools. WMAPro comes in WAVE or XWMA forms with tag 0x0162.
//
// Sample counts, the XMA1 loop and the encoder skips are recovered from the
// bitstream with msaudio.Parse. The blueprint points at audio.ExtXma or
// audio.ExtWmaPro; decoding needs a backend registered for that kind.
package xma
