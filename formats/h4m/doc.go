// SPDX-License-Identifier: EPL-2.0

// Package h4m probes Hudson H4M audio tracks.
//
// A 0x10 byte big-endian header (magic, first frame offset, channels,
// sample rate) is followed by interleaved video and audio frames, each with
// an 8-byte type and size header. Every audio frame restarts the IMA
// decoder of each channel from the history and step stored in it.
package h4m
