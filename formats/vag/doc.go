// SPDX-License-Identifier: EPL-2.0

// Package vag probes Sony VAGp files: a 0x30 byte big-endian header in
// front of PS-ADPCM frames.
//
// Files are mono unless the byte at 0x1e is 2, in which case the two
// channels alternate in 0x800 byte blocks. The loop comes from the frame
// flags of the first channel.
package vag
