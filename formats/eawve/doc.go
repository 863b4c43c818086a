// SPDX-License-Identifier: EPL-2.0

// Package eawve probes EA WVE videos for their audio track.
//
// The file is a sequence of big-endian chunks (id, size including the
// 8-byte header) after an AABB header. Audio lives in Ad10/Ad11 chunks
// (PS-ADPCM, mono/stereo) or AU00/AU01 chunks (EA-XA with a sample count);
// the channel data of each chunk is split in equal stripes. Any other
// chunk is video and skipped.
package eawve
