// SPDX-License-Identifier: EPL-2.0

// Package ubiadpcm probes raw Ubisoft 4/6-bit ADPCM streams, which start
// with the codec's own 0x30 byte header.
package ubiadpcm
