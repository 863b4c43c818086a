// SPDX-License-Identifier: EPL-2.0

// Package vas probes Konami VAS streams: a 0x20 byte little-endian header
// with the block start, rate, channel count and loop samples, then blocks
// of PS-ADPCM channel data.
package vas
