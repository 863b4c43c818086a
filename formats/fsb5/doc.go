// SPDX-License-Identifier: EPL-2.0

// Package fsb5 probes FMOD sound banks (FSB5).
//
// A bank holds several subsongs sharing one codec mode. Each subsong has a
// packed 64-bit header (rate index, channel code, data offset and sample
// count) optionally followed by extra chunks that override the channel
// count or rate, add a loop or carry per-channel DSP coefficients. Names
// come from an optional name table between the headers and the data.
package fsb5
