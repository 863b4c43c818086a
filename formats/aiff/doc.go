// SPDX-License-Identifier: EPL-2.0

// Package aiff probes AIFF (Audio Interchange File Format) files.
//
// The COMM chunk is read with github.com/go-audio/aiff; the prober then
// walks the chunks itself to find where the SSND samples start, so the
// engine can read them in place.
//
// # Supported Formats
//
//   - AIFF, 8-bit signed and 16-bit big endian PCM
//   - AIFC with compression NONE or twos (big endian) and sowt (little
//     endian)
//   - Any number of channels and any sample rate
//
// The INST sustain loop, resolved through the MARK chunk, becomes the loop
// region.
package aiff
