// SPDX-License-Identifier: EPL-2.0

// Package psxraw guesses headerless PS-ADPCM. It only runs for files named
// .raw or .psx and accepts them when the leading frame headers look sane.
// The stream is taken as mono at 44100 Hz.
package psxraw
