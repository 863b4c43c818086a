// SPDX-License-Identifier: EPL-2.0

// Package dsp probes standard Nintendo DSP files: a 0x60 byte big-endian
// header with the coefficients and initial history, followed by 8-byte
// ADPCM frames.
//
// Stereo music is often shipped as two mono files whose names differ only
// in a channel tag before the extension, such as bgm(L).dsp and
// bgm(R).dsp. Opening either side plays both, left first.
package dsp
