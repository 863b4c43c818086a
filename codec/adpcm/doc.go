// SPDX-License-Identifier: EPL-2.0

// Package adpcm holds the frame decoders of the ADPCM and DPCM families:
// PS-ADPCM and its variants, Nintendo DSP, the IMA family (plain, MS,
// XBOX, Reflections, MT Framework, Blitz, OKI), MS-ADPCM, FMOD FADPCM,
// EA-XA/XAS and a handful of single-game codecs.
//
// Every decoder works on fixed-size frames, so the layout engine can place
// them flat, interleaved or inside blocks. A decoder built for several
// lanes reads frames that hold one sub-frame per channel back to back.
package adpcm
