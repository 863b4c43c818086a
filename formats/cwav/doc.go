// SPDX-License-Identifier: EPL-2.0

// Package cwav probes CompressWave files. The header carries the
// difference table and the huffman weights the decoder is built from; the
// coded stream starts at 0x948 and always plays as 44.1 kHz stereo.
package cwav
