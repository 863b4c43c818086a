// SPDX-License-Identifier: EPL-2.0

package adpcm

var imaSteps = [89]int32{
	7, 8, 9, 10, 11, 12, 13, 14, 16, 17, 19, 21, 23, 25, 28, 31, 34,
	37, 41, 45, 50, 55, 60, 66, 73, 80, 88, 97, 107, 118, 130, 143,
	157, 173, 190, 209, 230, 253, 279, 307, 337, 371, 408, 449, 494,
	544, 598, 658, 724, 796, 876, 963, 1060, 1166, 1282, 1411, 1552,
	1707, 1878, 2066, 2272, 2499, 2749, 3024, 3327, 3660, 4026,
	4428, 4871, 5358, 5894, 6484, 7132, 7845, 8630, 9493, 10442,
	11487, 12635, 13899, 15289, 16818, 18500, 20350, 22385, 24623,
	27086, 29794, 32767,
}

var imaIndexAdjust = [16]int32{
	-1, -1, -1, -1, 2, 4, 6, 8,
	-1, -1, -1, -1, 2, 4, 6, 8,
}

var okiSteps = [49]int32{
	16, 17, 19, 21, 23, 25, 28, 31, 34, 37, 41, 45, 50, 55, 60, 66,
	73, 80, 88, 97, 107, 118, 130, 143, 157, 173, 190, 209, 230, 253,
	279, 307, 337, 371, 408, 449, 494, 544, 598, 658, 724, 796, 876,
	963, 1060, 1166, 1282, 1411, 1552,
}

// PS-ADPCM filters, in 1/64 units. Entries past 4 come from later
// hardware and show up in a few PS3 streams.
var psxCoefs = [16][2]float64{
	{0.0, 0.0},
	{60.0 / 64.0, 0.0},
	{115.0 / 64.0, -52.0 / 64.0},
	{98.0 / 64.0, -55.0 / 64.0},
	{122.0 / 64.0, -60.0 / 64.0},
	{30.0 / 64.0, 0.0},
	{57.5 / 64.0, -26.0 / 64.0},
	{49.0 / 64.0, -27.5 / 64.0},
	{61.0 / 64.0, -30.0 / 64.0},
	{15.0 / 64.0, 0.0},
	{28.75 / 64.0, -13.0 / 64.0},
	{24.5 / 64.0, -13.75 / 64.0},
	{30.5 / 64.0, -15.0 / 64.0},
	{0.0, 0.0},
	{0.0, 0.0},
	{0.0, 0.0},
}

var msAdaptation = [16]int32{
	230, 230, 230, 230, 307, 409, 512, 614,
	768, 614, 512, 409, 307, 230, 230, 230,
}

var msCoefs = [7][2]int32{
	{256, 0},
	{512, -256},
	{0, 0},
	{192, 64},
	{240, 0},
	{460, -208},
	{392, -232},
}

// FADPCM has seven filters; the index is taken modulo 7.
var fadpcmCoefs = [8][2]int32{
	{0, 0},
	{60, 0},
	{122, 60},
	{115, 52},
	{98, 55},
	{0, 0},
	{0, 0},
	{0, 0},
}

var dsaCoefs = [16]int32{
	0x0, 0x1999, 0x3333, 0x4CCC,
	0x6666, 0x8000, 0x9999, 0xB333,
	0xCCCC, 0xE666, 0x10000, 0x11999,
	0x13333, 0x18000, 0x1CCCC, 0x21999,
}

// EA-XA filters in 1/256 units: first the coef1 column, then coef2.
var eaxaCoefs = [8]int32{0, 240, 460, 392, 0, 0, -208, -220}

// Game.com slope bases and the four step scales they are multiplied by.
var (
	tgcBase   = [16]int32{0, 1, 2, 4, 6, 9, 13, 18, 0, -1, -2, -4, -6, -9, -13, -18}
	tgcScales = [4]int32{1, 2, 4, 8}
	tgcSlopes = func() (t [4][16]int32) {
		for s := range tgcScales {
			for c := range tgcBase {
				t[s][c] = tgcBase[c] * tgcScales[s]
			}
		}
		return t
	}()
)

// WADY delta magnitudes, scaled per stream.
var wadySteps = [64]int32{
	0, 2, 4, 6, 8, 10, 12, 15,
	18, 21, 24, 28, 32, 36, 40, 44,
	49, 54, 59, 64, 70, 76, 82, 88,
	95, 102, 109, 116, 124, 132, 140, 148,
	157, 166, 175, 184, 194, 204, 214, 224,
	235, 246, 257, 268, 280, 292, 304, 316,
	329, 342, 355, 368, 382, 396, 410, 424,
	439, 454, 469, 484, 500, 516, 532, 548,
}
