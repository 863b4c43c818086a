// SPDX-License-Identifier: EPL-2.0

package eamt

import "slices"

const (
	modelNormal = iota
	modelLarge
)

// command is one entry of the excitation code: a pulse of a fixed value,
// a run of zeros or an escape to a large pulse.
type command struct {
	next  int
	size  int
	pulse float32
}

// Commands 0 and 1 escape to a pulse of 7 or more, 2 and 3 insert a run
// of zeros and the rest are pulses of their listed value.
var commands = [29]command{
	{modelLarge, 8, 0},
	{modelLarge, 7, 0},
	{modelNormal, 8, 0},
	{modelNormal, 7, 0},
	{modelNormal, 2, 0},
	{modelNormal, 2, -1},
	{modelNormal, 2, +1},
	{modelNormal, 3, -1},
	{modelNormal, 3, +1},
	{modelLarge, 4, -2},
	{modelLarge, 4, +2},
	{modelLarge, 3, -2},
	{modelLarge, 3, +2},
	{modelLarge, 5, -3},
	{modelLarge, 5, +3},
	{modelLarge, 4, -3},
	{modelLarge, 4, +3},
	{modelLarge, 6, -4},
	{modelLarge, 6, +4},
	{modelLarge, 5, -4},
	{modelLarge, 5, +4},
	{modelLarge, 7, -5},
	{modelLarge, 7, +5},
	{modelLarge, 6, -5},
	{modelLarge, 6, +5},
	{modelLarge, 8, -6},
	{modelLarge, 8, +6},
	{modelLarge, 7, -6},
	{modelLarge, 7, +6},
}

// modelCommands lists the commands each model can code. Both sets fill
// the code space exactly.
var modelCommands = [2][]int{
	modelNormal: {0, 2, 4, 5, 6, 9, 10, 13, 14, 17, 18, 21, 22, 25, 26},
	modelLarge:  {1, 3, 4, 7, 8, 11, 12, 15, 16, 19, 20, 23, 24, 27, 28},
}

// codebooks map the next 8 bits of the stream, first bit lowest, to a
// command.
var codebooks = func() (cb [2][256]uint8) {
	for m, cmds := range modelCommands {
		cmds = slices.Clone(cmds)
		slices.SortStableFunc(cmds, func(a, b int) int {
			return commands[a].size - commands[b].size
		})

		code, prevSize := 0, 0
		for _, c := range cmds {
			size := commands[c].size
			code <<= size - prevSize
			prevSize = size

			var rev int
			for i := range size {
				rev |= (code >> (size - 1 - i) & 1) << i
			}
			for hi := range 1 << (8 - size) {
				cb[m][rev|hi<<size] = uint8(c)
			}

			code++
		}
	}

	return cb
}()

// rcTable maps a 6-bit index to a reflection coefficient.
var rcTable = [64]float32{
	0, -0.99677598, -0.99032700, -0.98387903,
	-0.97743100, -0.97098202, -0.96453398, -0.95808500,
	-0.95163703, -0.93075401, -0.90495998, -0.87916702,
	-0.85337299, -0.82757902, -0.80178601, -0.77599198,
	-0.75019801, -0.72440499, -0.69861102, -0.67063499,
	-0.61904800, -0.56746000, -0.51587301, -0.46428600,
	-0.41269800, -0.36111099, -0.30952400, -0.25793701,
	-0.20634900, -0.15476200, -0.10317500, -0.05158700,
	0, 0.05158700, 0.10317500, 0.15476200,
	0.20634900, 0.25793701, 0.30952400, 0.36111099,
	0.41269800, 0.46428600, 0.51587301, 0.56746000,
	0.61904800, 0.67063499, 0.69861102, 0.72440499,
	0.75019801, 0.77599198, 0.80178601, 0.82757902,
	0.85337299, 0.87916702, 0.90495998, 0.93075401,
	0.95163703, 0.95808500, 0.96453398, 0.97098202,
	0.97743100, 0.98387903, 0.99032700, 0.99677598,
}

// interpolation filter for reduced bandwidth streams
var interp = [3]float32{0.018032679, -0.114591561, 0.597385943}
