// SPDX-License-Identifier: EPL-2.0

package tac

import "sort"

const rangeTop = 1 << 24

// rangeDecoder reads symbols against cumulative frequency tables.
type rangeDecoder struct {
	buf  []byte
	pos  int
	code uint32
	rng  uint32
}

// reset starts decoding payload with the frame's initial code word.
func (r *rangeDecoder) reset(code uint32, payload []byte) {
	r.buf, r.pos = payload, 0
	r.code, r.rng = code, 0xFFFFFFFF
}

func (r *rangeDecoder) next() uint32 {
	if r.pos >= len(r.buf) {
		return 0
	}
	b := r.buf[r.pos]
	r.pos++

	return uint32(b)
}

// decode returns the next symbol of cum. lookup, when set, maps a
// cumulative value straight to its symbol.
func (r *rangeDecoder) decode(cum []uint16, lookup []uint8) int {
	total := uint32(cum[len(cum)-1])

	q := r.rng / total
	v := r.code / q
	if v >= total {
		v = total - 1
	}

	var sym int
	if lookup != nil {
		sym = int(lookup[v])
	} else {
		sym = sort.Search(len(cum)-1, func(i int) bool { return uint32(cum[i+1]) > v })
	}

	r.code -= q * uint32(cum[sym])
	r.rng = q * uint32(cum[sym+1]-cum[sym])

	for r.rng < rangeTop {
		r.code = r.code<<8 | r.next()
		r.rng <<= 8
	}

	return sym
}
