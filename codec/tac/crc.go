// SPDX-License-Identifier: EPL-2.0

package tac

// crcTable is CRC-16/GENIBUS: polynomial 0x1021, MSB first.
var crcTable = func() (t [256]uint16) {
	for i := range t {
		c := uint16(i) << 8
		for range 8 {
			if c&0x8000 != 0 {
				c = c<<1 ^ 0x1021
			} else {
				c <<= 1
			}
		}
		t[i] = c
	}

	return t
}()

func crc16(b []byte) uint16 {
	c := uint16(0xFFFF)
	for _, v := range b {
		c = c<<8 ^ crcTable[byte(c>>8)^v]
	}

	return ^c
}
