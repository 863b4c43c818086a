// SPDX-License-Identifier: EPL-2.0

package audiotest

import "encoding/binary"

// Chunk is a RIFF chunk: id, little-endian size, body and a pad byte for
// odd sizes.
func Chunk(id string, body []byte) []byte {
	b := binary.LittleEndian.AppendUint32([]byte(id), uint32(len(body)))
	b = append(b, body...)
	if len(body)%2 == 1 {
		b = append(b, 0)
	}

	return b
}

// RIFF wraps chunks in a RIFF header of the given form type.
func RIFF(form string, chunks ...[]byte) []byte {
	body := []byte(form)
	for _, c := range chunks {
		body = append(body, c...)
	}

	return Chunk("RIFF", body)
}

// Fmt is a 16-byte WAVEFORMAT body.
func Fmt(tag, channels, rate, align, bits int) []byte {
	b := binary.LittleEndian.AppendUint16(nil, uint16(tag))
	b = binary.LittleEndian.AppendUint16(b, uint16(channels))
	b = binary.LittleEndian.AppendUint32(b, uint32(rate))
	b = binary.LittleEndian.AppendUint32(b, uint32(rate*align))
	b = binary.LittleEndian.AppendUint16(b, uint16(align))
	b = binary.LittleEndian.AppendUint16(b, uint16(bits))

	return b
}

// Smpl is a smpl chunk body with one loop; end is inclusive.
func Smpl(start, end uint32) []byte {
	b := make([]byte, 0x24+0x18)
	binary.LittleEndian.PutUint32(b[0x1c:], 1)
	binary.LittleEndian.PutUint32(b[0x2c:], start)
	binary.LittleEndian.PutUint32(b[0x30:], end)

	return b
}

// PCM16 is interleaved samples as little-endian bytes.
func PCM16(samples []int16) []byte {
	b := make([]byte, 0, 2*len(samples))
	for _, s := range samples {
		b = binary.LittleEndian.AppendUint16(b, uint16(s))
	}

	return b
}
