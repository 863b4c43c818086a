// SPDX-License-Identifier: EPL-2.0

package simple

import (
	"encoding/binary"

	"github.com/ik5/vgmpbx/audio"
)

// Field is a header value: read from Off with Width bytes (1, 2 or 4), or
// the constant Value when Width is 0.
type Field struct {
	Off   int64
	Width int
	Value int64
}

func u8(off int64) Field  { return Field{Off: off, Width: 1} }
func u16(off int64) Field { return Field{Off: off, Width: 2} }
func u32(off int64) Field { return Field{Off: off, Width: 4} }
func fixed(v int64) Field { return Field{Value: v} }

// set reports whether the field was declared at all.
func (f Field) set() bool { return f.Width > 0 || f.Value != 0 }

// Format is a declarative header description.
type Format struct {
	Name  string
	Magic string
	Order binary.ByteOrder
	Codec audio.CodecID

	Channels   Field
	SampleRate Field
	// Start is the offset of the first frame.
	Start Field
	// DataSize is the size of all channel data; unset means up to the end
	// of the file.
	DataSize Field
	// NumSamples overrides the length computed from the data size.
	NumSamples Field
	LoopStart  Field
	LoopEnd    Field
	// Interleave is the per-channel block size; unset means the channels
	// share every frame.
	Interleave Field
	FrameSize  Field
	Scale      Field

	// Require lists fields that must hold their Value.
	Require []Field
}

// Formats is every table-driven format, in probing order.
var Formats = []Format{
	{
		Name: "Ocean DSA", Magic: "DSA\x1a", Order: binary.LittleEndian, Codec: audio.Dsa,
		Channels: u16(0x04), SampleRate: u32(0x08), DataSize: u32(0x0c),
		LoopStart: u32(0x10), LoopEnd: u32(0x14), Start: fixed(0x20),
	},
	{
		Name: "Konami KCEJ DPCM", Magic: "KCEJ", Order: binary.BigEndian, Codec: audio.DpcmKcej,
		Channels: u16(0x04), SampleRate: u32(0x08), DataSize: u32(0x0c),
		LoopStart: u32(0x10), LoopEnd: u32(0x14), Start: fixed(0x20),
	},
	{
		Name: "Tantalus", Magic: "TNTL", Order: binary.LittleEndian, Codec: audio.Tantalus,
		Channels: u8(0x04), SampleRate: u32(0x08), NumSamples: u32(0x0c), Start: fixed(0x10),
	},
	{
		Name: "Tiger Game.com", Magic: "TGC\x00", Order: binary.LittleEndian, Codec: audio.Tgc,
		Channels: fixed(1), SampleRate: u16(0x04), DataSize: u32(0x08), Start: fixed(0x10),
	},
	{
		Name: "Konami XMD", Magic: "xmd\x00", Order: binary.LittleEndian, Codec: audio.Xmd,
		Channels: u8(0x04), FrameSize: u8(0x05), SampleRate: u16(0x06), NumSamples: u32(0x08),
		LoopStart: u32(0x0c), LoopEnd: u32(0x10), Start: fixed(0x20),
	},
	{
		Name: "Marble WADY", Magic: "WADY", Order: binary.LittleEndian, Codec: audio.Wady,
		Scale: u8(0x05), Channels: u16(0x06), SampleRate: u32(0x08), NumSamples: u32(0x14),
		LoopStart: u32(0x18), LoopEnd: u32(0x1c), Start: fixed(0x30),
	},
	{
		Name: "Konami KCES", Magic: "KCES", Order: binary.LittleEndian, Codec: audio.PsxAdpcm,
		Start: u32(0x04), DataSize: u32(0x08), SampleRate: u32(0x0c), Channels: u32(0x10),
		Interleave: u32(0x14), LoopStart: u32(0x18), LoopEnd: u32(0x1c),
	},
	{
		Name: "PSX ADPCM (configurable)", Magic: "PXCF", Order: binary.LittleEndian, Codec: audio.PsxAdpcmCfg,
		Channels: u8(0x04), FrameSize: u8(0x05), SampleRate: u32(0x08), DataSize: u32(0x0c),
		Interleave: u32(0x10), Start: fixed(0x20),
	},
	{
		Name: "PSX ADPCM (bad flags)", Magic: "PSXB", Order: binary.BigEndian, Codec: audio.PsxAdpcmBadFlags,
		Channels: u16(0x04), SampleRate: u32(0x08), DataSize: u32(0x0c), Interleave: u32(0x10),
		LoopStart: u32(0x14), LoopEnd: u32(0x18), Start: fixed(0x800),
	},
	{
		Name: "EA-XAS", Magic: "XAS1", Order: binary.BigEndian, Codec: audio.EaXas,
		Channels: u8(0x04), SampleRate: u32(0x08), NumSamples: u32(0x0c),
		LoopStart: u32(0x10), LoopEnd: u32(0x14), Start: fixed(0x20),
	},
	{
		Name: "OKI ADPCM (4-shift)", Magic: "OKI4", Order: binary.LittleEndian, Codec: audio.Oki4s,
		Channels: u16(0x04), SampleRate: u32(0x08), DataSize: u32(0x0c), Start: fixed(0x10),
	},
	{
		Name: "OKI ADPCM (DVI)", Magic: "OKID", Order: binary.LittleEndian, Codec: audio.OkiDvi,
		Channels: u16(0x04), SampleRate: u32(0x08), DataSize: u32(0x0c), Start: fixed(0x10),
	},
	{
		Name: "Blitz Games IMA", Magic: "BLTZ", Order: binary.LittleEndian, Codec: audio.BlitzIma,
		Channels: u16(0x04), SampleRate: u32(0x08), DataSize: u32(0x0c), Start: fixed(0x20),
	},
	{
		Name: "MT Framework IMA", Magic: "MTFI", Order: binary.BigEndian, Codec: audio.MtfIma,
		Channels: u16(0x04), SampleRate: u32(0x08), NumSamples: u32(0x0c),
		LoopStart: u32(0x10), LoopEnd: u32(0x14), Start: fixed(0x20),
	},
	{
		Name: "Reflections IMA", Magic: "RIMA", Order: binary.LittleEndian, Codec: audio.RefIma,
		Channels: u16(0x04), FrameSize: u16(0x06), SampleRate: u32(0x08), DataSize: u32(0x0c),
		Start: fixed(0x20),
	},
	{
		Name: "Circus XPCM", Magic: "XPCM", Order: binary.LittleEndian, Codec: audio.CircusAdpcm,
		Require: []Field{{Off: 0x08, Width: 1, Value: 2}},
		Scale:   u8(0x09), Channels: u16(0x0e), SampleRate: u32(0x10), DataSize: u32(0x04),
		Start: fixed(0x1c),
	},
}
