// SPDX-License-Identifier: EPL-2.0

package audio

// CodecID is the stable tag a prober puts in a Blueprint to select the
// decoder.
type CodecID uint16

const (
	CodecUnknown CodecID = iota
	PsxAdpcm
	PsxAdpcmBadFlags
	PsxAdpcmCfg
	DspAdpcm
	XboxIma
	MsAdpcm
	Ima
	Pcm8
	Pcm8u
	Pcm16Le
	Pcm16Be
	Pcm24Le
	PcmFloat
	Fadpcm
	Dsa
	DpcmKcej
	Tantalus
	Tgc
	Xmd
	Wady
	EaXa
	EaMt
	EaXas
	Imuse
	BlitzIma
	CircusAdpcm
	MtfIma
	Oki4s
	RefIma
	OkiDvi
	Hevag
	AcmInterplay
	CompressWave
	Tac
	Relic
	UbiAdpcm
	External
	MsIma
)

var codecNames = map[CodecID]string{
	CodecUnknown:     "unknown",
	PsxAdpcm:         "PSX 4-bit ADPCM",
	PsxAdpcmBadFlags: "PSX 4-bit ADPCM (bad flags)",
	PsxAdpcmCfg:      "PSX 4-bit ADPCM (configurable)",
	DspAdpcm:         "Nintendo DSP 4-bit ADPCM",
	XboxIma:          "XBOX 4-bit IMA ADPCM",
	MsAdpcm:          "Microsoft 4-bit ADPCM",
	Ima:              "IMA 4-bit ADPCM",
	Pcm8:             "8-bit PCM",
	Pcm8u:            "8-bit unsigned PCM",
	Pcm16Le:          "16-bit little endian PCM",
	Pcm16Be:          "16-bit big endian PCM",
	Pcm24Le:          "24-bit little endian PCM",
	PcmFloat:         "32-bit float PCM",
	Fadpcm:           "FMOD FADPCM 4-bit ADPCM",
	Dsa:              "Ocean DSA 4-bit ADPCM",
	DpcmKcej:         "Konami KCEJ DPCM",
	Tantalus:         "Tantalus 4-bit ADPCM",
	Tgc:              "Tiger Game.com 4-bit ADPCM",
	Xmd:              "Konami XMD 4-bit ADPCM",
	Wady:             "Marble WADY 8-bit DPCM",
	EaXa:             "Electronic Arts EA-XA 4-bit ADPCM",
	EaMt:             "Electronic Arts MicroTalk",
	EaXas:            "Electronic Arts EA-XAS 4-bit ADPCM",
	Imuse:            "LucasArts iMUSE VIMA",
	BlitzIma:         "Blitz Games 4-bit IMA ADPCM",
	CircusAdpcm:      "Circus 8-bit ADPCM",
	MtfIma:           "MT Framework 4-bit IMA ADPCM",
	Oki4s:            "OKI 4-bit ADPCM (4-shift)",
	RefIma:           "Reflections 4-bit IMA ADPCM",
	OkiDvi:           "OKI 4-bit ADPCM (DVI)",
	Hevag:            "Sony HEVAG 4-bit ADPCM",
	AcmInterplay:     "InterPlay ACM",
	CompressWave:     "CompressWave huffman ADPCM",
	Tac:              "tri-Ace Codec",
	Relic:            "Relic Codec",
	UbiAdpcm:         "Ubisoft 4/6-bit ADPCM",
	External:         "external",
	MsIma:            "Microsoft 4-bit IMA ADPCM",
}

func (c CodecID) String() string {
	if name, ok := codecNames[c]; ok {
		return name
	}

	return "unknown"
}

// ExternalKind selects an ExternalCodec backend.
type ExternalKind uint8

const (
	ExtNone ExternalKind = iota
	ExtMpeg
	ExtVorbis
	ExtOpus
	ExtAac
	ExtAtrac3
	ExtAtrac9
	ExtSpeex
	ExtCelt
	ExtXma
	ExtWmaPro
	ExtFFmpeg
)

var externalNames = [...]string{
	ExtNone:   "none",
	ExtMpeg:   "MPEG",
	ExtVorbis: "Ogg Vorbis",
	ExtOpus:   "Opus",
	ExtAac:    "AAC",
	ExtAtrac3: "ATRAC3",
	ExtAtrac9: "ATRAC9",
	ExtSpeex:  "Speex",
	ExtCelt:   "CELT",
	ExtXma:    "XMA",
	ExtWmaPro: "WMAPro",
	ExtFFmpeg: "FFmpeg",
}

func (k ExternalKind) String() string {
	if int(k) < len(externalNames) {
		return externalNames[k]
	}

	return "unknown"
}
