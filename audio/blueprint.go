// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	"github.com/ik5/vgmpbx/bytesrc"
)

// LayoutKind tells the engine how channel data is arranged in the stream.
type LayoutKind uint8

const (
	// LayoutFlat is a single stream consumed sequentially. Multi-channel
	// codecs read every channel from the same offset.
	LayoutFlat LayoutKind = iota
	// LayoutInterleave alternates fixed-size blocks, one per channel.
	LayoutInterleave
	// LayoutBlocked has container blocks with their own headers.
	LayoutBlocked
	// LayoutNone leaves stream consumption to the decoder.
	LayoutNone
)

func (k LayoutKind) String() string {
	switch k {
	case LayoutFlat:
		return "flat"
	case LayoutInterleave:
		return "interleave"
	case LayoutBlocked:
		return "blocked"
	case LayoutNone:
		return "none"
	}

	return "unknown"
}

// BlockedKind selects the block header parser of a blocked layout.
type BlockedKind uint8

const (
	BlockedNone BlockedKind = iota
	BlockedEAWVEAd10
	BlockedEAWVEAu00
	BlockedH4M
	BlockedVAS
)

func (k BlockedKind) String() string {
	switch k {
	case BlockedEAWVEAd10:
		return "EA WVE Ad10"
	case BlockedEAWVEAu00:
		return "EA WVE AU00"
	case BlockedH4M:
		return "H4M"
	case BlockedVAS:
		return "VAS"
	}

	return "none"
}

// Layout describes the container framing around coded frames.
type Layout struct {
	Kind LayoutKind

	// interleave
	BlockSize      int64
	FirstBlockSize int64
	FirstSkip      int64
	LastBlockSize  int64

	// blocked
	Blocked BlockedKind
}

func (l Layout) String() string {
	switch l.Kind {
	case LayoutInterleave:
		return fmt.Sprintf("interleave (0x%x)", l.BlockSize)
	case LayoutBlocked:
		return "blocked (" + l.Blocked.String() + ")"
	}

	return l.Kind.String()
}

// LoopRegion is a [Start, End) sample range.
type LoopRegion struct {
	Start int64
	End   int64
}

// Subsong is the 1-based position of the selected stream in its container.
type Subsong struct {
	Index int
	Count int
}

// ChannelCfg is where one channel's data lives and how its decoder starts.
type ChannelCfg struct {
	Source      bytesrc.Source
	StartOffset int64

	// DSP
	Coefs     [16]int16
	Hist1     int16
	Hist2     int16
	PredScale int16

	Extradata []byte
}

// Blueprint is the result of probing: everything a session needs to decode
// one stream. It is not modified after the prober returns it.
type Blueprint struct {
	Format     string
	Channels   int
	SampleRate int
	NumSamples int64
	Loop       *LoopRegion

	Codec    CodecID
	External ExternalKind
	Layout   Layout

	Subsong    *Subsong
	StreamName string
	StreamSize int64

	// EncoderDelay samples are dropped after every reset.
	EncoderDelay int64
	// FrameSize is the codec frame or block size in bytes, for codecs where
	// it varies per stream (MS-ADPCM, XMD, PSX-cfg, ...).
	FrameSize int

	ChannelCfgs []ChannelCfg

	// CodecParams carries typed per-codec configuration built by the prober
	// (for example a relic.Config). Extradata is the raw per-stream blob.
	CodecParams any
	Extradata   []byte
}

// Looping reports whether the blueprint has a loop region.
func (b *Blueprint) Looping() bool { return b.Loop != nil }

// Validate checks the structural invariants every prober must honor.
func (b *Blueprint) Validate() error {
	switch {
	case b.Channels < 1:
		return fmt.Errorf("%w: %d channels", ErrInvalidBlueprint, b.Channels)
	case b.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidBlueprint, b.SampleRate)
	case b.NumSamples <= 0:
		return fmt.Errorf("%w: %d samples", ErrInvalidBlueprint, b.NumSamples)
	case len(b.ChannelCfgs) == 0:
		return fmt.Errorf("%w: no channel sources", ErrInvalidBlueprint)
	}

	if l := b.Loop; l != nil {
		if l.Start < 0 || l.Start >= l.End || l.End > b.NumSamples {
			return fmt.Errorf("%w: loop %d..%d outside 0..%d", ErrInvalidBlueprint, l.Start, l.End, b.NumSamples)
		}
	}

	if b.Layout.Kind == LayoutInterleave {
		if b.Layout.BlockSize <= 0 {
			return fmt.Errorf("%w: interleave block size %d", ErrInvalidBlueprint, b.Layout.BlockSize)
		}
		if len(b.ChannelCfgs) != b.Channels {
			return fmt.Errorf("%w: %d channel sources for %d channels", ErrInvalidBlueprint, len(b.ChannelCfgs), b.Channels)
		}
	}

	for i, c := range b.ChannelCfgs {
		if c.Source == nil {
			return fmt.Errorf("%w: channel %d has no source", ErrInvalidBlueprint, i)
		}
		if c.StartOffset < 0 || c.StartOffset > c.Source.Size() {
			return fmt.Errorf("%w: channel %d starts at 0x%x past end 0x%x", ErrInvalidBlueprint, i, c.StartOffset, c.Source.Size())
		}
	}

	return nil
}

// Info summarizes the blueprint for callers.
func (b *Blueprint) Info() Info {
	info := Info{
		Format:     b.Format,
		SampleRate: b.SampleRate,
		Channels:   b.Channels,
		NumSamples: b.NumSamples,
		Codec:      b.Codec.String(),
		Layout:     b.Layout.String(),
		StreamName: b.StreamName,
		StreamSize: b.StreamSize,
	}

	if b.Codec == External {
		info.Codec = b.External.String()
	}
	if b.Loop != nil {
		loop := *b.Loop
		info.Loop = &loop
	}
	if b.Subsong != nil {
		info.Subsong = b.Subsong.Index
		info.SubsongCount = b.Subsong.Count
	}

	return info
}

// Close releases the channel sources. Each ChannelCfg holds its own
// reference.
func (b *Blueprint) Close() error {
	var first error
	for _, c := range b.ChannelCfgs {
		if c.Source == nil {
			continue
		}
		if err := c.Source.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}

// Info describes a stream for display.
type Info struct {
	Format       string
	SampleRate   int
	Channels     int
	NumSamples   int64
	Loop         *LoopRegion
	Codec        string
	Layout       string
	Subsong      int
	SubsongCount int
	StreamName   string
	StreamSize   int64
}
