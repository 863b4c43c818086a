// SPDX-License-Identifier: EPL-2.0

package layout

import (
	"fmt"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/codec"
	"github.com/ik5/vgmpbx/codec/compresswave"
	"github.com/ik5/vgmpbx/codec/eamt"
	"github.com/ik5/vgmpbx/codec/relic"
	"github.com/ik5/vgmpbx/codec/tac"
	"github.com/ik5/vgmpbx/codec/ubiadpcm"
)

// streamRange is the coded data of a stream-owning codec.
func streamRange(bp *audio.Blueprint) (audio.ChannelCfg, int64) {
	ch := bp.ChannelCfgs[0]
	size := bp.StreamSize
	if size <= 0 || ch.StartOffset+size > ch.Source.Size() {
		size = ch.Source.Size() - ch.StartOffset
	}

	return ch, size
}

// openStream builds the decoder of a codec that owns its stream.
func openStream(bp *audio.Blueprint, o options) (codec.StreamDecoder, error) {
	ch, size := streamRange(bp)

	switch bp.Codec {
	case audio.CompressWave:
		cfg, ok := bp.CodecParams.(compresswave.Config)
		if !ok {
			return nil, fmt.Errorf("%w: CompressWave needs a compresswave.Config", ErrBadParams)
		}
		return compresswave.New(ch.Source, ch.StartOffset, size, cfg)

	case audio.Tac:
		return tac.New(ch.Source, o.log)

	case audio.Relic:
		cfg, ok := bp.CodecParams.(relic.Config)
		if !ok {
			return nil, fmt.Errorf("%w: Relic needs a relic.Config", ErrBadParams)
		}
		return relic.New(ch.Source, ch.StartOffset, size, cfg)

	case audio.EaMt:
		cfg, ok := bp.CodecParams.(eamt.Config)
		if !ok {
			cfg = eamt.Config{NumSamples: bp.NumSamples}
		}
		return eamt.New(ch.Source, ch.StartOffset, size, cfg)

	case audio.UbiAdpcm:
		return ubiadpcm.New(ch.Source, ch.StartOffset)

	case audio.External:
		return o.externals.Open(bp)

	case audio.Hevag, audio.Imuse, audio.AcmInterplay:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, bp.Codec)
	}

	return nil, fmt.Errorf("%w: %s", ErrNoDecoder, bp.Codec)
}
