// SPDX-License-Identifier: EPL-2.0

package adpcm

import (
	"fmt"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/codec"
)

// New returns the frame decoder for id. frameSize is the per-stream frame
// or block size for codecs that need one (MS-ADPCM, MS-IMA, Reflections
// IMA, XMD, PSX-cfg); lanes is the number of channels sharing one stream.
func New(id audio.CodecID, frameSize, lanes int) (codec.FrameDecoder, error) {
	if lanes < 1 {
		lanes = 1
	}

	switch id {
	case audio.PsxAdpcm:
		return &psx{size: 0x10, lanes: lanes}, nil
	case audio.PsxAdpcmBadFlags:
		return &psx{size: 0x10, lanes: lanes, badFlags: true}, nil
	case audio.PsxAdpcmCfg:
		if frameSize == 0 {
			frameSize = 0x04
		}
		if frameSize < 2 || frameSize > 0x10 {
			return nil, fmt.Errorf("%w: PSX frame size 0x%x", codec.ErrBadParams, frameSize)
		}
		return &psx{size: frameSize, lanes: lanes, cfg: true}, nil
	case audio.DspAdpcm:
		return &dsp{lanes: lanes}, nil
	case audio.XboxIma:
		return &xboxIma{lanes: lanes}, nil
	case audio.MsIma:
		if frameSize <= 4*lanes {
			return nil, fmt.Errorf("%w: IMA block 0x%x for %d channels", codec.ErrBadParams, frameSize, lanes)
		}
		return &msIma{size: frameSize, lanes: lanes}, nil
	case audio.RefIma:
		if frameSize <= 4*lanes {
			return nil, fmt.Errorf("%w: IMA block 0x%x for %d channels", codec.ErrBadParams, frameSize, lanes)
		}
		return &refIma{size: frameSize, lanes: lanes}, nil
	case audio.MsAdpcm:
		if frameSize <= 7*lanes {
			return nil, fmt.Errorf("%w: MS-ADPCM block 0x%x for %d channels", codec.ErrBadParams, frameSize, lanes)
		}
		return &msAdpcm{size: frameSize, lanes: lanes}, nil
	case audio.Ima:
		return &nibbles{lanes: lanes, expand: imaStd}, nil
	case audio.MtfIma:
		return &nibbles{lanes: lanes, highFirst: true, expand: imaStd}, nil
	case audio.BlitzIma:
		return &nibbles{lanes: lanes, expand: imaOdd}, nil
	case audio.OkiDvi:
		return &nibbles{lanes: lanes, highFirst: true, expand: okiStd, shift: 4}, nil
	case audio.Oki4s:
		return &nibbles{lanes: lanes, highFirst: true, expand: okiOdd, shift: 4}, nil
	case audio.Tgc:
		return &nibbles{lanes: lanes, highFirst: true, expand: tgcExpand, shift: 8}, nil
	case audio.Fadpcm:
		return &fadpcm{lanes: lanes}, nil
	case audio.Dsa:
		return &dsa{lanes: lanes}, nil
	case audio.Tantalus:
		return &tantalus{lanes: lanes}, nil
	case audio.Xmd:
		if frameSize <= 6 {
			return nil, fmt.Errorf("%w: XMD frame 0x%x", codec.ErrBadParams, frameSize)
		}
		return &xmd{size: frameSize, lanes: lanes}, nil
	case audio.EaXa:
		return &eaxa{lanes: lanes}, nil
	case audio.EaXas:
		return &eaxas{lanes: lanes}, nil
	case audio.DpcmKcej:
		return &byteCodes{lanes: lanes, expand: kcejExpand}, nil
	case audio.Wady:
		return &byteCodes{lanes: lanes, expand: wadyExpand}, nil
	case audio.CircusAdpcm:
		return &byteCodes{lanes: lanes, expand: circusExpand}, nil
	}

	return nil, fmt.Errorf("%w: %s", codec.ErrUnknownCodec, id)
}

// Supports reports whether New knows id.
func Supports(id audio.CodecID) bool {
	switch id {
	case audio.PsxAdpcm, audio.PsxAdpcmBadFlags, audio.PsxAdpcmCfg, audio.DspAdpcm,
		audio.XboxIma, audio.MsIma, audio.RefIma, audio.MsAdpcm, audio.Ima, audio.MtfIma,
		audio.BlitzIma, audio.OkiDvi, audio.Oki4s, audio.Tgc, audio.Fadpcm, audio.Dsa,
		audio.Tantalus, audio.Xmd, audio.EaXa, audio.EaXas, audio.DpcmKcej, audio.Wady,
		audio.CircusAdpcm:
		return true
	}

	return false
}

// laneFrame reads the size-byte frame of lane in frame idx, where every
// frame holds lanes consecutive per-lane frames.
func laneFrame(st *codec.State, buf []byte, idx, size, lanes, lane int) []byte {
	off := st.Offset + int64(idx)*int64(size*lanes) + int64(lane*size)

	return codec.ReadFrame(st.Src, off, size, buf)
}

// copyRun moves n samples starting at first out of a decoded frame.
func copyRun(out []int16, stride int, pcm []int16, first, n, done int) {
	for i := range n {
		out[(done+i)*stride] = pcm[first+i]
	}
}

func grow(s []int16, n int) []int16 {
	if cap(s) < n {
		return make([]int16, n)
	}

	return s[:n]
}
