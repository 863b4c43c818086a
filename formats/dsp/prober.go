// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"path/filepath"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
)

const name = "Nintendo DSP"

// sideName matches the channel tag right before the extension of a split
// stereo pair: "bgm(L).dsp", "bgm_L.dsp" or "bgmL.dsp".
var sideName = regexp2.MustCompile(`^(?<pre>.+?)(?<tag>\([LR]\)|_[LR]|(?<=[^_(])[LR])(?<ext>\.[^.]+)$`, regexp2.IgnoreCase)

// Prober recognizes standard DSP files, pairing split left/right files
// into one stereo stream.
type Prober struct{}

func (Prober) Name() string         { return name }
func (Prober) Extensions() []string { return []string{"dsp", "adp"} }

func (Prober) Probe(src bytesrc.Source, opts audio.ProbeOptions) (*audio.Blueprint, error) {
	h, err := ReadHeader(src, 0)
	if err != nil {
		return nil, audio.ErrReject
	}
	if err := h.check(src, HeaderSize); err != nil {
		opts.Log().Debugf("%s: %v", name, err)
		return nil, audio.ErrReject
	}

	bp := &audio.Blueprint{
		Format:     name,
		Channels:   1,
		SampleRate: h.SampleRate,
		NumSamples: h.NumSamples,
		Loop:       h.loop(),
		Codec:      audio.DspAdpcm,
		Layout:     audio.Layout{Kind: audio.LayoutFlat},
		StreamSize: src.Size() - HeaderSize,
	}

	other, left, ok := companion(src)
	if !ok {
		bp.ChannelCfgs = []audio.ChannelCfg{h.channelCfg(src.Retain(), HeaderSize)}
		return bp, nil
	}

	oh, err := ReadHeader(other, 0)
	if err == nil {
		err = oh.check(other, HeaderSize)
	}
	if err != nil || oh.NumSamples != h.NumSamples || oh.SampleRate != h.SampleRate {
		other.Close()
		return nil, audio.Corrupt(name, "%s does not match %s", other.Name(), src.Name())
	}

	self := h.channelCfg(src.Retain(), HeaderSize)
	pair := oh.channelCfg(other, HeaderSize)
	if left {
		bp.ChannelCfgs = []audio.ChannelCfg{self, pair}
	} else {
		bp.ChannelCfgs = []audio.ChannelCfg{pair, self}
		bp.Loop = oh.loop()
	}
	bp.Channels = 2
	bp.StreamSize += other.Size() - HeaderSize

	return bp, nil
}

// companion opens the other side of a split pair. left reports whether
// src is the left channel.
func companion(src bytesrc.Source) (other bytesrc.Source, left, ok bool) {
	base := filepath.Base(src.Name())

	m, err := sideName.FindStringMatch(base)
	if err != nil || m == nil {
		return nil, false, false
	}

	tag := m.GroupByName("tag").String()
	left = strings.ContainsAny(tag, "Ll")

	swapped := strings.NewReplacer("L", "R", "l", "r", "R", "L", "r", "l").Replace(tag)
	want := m.GroupByName("pre").String() + swapped + m.GroupByName("ext").String()

	other, ok = src.Companion(want)
	if !ok {
		return nil, false, false
	}

	return other, left, true
}
