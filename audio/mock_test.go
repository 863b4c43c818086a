// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"sync/atomic"

	"github.com/ik5/vgmpbx/bytesrc"
)

// mockProber accepts sources whose first bytes equal magic.
type mockProber struct {
	name  string
	magic string
	exts  []string
	err   error
	calls atomic.Int32
}

func (p *mockProber) Name() string { return p.name }

func (p *mockProber) Probe(src bytesrc.Source, opts ProbeOptions) (*Blueprint, error) {
	p.calls.Add(1)

	if p.err != nil {
		return nil, p.err
	}
	if !bytesrc.IsID(src, 0, p.magic) {
		return nil, ErrReject
	}

	return newTestBlueprint(src), nil
}

// extProber is a mockProber restricted to extensions.
type extProber struct {
	mockProber
}

func (p *extProber) Extensions() []string { return p.exts }

func newTestBlueprint(src bytesrc.Source) *Blueprint {
	return &Blueprint{
		Channels:    1,
		SampleRate:  44100,
		NumSamples:  28,
		Codec:       PsxAdpcm,
		ChannelCfgs: []ChannelCfg{{Source: src.Retain()}},
	}
}
