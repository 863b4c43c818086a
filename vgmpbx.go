// SPDX-License-Identifier: EPL-2.0

package vgmpbx

import (
	"sync"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/formats/aiff"
	"github.com/ik5/vgmpbx/formats/cwav"
	"github.com/ik5/vgmpbx/formats/dsp"
	"github.com/ik5/vgmpbx/formats/eawve"
	"github.com/ik5/vgmpbx/formats/fsb5"
	"github.com/ik5/vgmpbx/formats/h4m"
	"github.com/ik5/vgmpbx/formats/mp3"
	"github.com/ik5/vgmpbx/formats/psxraw"
	"github.com/ik5/vgmpbx/formats/relic"
	"github.com/ik5/vgmpbx/formats/simple"
	"github.com/ik5/vgmpbx/formats/tac"
	"github.com/ik5/vgmpbx/formats/ubiadpcm"
	"github.com/ik5/vgmpbx/formats/utk"
	"github.com/ik5/vgmpbx/formats/vag"
	"github.com/ik5/vgmpbx/formats/vas"
	"github.com/ik5/vgmpbx/formats/vorbis"
	"github.com/ik5/vgmpbx/formats/wav"
	"github.com/ik5/vgmpbx/formats/xma"
	"github.com/ik5/vgmpbx/layout"
)

// NewRegistry returns a registry holding every prober of this module.
func NewRegistry(log audio.Logger) *audio.Registry {
	r := audio.NewRegistry(log)

	r.Register(audio.ClassMagic, fsb5.Prober{})
	r.Register(audio.ClassMagic, xma.Prober{})
	r.Register(audio.ClassMagic, wav.Prober{})
	r.Register(audio.ClassMagic, aiff.Prober{})
	r.Register(audio.ClassMagic, vag.Prober{})
	r.Register(audio.ClassMagic, cwav.Prober{})
	r.Register(audio.ClassStructure, tac.Prober{})
	r.Register(audio.ClassStructure, relic.Prober{})
	r.Register(audio.ClassMagic, utk.Prober{})
	r.Register(audio.ClassMagic, eawve.Prober{})
	r.Register(audio.ClassMagic, h4m.Prober{})
	r.Register(audio.ClassMagic, vas.Prober{})
	r.Register(audio.ClassStructure, ubiadpcm.Prober{})
	r.Register(audio.ClassStructure, dsp.Prober{})
	for _, p := range simple.Probers() {
		r.Register(audio.ClassMagic, p)
	}
	r.Register(audio.ClassStructure, mp3.Prober{})
	r.Register(audio.ClassMagic, vorbis.Prober{})
	r.Register(audio.ClassGuess, psxraw.Prober{})

	return r
}

// NewExternals returns the backends shipped with this module: MPEG audio
// and Ogg Vorbis.
func NewExternals() *audio.Externals {
	e := audio.NewExternals()
	e.Register(audio.ExtMpeg, mp3.Open)
	e.Register(audio.ExtVorbis, vorbis.Open)

	return e
}

var (
	defaultRegistry  = sync.OnceValue(func() *audio.Registry { return NewRegistry(nil) })
	defaultExternals = sync.OnceValue(NewExternals)
)

// DefaultRegistry is the shared registry used by Probe.
func DefaultRegistry() *audio.Registry { return defaultRegistry() }

// Probe identifies src with the default registry.
func Probe(src bytesrc.Source, opts audio.ProbeOptions) (*audio.Blueprint, error) {
	return DefaultRegistry().Probe(src, opts)
}

// Open starts a session over bp with the default externals. Options given
// here override them.
func Open(bp *audio.Blueprint, opts ...layout.Option) (*layout.Session, error) {
	all := append([]layout.Option{layout.WithExternals(defaultExternals())}, opts...)

	return layout.New(bp, all...)
}
