// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/ik5/vgmpbx/bytesrc"
)

// ProbeOptions tune a probe call.
type ProbeOptions struct {
	// Hint is an extension (with or without the dot) used instead of the
	// source name when filtering extension-keyed probers.
	Hint string
	// Subsong is 1-based; 0 selects the first one.
	Subsong int
	Logger  Logger
}

// Ext returns the extension used for filtering: the hint when set,
// otherwise the source name's.
func (o ProbeOptions) Ext(src bytesrc.Source) string {
	if o.Hint != "" {
		return strings.ToLower(strings.TrimPrefix(o.Hint, "."))
	}

	return bytesrc.Ext(src)
}

// Log returns the configured logger or a no-op one.
func (o ProbeOptions) Log() Logger {
	if o.Logger == nil {
		return NopLogger
	}

	return o.Logger
}

// Prober recognizes one container family.
//
// Probe returns ErrReject quickly when the stream is not its format, a
// *ProbeError when the signature matched but the stream cannot be used, and
// a validated Blueprint otherwise.
type Prober interface {
	Name() string
	Probe(src bytesrc.Source, opts ProbeOptions) (*Blueprint, error)
}

// ExtensionProber is a Prober that only runs for certain extensions.
type ExtensionProber interface {
	Prober
	Extensions() []string
}

// ProbeClass orders probers inside the registry.
type ProbeClass uint8

const (
	// ClassMagic probers key on a unique signature and always run.
	ClassMagic ProbeClass = iota
	// ClassStructure probers key on extension plus header shape.
	ClassStructure
	// ClassGuess probers parse substantially to decide and run last.
	ClassGuess
)

type entry struct {
	class  ProbeClass
	prober Prober
}

// Registry is the ordered list of probers.
type Registry struct {
	probers []entry
	log     Logger

	mtx *sync.RWMutex
}

func NewRegistry(log Logger) *Registry {
	if log == nil {
		log = NopLogger
	}

	return &Registry{
		log: log,
		mtx: &sync.RWMutex{},
	}
}

// Register appends p to its class. Probers of one class keep their
// registration order.
func (r *Registry) Register(class ProbeClass, p Prober) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.probers = append(r.probers, entry{class: class, prober: p})
	slices.SortStableFunc(r.probers, func(a, b entry) int {
		return int(a.class) - int(b.class)
	})
}

// Names lists the probers in probing order.
func (r *Registry) Names() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	names := make([]string, 0, len(r.probers))
	for _, e := range r.probers {
		names = append(names, e.prober.Name())
	}

	return names
}

// Get returns a prober by name.
func (r *Registry) Get(name string) (Prober, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	for _, e := range r.probers {
		if e.prober.Name() == name {
			return e.prober, true
		}
	}

	return nil, false
}

// Probe runs the probers in order. The first accepted blueprint wins; a
// probe error stops the search.
func (r *Registry) Probe(src bytesrc.Source, opts ProbeOptions) (*Blueprint, error) {
	if opts.Logger == nil {
		opts.Logger = r.log
	}
	log := opts.Log()
	ext := opts.Ext(src)

	r.mtx.RLock()
	probers := slices.Clone(r.probers)
	r.mtx.RUnlock()

	for _, e := range probers {
		if e.class != ClassMagic && !acceptsExt(e.prober, ext) {
			continue
		}

		bp, err := e.prober.Probe(src, opts)
		if errors.Is(err, ErrReject) {
			continue
		}
		if err != nil {
			log.Warnf("%s: %v", e.prober.Name(), err)

			var pe *ProbeError
			if errors.As(err, &pe) {
				return nil, err
			}

			return nil, &ProbeError{Kind: KindCorrupt, Format: e.prober.Name(), Msg: err.Error()}
		}

		if bp.Format == "" {
			bp.Format = e.prober.Name()
		}
		if bp.Subsong == nil && opts.Subsong > 1 {
			bp.Close()
			return nil, SubsongOutOfRange(bp.Format, opts.Subsong, 1)
		}
		if err := bp.Validate(); err != nil {
			bp.Close()
			return nil, Corrupt(bp.Format, "%v", err)
		}

		log.Debugf("%s: accepted %s, %d ch, %d Hz, %d samples", bp.Format, bp.Codec, bp.Channels, bp.SampleRate, bp.NumSamples)

		return bp, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, src.Name())
}

func acceptsExt(p Prober, ext string) bool {
	ep, ok := p.(ExtensionProber)
	if !ok {
		return true
	}

	return slices.Contains(ep.Extensions(), ext)
}

// SelectSubsong maps a requested 1-based index (0 = first) onto count
// streams.
func SelectSubsong(format string, want, count int) (int, error) {
	if count <= 0 {
		return 0, Corrupt(format, "no subsongs")
	}
	if want == 0 {
		want = 1
	}
	if want < 0 || want > count {
		return 0, SubsongOutOfRange(format, want, count)
	}

	return want, nil
}
