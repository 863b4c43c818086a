// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"sync"

	"github.com/ik5/vgmpbx/bytesrc"
)

// ExternalConfig is what a backend gets from the blueprint.
type ExternalConfig struct {
	Kind       ExternalKind
	Channels   int
	SampleRate int
	NumSamples int64
	FrameSize  int
	Extradata  []byte
	Params     any
}

// ExternalCodec is a decoder implemented outside the core. Decode writes up
// to samples interleaved frames into out and returns how many it produced;
// fewer than requested means the stream ended or failed.
type ExternalCodec interface {
	Decode(out []int16, samples int) (int, error)
	Seek(sample int64) error
	Reset() error
	// SkipSamples is the encoder delay the backend knows about and the
	// session must drop after each reset.
	SkipSamples() int64
	Close() error
}

// ExternalFactory opens a backend over size bytes at start of src.
type ExternalFactory func(src bytesrc.Source, start, size int64, cfg ExternalConfig) (ExternalCodec, error)

// Externals maps backend kinds to factories. It is filled at startup and
// read by every session afterwards.
type Externals struct {
	factories map[ExternalKind]ExternalFactory

	mtx *sync.RWMutex
}

func NewExternals() *Externals {
	return &Externals{
		factories: make(map[ExternalKind]ExternalFactory),
		mtx:       &sync.RWMutex{},
	}
}

func (e *Externals) Register(kind ExternalKind, f ExternalFactory) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	e.factories[kind] = f
}

func (e *Externals) Get(kind ExternalKind) (ExternalFactory, bool) {
	if e == nil {
		return nil, false
	}

	e.mtx.RLock()
	defer e.mtx.RUnlock()

	f, ok := e.factories[kind]

	return f, ok
}

// Open builds the backend for bp, or fails with ErrNoExternalCodec.
func (e *Externals) Open(bp *Blueprint) (ExternalCodec, error) {
	f, ok := e.Get(bp.External)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoExternalCodec, bp.External)
	}

	ch := bp.ChannelCfgs[0]
	size := bp.StreamSize
	if size <= 0 || ch.StartOffset+size > ch.Source.Size() {
		size = ch.Source.Size() - ch.StartOffset
	}

	return f(ch.Source, ch.StartOffset, size, ExternalConfig{
		Kind:       bp.External,
		Channels:   bp.Channels,
		SampleRate: bp.SampleRate,
		NumSamples: bp.NumSamples,
		FrameSize:  bp.FrameSize,
		Extradata:  bp.Extradata,
		Params:     bp.CodecParams,
	})
}
