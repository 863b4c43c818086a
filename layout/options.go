// SPDX-License-Identifier: EPL-2.0

package layout

import "github.com/ik5/vgmpbx/audio"

type options struct {
	log       audio.Logger
	externals *audio.Externals
	looping   bool
}

// Option configures a Session.
type Option func(*options)

// WithLogger sets where decoder diagnostics go.
func WithLogger(log audio.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithExternals sets the backends used for External codecs.
func WithExternals(e *audio.Externals) Option {
	return func(o *options) { o.externals = e }
}

// WithLooping turns loop playback on or off. It is on by default; when off
// the stream ends at its last sample even if it has a loop region.
func WithLooping(on bool) Option {
	return func(o *options) { o.looping = on }
}

func newOptions(opts []Option) options {
	o := options{log: audio.NopLogger, looping: true}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
