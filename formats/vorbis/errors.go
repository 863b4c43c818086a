// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

// ErrDecoder wraps failures of the Vorbis decoder.
var ErrDecoder = errors.New("vorbis: decoder error")
