// SPDX-License-Identifier: EPL-2.0

package mp3

import "errors"

var (
	ErrNoFrames = errors.New("mp3: no MPEG audio frames")
	ErrDecoder  = errors.New("mp3: decoder error")
)
