// SPDX-License-Identifier: EPL-2.0

package msaudio

import "errors"

var (
	ErrShortData   = errors.New("msaudio: short data")
	ErrBadParams   = errors.New("msaudio: bad parameters")
	ErrUnsupported = errors.New("msaudio: unsupported stream")
)
