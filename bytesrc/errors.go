// SPDX-License-Identifier: EPL-2.0

package bytesrc

import "errors"

var (
	ErrNegativeOffset = errors.New("negative read offset")
	ErrClosed         = errors.New("byte source is closed")
	ErrShortRead      = errors.New("short read")
)
