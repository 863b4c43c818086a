// SPDX-License-Identifier: EPL-2.0

package layout

import "errors"

var (
	ErrNoDecoder   = errors.New("no decoder for codec")
	ErrBadParams   = errors.New("codec parameters missing or invalid")
	ErrUnsupported = errors.New("codec not supported")
)
