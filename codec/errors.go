// SPDX-License-Identifier: EPL-2.0

package codec

import "errors"

var (
	ErrUnknownCodec = errors.New("codec: no decoder for codec id")
	ErrBadParams    = errors.New("codec: invalid codec parameters")
	ErrTruncated    = errors.New("codec: stream truncated")
)
