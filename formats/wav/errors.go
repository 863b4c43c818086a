// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNoChannels     = errors.New("WAV needs at least one channel")
	ErrBadSampleCount = errors.New("sample count is not a multiple of channels")
	ErrInvalidRate    = errors.New("invalid sample rate")
	ErrWriterClosed   = errors.New("WAV writer is closed")
)
