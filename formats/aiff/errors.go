// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	// ErrNoSoundData means the file has no SSND chunk.
	ErrNoSoundData = errors.New("no SSND chunk")

	// ErrNoCommon means the file has no COMM chunk.
	ErrNoCommon = errors.New("no COMM chunk")
)
