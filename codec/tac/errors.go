// SPDX-License-Identifier: EPL-2.0

package tac

import "errors"

var (
	// ErrBadHeader reports a stream header that fails validation.
	ErrBadHeader = errors.New("tac: bad header")
	// ErrBadTables reports frequency tables that cannot drive the decoder.
	ErrBadTables = errors.New("tac: bad tables")
)
