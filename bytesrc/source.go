// SPDX-License-Identifier: EPL-2.0

package bytesrc

import (
	"io"
	"path/filepath"
	"strings"
)

// Source is a random-access, read-only byte provider.
//
// ReadAt follows io.ReaderAt, except that a read past the end returns a
// short count with io.EOF instead of failing the caller: sessions treat it
// as an underrun, probers treat it as "not my format".
//
// Sources are shared between blueprints and sessions. Retain adds a
// reference and Close drops one; the backing resource is released when the
// last holder closes.
type Source interface {
	io.ReaderAt

	// Size of the byte range in bytes.
	Size() int64
	// Name is the file name (or fake name) used for extension checks.
	Name() string
	// Companion opens a sibling source. A hint starting with '.' replaces
	// the extension of Name; anything else is a file name in the same
	// location.
	Companion(hint string) (Source, bool)
	// Retain returns the same source with one more reference held.
	Retain() Source
	Close() error
}

// Ext returns the lowercased extension of the source name, without the dot.
func Ext(src Source) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(src.Name()), "."))
}

// Base returns the source name without directories and extension.
func Base(src Source) string {
	name := filepath.Base(src.Name())
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// companionName resolves a companion hint against name.
func companionName(name, hint string) string {
	if strings.HasPrefix(hint, ".") {
		return strings.TrimSuffix(name, filepath.Ext(name)) + hint
	}

	dir := filepath.Dir(name)
	if dir == "." && !strings.ContainsRune(name, filepath.Separator) {
		return hint
	}

	return filepath.Join(dir, hint)
}

// readAt clamps a read to size, returning io.EOF on short reads.
func readAt(r io.ReaderAt, size int64, p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, ErrNegativeOffset
	}
	if off >= size {
		return 0, io.EOF
	}

	want := len(p)
	if rem := size - off; int64(want) > rem {
		want = int(rem)
	}

	n, err := r.ReadAt(p[:want], off)
	if err == nil && n < len(p) {
		err = io.EOF
	}

	return n, err
}
