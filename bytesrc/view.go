// SPDX-License-Identifier: EPL-2.0

package bytesrc

import (
	"io"
	"path/filepath"
)

type view struct {
	parent Source
	off    int64
	size   int64
	name   string
}

// SubView returns a window of src starting at off, clamped to the parent
// size. The view holds a reference on src until closed.
func SubView(src Source, off, size int64) Source {
	if off < 0 {
		off = 0
	}

	psize := src.Size()
	if off > psize {
		off = psize
	}
	if size < 0 || off+size > psize {
		size = psize - off
	}

	return &view{parent: src.Retain(), off: off, size: size, name: src.Name()}
}

// WithName returns src reported under a different name, so probers keyed on
// extensions accept data carved out of bigger files.
func WithName(src Source, name string) Source {
	return &view{parent: src.Retain(), size: src.Size(), name: name}
}

func (v *view) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, ErrNegativeOffset
	}
	if off >= v.size {
		return 0, io.EOF
	}

	want := len(p)
	if rem := v.size - off; int64(want) > rem {
		want = int(rem)
	}

	n, err := v.parent.ReadAt(p[:want], v.off+off)
	if err == nil && n < len(p) {
		err = io.EOF
	}

	return n, err
}

func (v *view) Size() int64  { return v.size }
func (v *view) Name() string { return v.name }

func (v *view) Retain() Source {
	v.parent.Retain()
	return v
}

func (v *view) Close() error { return v.parent.Close() }

func (v *view) Companion(hint string) (Source, bool) {
	// resolve against our own name, then ask the parent for the sibling
	return v.parent.Companion(filepath.Base(companionName(v.name, hint)))
}
