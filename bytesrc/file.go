// SPDX-License-Identifier: EPL-2.0

package bytesrc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
)

type fileHandle struct {
	f    *os.File
	refs atomic.Int32
}

// File is a Source backed by an open file. os.File.ReadAt does not share a
// seek position, so one handle serves concurrent sessions.
type File struct {
	h    *fileHandle
	path string
	size int64
}

// OpenFile opens path read-only with one reference held.
func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	h := &fileHandle{f: f}
	h.refs.Store(1)

	return &File{h: h, path: path, size: st.Size()}, nil
}

func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if f.h.refs.Load() <= 0 {
		return 0, ErrClosed
	}

	return readAt(f.h.f, f.size, p, off)
}

func (f *File) Size() int64  { return f.size }
func (f *File) Name() string { return f.path }

func (f *File) Retain() Source {
	f.h.refs.Add(1)
	return f
}

func (f *File) Close() error {
	if f.h.refs.Add(-1) == 0 {
		return f.h.f.Close()
	}

	return nil
}

func (f *File) Companion(hint string) (Source, bool) {
	want := companionName(f.path, hint)

	if cf, err := OpenFile(want); err == nil {
		return cf, true
	}

	// retry ignoring case, as extracted game files often mix it
	entries, err := os.ReadDir(filepath.Dir(want))
	if err != nil {
		return nil, false
	}

	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(e.Name(), filepath.Base(want)) {
			continue
		}

		cf, err := OpenFile(filepath.Join(filepath.Dir(want), e.Name()))
		if err != nil {
			return nil, false
		}

		return cf, true
	}

	return nil, false
}
