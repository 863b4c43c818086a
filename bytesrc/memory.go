// SPDX-License-Identifier: EPL-2.0

package bytesrc

import (
	"io"
	"path/filepath"
	"strings"
	"sync"
)

// Memory is an in-memory Source. Companions are other named buffers
// registered on the same set with AddCompanion.
type Memory struct {
	name string
	data []byte
	set  *memorySet
}

type memorySet struct {
	mtx   sync.RWMutex
	files map[string][]byte
}

// NewMemory wraps data under name. The slice is not copied.
func NewMemory(name string, data []byte) *Memory {
	set := &memorySet{files: map[string][]byte{name: data}}

	return &Memory{name: name, data: data, set: set}
}

// AddCompanion registers a sibling buffer reachable through Companion.
func (m *Memory) AddCompanion(name string, data []byte) *Memory {
	m.set.mtx.Lock()
	defer m.set.mtx.Unlock()

	m.set.files[name] = data

	return m
}

func (m *Memory) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, ErrNegativeOffset
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}

	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

func (m *Memory) Size() int64    { return int64(len(m.data)) }
func (m *Memory) Name() string   { return m.name }
func (m *Memory) Retain() Source { return m }
func (m *Memory) Close() error   { return nil }

// Bytes exposes the backing slice.
func (m *Memory) Bytes() []byte { return m.data }

func (m *Memory) Companion(hint string) (Source, bool) {
	want := companionName(m.name, hint)

	m.set.mtx.RLock()
	defer m.set.mtx.RUnlock()

	if data, ok := m.set.files[want]; ok {
		return &Memory{name: want, data: data, set: m.set}, true
	}

	// names coming from archives rarely keep their case
	for name, data := range m.set.files {
		if strings.EqualFold(filepath.Base(name), filepath.Base(want)) {
			return &Memory{name: name, data: data, set: m.set}, true
		}
	}

	return nil, false
}
