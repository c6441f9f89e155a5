// Package history implements a bounded undo/redo stack.
//
// The stack holds immutable [Snapshot] values and a cursor pointing at the
// current one. Pushing after an undo discards the redo branch. When the stack
// is full the oldest snapshot is evicted.
//
// Snapshots are opaque byte payloads (canopy stores encoded documents) kept
// snappy-compressed in memory. Every snapshot is independent; there is no
// structural sharing between entries.
package history

import (
	"fmt"
	"slices"

	"github.com/golang/snappy"
)

// DefaultCapacity is the number of snapshots kept when none is configured.
const DefaultCapacity = 50

// Snapshot is an immutable, compressed copy of editor state.
type Snapshot struct {
	label string
	data  []byte // snappy block
	size  int    // uncompressed length
}

// NewSnapshot compresses payload. The caller may reuse payload afterwards.
func NewSnapshot(label string, payload []byte) Snapshot {
	return Snapshot{
		label: label,
		data:  snappy.Encode(nil, payload),
		size:  len(payload),
	}
}

// Label returns the description given at creation ("add node", ...).
func (s Snapshot) Label() string { return s.label }

// Size returns the uncompressed payload length.
func (s Snapshot) Size() int { return s.size }

// CompressedSize returns the bytes held in memory.
func (s Snapshot) CompressedSize() int { return len(s.data) }

// Payload decompresses and returns a fresh copy of the snapshot's bytes.
func (s Snapshot) Payload() ([]byte, error) {
	out, err := snappy.Decode(nil, s.data)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot %q: %w", s.label, err)
	}
	return out, nil
}

// Manager is the undo/redo stack. The zero value is not usable; use [New].
// A Manager is not safe for concurrent use.
type Manager struct {
	capacity int
	items    []Snapshot
	cursor   int // index of the current snapshot, -1 when empty
}

// New creates a Manager holding at most capacity snapshots. Values below 1
// select DefaultCapacity.
func New(capacity int) *Manager {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Manager{capacity: capacity, cursor: -1}
}

// Push drops every snapshot after the cursor, appends s and makes it
// current. If that exceeds the capacity, the oldest snapshot is evicted.
func (m *Manager) Push(s Snapshot) {
	m.items = append(m.items[:m.cursor+1], s)
	if len(m.items) > m.capacity {
		m.items = slices.Delete(m.items, 0, len(m.items)-m.capacity)
	}
	m.cursor = len(m.items) - 1
}

// Undo moves the cursor back and returns the snapshot now current. It
// returns false, without moving, when the cursor is at the first entry.
func (m *Manager) Undo() (Snapshot, bool) {
	if m.cursor <= 0 {
		return Snapshot{}, false
	}
	m.cursor--
	return m.items[m.cursor], true
}

// Redo moves the cursor forward and returns the snapshot now current. It
// returns false when the cursor is at the last entry.
func (m *Manager) Redo() (Snapshot, bool) {
	if m.cursor >= len(m.items)-1 {
		return Snapshot{}, false
	}
	m.cursor++
	return m.items[m.cursor], true
}

// Current returns the snapshot at the cursor.
func (m *Manager) Current() (Snapshot, bool) {
	if m.cursor < 0 {
		return Snapshot{}, false
	}
	return m.items[m.cursor], true
}

// CanUndo reports whether Undo would succeed.
func (m *Manager) CanUndo() bool { return m.cursor > 0 }

// CanRedo reports whether Redo would succeed.
func (m *Manager) CanRedo() bool { return m.cursor < len(m.items)-1 }

// Len returns the number of stored snapshots.
func (m *Manager) Len() int { return len(m.items) }

// Cursor returns the index of the current snapshot (-1 when empty).
func (m *Manager) Cursor() int { return m.cursor }

// Capacity returns the maximum number of snapshots.
func (m *Manager) Capacity() int { return m.capacity }

// Labels returns the labels of all snapshots, oldest first.
func (m *Manager) Labels() []string {
	out := make([]string, len(m.items))
	for i, s := range m.items {
		out[i] = s.label
	}
	return out
}

// MemoryUsage returns the compressed bytes held by all snapshots.
func (m *Manager) MemoryUsage() int {
	var n int
	for _, s := range m.items {
		n += len(s.data)
	}
	return n
}

// Clear drops every snapshot.
func (m *Manager) Clear() {
	clear(m.items)
	m.items = m.items[:0]
	m.cursor = -1
}
