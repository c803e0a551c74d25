package value

import (
	"strings"

	"github.com/joshuapare/hivekit/heap"
)

// Map is a Value -> Value mapping. Keys are hashable: numbers, strings
// (by interned identity), and other objects (by pointer identity) — the
// exact set Value's fields are already comparable over, so the backing
// store is Go's native map rather than a hand-rolled open-addressing
// table.
//
// This follows hive/index's StringIndex over its sibling UniqueIndex:
// that package's own benchmarks found Go's native map faster to build
// and simpler to get right than manual open addressing, and recommends
// it as the default for anything but a read-mostly, memory-constrained
// workload. A language-level Map is exactly the build-many, read-many
// case StringIndex targets.
type Map struct {
	heap.Header
	entries map[Value]Value
}

// NewMap constructs an empty Map.
func NewMap() *Map {
	return &Map{entries: make(map[Value]Value)}
}

func (m *Map) AllocHeader() *heap.Header { return &m.Header }

func (m *Map) Trace(marker heap.Marker) {
	for k, v := range m.entries {
		k.mark(marker)
		v.mark(marker)
	}
}

func (m *Map) Size() int { return len(m.entries)*64 + 24 }
func (m *Map) Kind() heap.Kind { return heap.KindMap }

func (m *Map) Format(depth int) string {
	if depth <= 0 {
		return heap.FormatDepthSentinel
	}
	parts := make([]string, 0, len(m.entries))
	for k, v := range m.entries {
		parts = append(parts, k.Format(depth-1)+": "+v.Format(depth-1))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Len reports the number of entries.
func (m *Map) Len() int { return len(m.entries) }

// Get looks up key, reporting false if absent.
func (m *Map) Get(key Value) (Value, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Set inserts or overwrites key -> val, re-accounting m's size on h.
func (m *Map) Set(h *heap.Heap, key, val Value) {
	heap.Grow(h, m, func() {
		m.entries[key] = val
	})
}

// Delete removes key, re-accounting m's size on h. Reports whether the
// key was present.
func (m *Map) Delete(h *heap.Heap, key Value) bool {
	if _, ok := m.entries[key]; !ok {
		return false
	}
	heap.Shrink(h, m, func() {
		delete(m.entries, key)
	})
	return true
}
