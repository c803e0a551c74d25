package value

import (
	"strings"

	"github.com/joshuapare/hivekit/heap"
)

// listElemOverhead approximates the footprint of one Value slot for GC
// accounting purposes; Value itself has no heap-owned storage, but the
// slice backing a List does.
const listElemOverhead = 32

// List is a dynamically resized sequence of Value, capacity >= length
// always (Go slice append already guarantees this; List exists to
// track size for the collector and to own the heap-facing mutation
// API, the way hive/alloc's size-class buckets track a buffer's
// capacity rather than trusting an external len).
type List struct {
	heap.Header
	items []Value
}

// NewList constructs a List from the given initial elements.
func NewList(items ...Value) *List {
	cp := make([]Value, len(items))
	copy(cp, items)
	return &List{items: cp}
}

func (l *List) AllocHeader() *heap.Header { return &l.Header }

func (l *List) Trace(m heap.Marker) {
	for _, v := range l.items {
		v.mark(m)
	}
}

func (l *List) Size() int { return cap(l.items)*listElemOverhead + 24 }
func (l *List) Kind() heap.Kind { return heap.KindList }

func (l *List) Format(depth int) string {
	if depth <= 0 {
		return heap.FormatDepthSentinel
	}
	parts := make([]string, len(l.items))
	for i, v := range l.items {
		parts[i] = v.Format(depth - 1)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Len reports the number of elements.
func (l *List) Len() int { return len(l.items) }

// Get returns the element at i, or false if i is out of range.
func (l *List) Get(i int) (Value, bool) {
	if i < 0 || i >= len(l.items) {
		return Value{}, false
	}
	return l.items[i], true
}

// Set overwrites the element at i, reporting false if i is out of
// range.
func (l *List) Set(i int, v Value) bool {
	if i < 0 || i >= len(l.items) {
		return false
	}
	l.items[i] = v
	return true
}

// Push appends v, re-accounting l's size on h if the backing slice
// grows.
func (l *List) Push(h *heap.Heap, v Value) {
	heap.Grow(h, l, func() {
		l.items = append(l.items, v)
	})
}

// Pop removes and returns the last element, reporting false on an
// empty list.
func (l *List) Pop(h *heap.Heap) (Value, bool) {
	if len(l.items) == 0 {
		return Value{}, false
	}
	var v Value
	heap.Shrink(h, l, func() {
		n := len(l.items) - 1
		v = l.items[n]
		l.items = l.items[:n]
	})
	return v, true
}
