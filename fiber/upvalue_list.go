package fiber

import (
	"sort"

	"github.com/joshuapare/hivekit/heap"
	"github.com/joshuapare/hivekit/value"
)

// openUpvalues is a fiber's list of currently-open upvalues, sorted
// ascending by stack index so that closing every entry at or above a
// cut point (the return/CloseUpvalue case) is a plain suffix
// truncation — the shape spec.md's Design Notes §9 calls out as the
// simplest correct representation. (§4.5's prose describes the list as
// sorted by *descending* index; ascending is what actually makes
// "close is a suffix truncation" literally true, so that resolution is
// what this implementation follows — see DESIGN.md.)
type openUpvalues struct {
	list []heap.Handle[*value.Upvalue]
}

// Find returns the existing open upvalue at stackIndex, if any — used
// by Closure creation's Local(i) capture to reuse rather than
// duplicate (spec.md §4.5: "at most one Open upvalue per stack index
// per fiber").
func (o *openUpvalues) Find(stackIndex int) (heap.Handle[*value.Upvalue], bool) {
	i := sort.Search(len(o.list), func(i int) bool {
		return o.list[i].Deref().StackIndex() >= stackIndex
	})
	if i < len(o.list) && o.list[i].Deref().StackIndex() == stackIndex {
		return o.list[i], true
	}
	return heap.Handle[*value.Upvalue]{}, false
}

// Insert adds a new open upvalue, keeping the list sorted by stack
// index.
func (o *openUpvalues) Insert(h heap.Handle[*value.Upvalue]) {
	idx := h.Deref().StackIndex()
	i := sort.Search(len(o.list), func(i int) bool {
		return o.list[i].Deref().StackIndex() >= idx
	})
	o.list = append(o.list, heap.Handle[*value.Upvalue]{})
	copy(o.list[i+1:], o.list[i:])
	o.list[i] = h
}

// CloseFrom closes every open upvalue with stack index >= cut, reading
// its final value from stack, and removes them from the open list.
func (o *openUpvalues) CloseFrom(cut int, stack []value.Value) {
	i := sort.Search(len(o.list), func(i int) bool {
		return o.list[i].Deref().StackIndex() >= cut
	})
	for _, h := range o.list[i:] {
		uv := h.Deref()
		uv.Close(uv.Get(stack))
	}
	o.list = o.list[:i]
}

// Len reports the number of open upvalues.
func (o *openUpvalues) Len() int { return len(o.list) }

// trace marks every open upvalue handle.
func (o *openUpvalues) trace(marker heap.Marker) {
	for _, h := range o.list {
		heap.MarkHandle[*value.Upvalue](marker, h)
	}
}
