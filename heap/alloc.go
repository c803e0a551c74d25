package heap

// Manage boxes obj as a managed allocation: links it onto the
// all-objects list in the nursery generation and accounts its size.
// If the heap is in stress mode, or bytesAllocated already exceeds
// nextThreshold, a collection runs first — before obj is linked in, so
// the still-unrooted obj cannot be mistaken for garbage by that
// collection (it is simply invisible to it, the same as any local Go
// variable the collector has no reason to know about yet).
//
// Manage mirrors hive/alloc's FastAllocator.Alloc sequencing (check
// threshold, maybe reclaim, then allocate and account) with the
// segregated free lists themselves dropped — see DESIGN.md.
func Manage[T Obj](h *Heap, obj T) Handle[T] {
	h.maybeCollect()
	h.link(obj)
	return NewHandle(obj)
}

// ManageString returns the interned handle for s, allocating via
// construct only on first sighting. Equal strings always return the
// pointer-equal handle, the intern invariant spec.md §8 requires.
//
// construct lives in the caller's package (value.String cannot be
// constructed here without this package importing its mutator), so
// interning is expressed generically over any Obj that can report its
// own string content.
func ManageString[T Interned](h *Heap, s string, construct func() T) Handle[T] {
	if existing, ok := h.intern.lookup(s); ok {
		return Handle[T]{obj: existing.(T)}
	}
	h.maybeCollect()
	obj := construct()
	h.link(obj)
	h.intern.insert(s, obj)
	return NewHandle(obj)
}

// Interned is implemented by any Obj whose identity the string intern
// cache tracks.
type Interned interface {
	Obj
	StringValue() string
}

func (h *Heap) maybeCollect() {
	if h.stress || h.bytesAllocated > h.nextThreshold {
		h.Collect()
	}
}

func (h *Heap) link(obj Obj) {
	hdr := obj.AllocHeader()
	hdr.next = h.all
	hdr.gen = GenNursery
	hdr.marked = false
	h.all = obj
	h.count++
	h.bytesAllocated += obj.Size()
}

// Grow re-accounts obj's size after f mutates it to a larger footprint
// (e.g. appending past a List's current backing capacity). Size
// accounting wrappers like this let the collector's byte count stay
// accurate without every mutator tracking deltas by hand.
func Grow(h *Heap, obj Obj, f func()) {
	before := obj.Size()
	f()
	h.bytesAllocated += obj.Size() - before
}

// Shrink is Grow's counterpart for mutations that free backing storage.
func Shrink(h *Heap, obj Obj, f func()) {
	Grow(h, obj, f)
}
