package heap

// mark is the collector's worklist-driven trace. It mirrors the hive
// walker's iterative, explicit-stack traversal (WalkerCore's StackEntry
// stack) rather than a recursive mark function: an object graph built
// from deeply nested closures/lists/maps must not be able to blow the
// Go call stack during a collection, and a worklist makes the "already
// marked, stop" cycle-safety check (spec §4.1 step 3) trivially correct
// regardless of traversal order.
type markState struct {
	worklist []Obj
}

// Mark implements [Marker]. It is called both by the heap itself (to
// seed roots) and by every Obj.Trace implementation (to mark children).
// A re-mark of an already-marked object is a no-op: this is the cycle
// short-circuit the whole collector's termination depends on.
func (h *Heap) Mark(o Obj) {
	if o == nil {
		return
	}
	hdr := o.AllocHeader()
	if hdr.marked {
		return
	}
	hdr.marked = true
	h.mark.worklist = append(h.mark.worklist, o)
}

// drain empties the worklist, tracing each object's children (which may
// push further entries) until nothing gray remains.
func (h *Heap) drain() {
	for len(h.mark.worklist) > 0 {
		n := len(h.mark.worklist) - 1
		o := h.mark.worklist[n]
		h.mark.worklist = h.mark.worklist[:n]
		o.Trace(h)
	}
}

// MarkHandle marks the referent of a handle, if any. Obj implementations
// should prefer this over calling h.Mark(handle.Obj()) directly so a nil
// handle (an unset upvalue, superclass, or field slot) never reaches
// Mark as a typed-nil Obj.
func MarkHandle[T Obj](marker Marker, h Handle[T]) {
	if h.IsNil() {
		return
	}
	marker.Mark(h.Obj())
}
