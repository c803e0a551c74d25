package heap

// Collect runs one full collection cycle: trace roots and temp roots,
// sweep (promoting survivors, reclaiming the rest), prune the intern
// cache, and grow the threshold for next time.
//
// Every SweepEveryN'th collection is a full sweep that also reclaims
// unreachable old-generation objects; the rest only sweep the nursery,
// leaving old objects untouched, per spec.md §4.1 step 4.
func (h *Heap) Collect() {
	h.collections++
	full := h.sweepEveryN > 0 && h.collections%h.sweepEveryN == 0

	before := h.bytesAllocated
	if h.tracer != nil {
		h.tracer.TraceRoots(h)
	}
	h.tempRoots.trace(h)
	h.drain()

	// Prune the intern cache while mark bits from this trace are still
	// live; sweep (below) clears them from every surviving object as it
	// rebuilds the all-objects list.
	h.intern.prune()
	h.sweep(full)

	h.nextThreshold = int(float64(h.bytesAllocated) * h.growFactor)
	if h.nextThreshold < DefaultInitialThreshold {
		h.nextThreshold = DefaultInitialThreshold
	}

	h.log.Debug("gc collection",
		"full", full,
		"collections", h.collections,
		"bytes_before", before,
		"bytes_after", h.bytesAllocated,
		"live_objects", h.count,
		"next_threshold", h.nextThreshold,
	)
}

// sweep walks the all-objects list once, reclaiming unmarked members of
// the generation(s) under consideration, promoting marked nursery
// objects in place (never physically moving them — there is no
// compacting collector here), and rebuilding the list from survivors.
func (h *Heap) sweep(full bool) {
	var head, tail Obj
	bytes := 0
	count := 0

	for o := h.all; o != nil; {
		hdr := o.AllocHeader()
		next := hdr.next

		eligible := full || hdr.gen == GenNursery
		if eligible && !hdr.marked {
			o = next
			continue
		}
		if eligible && hdr.gen == GenNursery {
			hdr.gen = GenOld
		}
		hdr.marked = false

		bytes += o.Size()
		count++
		if head == nil {
			head = o
		} else {
			tail.AllocHeader().next = o
		}
		tail = o
		o = next
	}
	if tail != nil {
		tail.AllocHeader().next = nil
	}

	h.all = head
	h.bytesAllocated = bytes
	h.count = count
}
