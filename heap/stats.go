package heap

// Stats is a point-in-time snapshot of the collector's accounting,
// useful for tests and CLI introspection (spec.md §8 scenario 3: GC
// survival — bytes_allocated must drop below the loop's peak once the
// short-lived strings become unreachable).
type Stats struct {
	BytesAllocated int
	NextThreshold  int
	LiveObjects    int
	Collections    int
}

// Stats returns the current snapshot.
func (h *Heap) Stats() Stats {
	return Stats{
		BytesAllocated: h.bytesAllocated,
		NextThreshold:  h.nextThreshold,
		LiveObjects:    h.count,
		Collections:    h.collections,
	}
}
