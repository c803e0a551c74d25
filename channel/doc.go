// Package channel implements the bounded, FIFO-fair rendezvous/queue
// primitive fibers communicate through (spec.md §4.6). It has no
// dependency on the fiber package: waiters are tracked as opaque
// tokens (typically a blocked fiber's handle, but this package never
// looks inside one), so the scheduler — which does know about fibers —
// is what correlates a woken token back to a fiber to resume. This
// keeps channel -> {heap, value} one-directional, the same layering
// [heap.RootTracer] uses to let the heap depend on a caller-supplied
// contract instead of the VM's concrete types.
package channel
