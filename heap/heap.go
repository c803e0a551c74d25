package heap

import (
	"log/slog"
)

const (
	// DefaultGrowFactor is the multiplier applied to bytesAllocated to
	// compute the next collection threshold, matching spec.md's
	// GROW_FACTOR default.
	DefaultGrowFactor = 2.0

	// DefaultInitialThreshold is the starting next_gc_threshold, chosen
	// low enough that a short-lived test program still exercises at
	// least one collection.
	DefaultInitialThreshold = 1 << 20 // 1 MiB

	// DefaultSweepEveryN is how often a nursery collection escalates to
	// a full sweep that also reclaims dead old-generation objects.
	DefaultSweepEveryN = 8
)

// Heap is the VM's managed heap: an intrusive list of every live
// allocation, a weak string intern cache, and the bookkeeping a
// mark-and-sweep collector needs to decide when to run.
//
// Heap is not safe for concurrent use from multiple goroutines — the
// language runtime it backs is single-threaded by design (spec §5), so
// no internal locking is needed or provided.
type Heap struct {
	mark markState

	all   Obj // head of the intrusive all-objects list
	count int // number of live allocations, for diagnostics

	tempRoots tempRoots
	tracer    RootTracer

	intern internTable

	bytesAllocated int
	nextThreshold  int
	growFactor     float64
	sweepEveryN    int
	collections    int

	stress bool // collect on every allocation, for GC-correctness tests

	log *slog.Logger
}

// Option configures a Heap at construction.
type Option func(*Heap)

// WithGrowFactor overrides DefaultGrowFactor.
func WithGrowFactor(f float64) Option {
	return func(h *Heap) { h.growFactor = f }
}

// WithInitialThreshold overrides DefaultInitialThreshold.
func WithInitialThreshold(n int) Option {
	return func(h *Heap) { h.nextThreshold = n }
}

// WithSweepEveryN overrides DefaultSweepEveryN.
func WithSweepEveryN(n int) Option {
	return func(h *Heap) {
		if n > 0 {
			h.sweepEveryN = n
		}
	}
}

// WithStressMode enables collect-on-every-allocation, the test
// instrumentation spec.md §4.1's failure model calls for to verify the
// root discipline is correct.
func WithStressMode(enabled bool) Option {
	return func(h *Heap) { h.stress = enabled }
}

// WithLogger overrides the default discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Heap) {
		if l != nil {
			h.log = l
		}
	}
}

// New creates a Heap. tracer supplies the VM's live root set whenever a
// collection runs; it may be nil until the VM is constructed, but no
// collection may run before it is set via SetRootTracer.
func New(tracer RootTracer, opts ...Option) *Heap {
	h := &Heap{
		tracer:        tracer,
		growFactor:    DefaultGrowFactor,
		nextThreshold: DefaultInitialThreshold,
		sweepEveryN:   DefaultSweepEveryN,
		intern:        newInternTable(),
		log:           discardLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SetRootTracer installs (or replaces) the root tracer, for VMs that
// construct their heap before they have fully initialized themselves.
func (h *Heap) SetRootTracer(tracer RootTracer) { h.tracer = tracer }

// BytesAllocated reports the collector's current byte accounting.
func (h *Heap) BytesAllocated() int { return h.bytesAllocated }

// NextGCThreshold reports the byte count that will trigger the next
// collection.
func (h *Heap) NextGCThreshold() int { return h.nextThreshold }

// Collections reports how many collections have run so far.
func (h *Heap) Collections() int { return h.collections }

// LiveObjects reports the number of allocations currently linked into
// the heap (an O(1) counter, not a walk).
func (h *Heap) LiveObjects() int { return h.count }

// PushTempRoot protects obj from collection until a matching call to
// PopTempRoots, for values under construction that are not yet
// reachable from any permanent root (e.g. a List's elements, allocated
// one at a time before the List itself exists to hold them).
func (h *Heap) PushTempRoot(obj Obj) {
	if obj == nil {
		return
	}
	h.tempRoots.push(obj)
}

// PopTempRoots removes the n most recently pushed temp roots.
func (h *Heap) PopTempRoots(n int) {
	h.tempRoots.popN(n)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
