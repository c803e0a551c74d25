package heap

// Generation distinguishes a nursery object (newly allocated, swept
// every collection) from an old-generation object (survived at least
// one collection, swept only every N collections, N set by
// [WithSweepEveryN]).
//
// This mirrors the hive allocator's cell header, whose signed size
// field doubles as an allocated/free flag (negative = allocated,
// positive = free): here a single small header carries the analogous
// bookkeeping bits for a managed object instead of a raw on-disk cell.
type Generation uint8

const (
	GenNursery Generation = iota
	GenOld
)

// Header is embedded by every [Obj] implementation. It is the
// collector's only window into an object: the intrusive singly-linked
// list pointer used to walk every live allocation during sweep, the
// mark bit set during trace, and the generation tag promotion flips.
//
// Header carries no payload of its own — it exists purely for GC
// bookkeeping, the way a hive Cell's 4-byte size header exists purely
// to let the allocator and walker iterate cells without parsing their
// payload.
type Header struct {
	next   Obj
	marked bool
	gen    Generation
}

// Marked reports whether this object survived the most recent trace.
func (h *Header) Marked() bool { return h.marked }

// Generation reports this object's current generation.
func (h *Header) Generation() Generation { return h.gen }
