package heap

// internTable is the weak, heap-instance-wide string cache the heap
// alone mutates (spec.md §5: "the intern cache is a process-wide
// collaborator owned by the heap; only the heap mutates it" — "process"
// here means one interpreter instance, per spec.md's Design Notes on
// multiple independent heaps being supported side by side). It is
// weak-valued: an entry is dropped once its handle's mark bit comes up
// clear at sweep time, the same sighting that is about to reclaim the
// object itself.
//
// Grounded on hive/namecache/cache.go's byte-keyed map design, with the
// LRU eviction policy dropped — here liveness, not a capacity budget,
// decides when an entry goes away.
type internTable struct {
	entries map[string]Obj
}

func newInternTable() internTable {
	return internTable{entries: make(map[string]Obj)}
}

func (t *internTable) lookup(s string) (Obj, bool) {
	obj, ok := t.entries[s]
	return obj, ok
}

func (t *internTable) insert(s string, obj Obj) {
	t.entries[s] = obj
}

// prune drops every entry whose handle did not survive the collection
// that just finished tracing (its mark bit is clear). Called from
// Collect after marking and before sweep, so it reads the same mark
// bits sweep is about to act on and drops each dead entry before sweep
// unlinks the underlying object.
func (t *internTable) prune() {
	for s, obj := range t.entries {
		if !obj.AllocHeader().marked {
			delete(t.entries, s)
		}
	}
}
