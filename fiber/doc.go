// Package fiber implements the VM's unit of cooperative execution: a
// value stack, a call-frame array, and a sorted list of currently-open
// upvalues (spec.md §4.5).
//
// A Fiber's value stack holds Values, which may carry live heap
// handles the collector must trace — it is an ordinary Go slice the
// collector can walk. The frame array's per-frame instruction pointer
// and stack-base bookkeeping hold no pointers at all, so that half is
// backed by a fixed-size, non-growing memory region ([arena.go]) the
// same way the hive allocator reserves a fixed-capacity mapped region
// up front rather than growing on demand.
package fiber
