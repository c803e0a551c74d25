// Package heap implements the VM's tracing garbage collector: a
// mark-and-sweep collector over an intrusive list of managed allocations,
// split into a nursery generation and an old generation, with a weak
// string intern cache and a safe, non-owning handle abstraction.
//
// # Overview
//
// Every value that is not nil, a bool, or a number lives behind a
// [Handle]: a typed, copyable, pointer-identity reference to an object
// allocated by [Manage]. Handles are never freed explicitly — an
// object is reclaimed the first time a collection completes without
// having marked it reachable from a root.
//
// # Generations
//
// New objects start in the nursery. A collection traces roots (supplied
// by the caller's [RootTracer]) and the LIFO temp-root stack, marking
// everything transitively reachable. A nursery-only sweep then either
// reclaims (the object was never marked) or promotes (flips the
// generation tag in place — objects are never physically moved, there
// is no compacting collector here) each nursery object. Every
// N'th collection (N set by [WithSweepEveryN]) is a full sweep that also visits the
// old generation, so old objects are eventually reclaimed too once they
// become unreachable.
//
// # Growth
//
// A collection is eligible once bytes_allocated exceeds a threshold that
// grows by the grow factor ([WithGrowFactor]) after each full accounting pass, mirroring
// the registry hive allocator's HBIN growth policy this package is
// ported from, generalized from page-growth to GC-threshold growth.
package heap
