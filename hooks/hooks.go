package hooks

import (
	"github.com/joshuapare/hivekit/heap"
	"github.com/joshuapare/hivekit/module"
	"github.com/joshuapare/hivekit/value"
)

// Caller is implemented by the VM and supplied to Hooks after
// construction, letting a NativeFn or the compiler's constant folder
// invoke back into the interpreter without the hooks package importing
// vm (which itself imports hooks for object construction) — the same
// late-bound-collaborator shape package channel uses for its opaque
// waiter tokens to avoid a symmetric cycle with package fiber.
type Caller interface {
	Call(callee value.Value, args []value.Value) (value.Value, error)
}

// Hooks is the façade handed to the compiler and to every NativeFn. It
// implements value.Hooks (ManageString, Call) and adds the fuller
// generic allocation surface (Manage, ManageObj) and a manual GC root
// stack (PushRoot/PopRoot) for sequences that build several objects
// before any of them is reachable from a normal root.
type Hooks struct {
	Heap    *heap.Heap
	Modules *module.Registry
	caller  Caller
	roots   []heap.Obj
}

// New constructs a Hooks over heap h and module registry modules. The
// Caller is supplied later via SetCaller once the VM itself exists,
// since the VM's own construction depends on a Hooks being available
// first (to build its built-in error classes and standard library).
func New(h *heap.Heap, modules *module.Registry) *Hooks {
	return &Hooks{Heap: h, Modules: modules}
}

// SetCaller installs the collaborator Call delegates to.
func (hk *Hooks) SetCaller(c Caller) { hk.caller = c }

// ManageString implements value.Hooks, interning s onto the heap.
func (hk *Hooks) ManageString(s string) heap.Handle[*value.String] {
	return value.Intern(hk.Heap, s)
}

// Call implements value.Hooks, delegating to the installed Caller.
func (hk *Hooks) Call(callee value.Value, args []value.Value) (value.Value, error) {
	return hk.caller.Call(callee, args)
}

// Manage allocates obj onto the heap, used by the compiler when it
// constructs Fun/Class/Module objects ahead of any bytecode running.
func Manage[T heap.Obj](hk *Hooks, obj T) heap.Handle[T] {
	return heap.Manage(hk.Heap, obj)
}

// ManageObj allocates obj onto the heap, used by native functions
// constructing new objects (List, Map, Instance) while the VM runs.
// Functionally identical to Manage; kept as a distinct name so a
// reader can tell compile-time construction from runtime construction
// at the call site.
func ManageObj[T heap.Obj](hk *Hooks, obj T) heap.Handle[T] {
	return heap.Manage(hk.Heap, obj)
}

// PushRoot pins obj against collection until a matching PopRoot, for
// sequences that allocate several objects before any of them is wired
// into a reachable structure — e.g. building a List's elements before
// the List itself exists to hold them.
func (hk *Hooks) PushRoot(obj heap.Obj) { hk.roots = append(hk.roots, obj) }

// PopRoot unpins the most recently pushed root.
func (hk *Hooks) PopRoot() {
	if len(hk.roots) == 0 {
		return
	}
	hk.roots = hk.roots[:len(hk.roots)-1]
}

// Trace marks every pinned root. The VM's own RootTracer calls this
// alongside tracing its fibers, globals, and module registry.
func (hk *Hooks) Trace(marker heap.Marker) {
	for _, obj := range hk.roots {
		marker.Mark(obj)
	}
	hk.Modules.Trace(marker)
}

var _ value.Hooks = (*Hooks)(nil)
