package heap

// Handle is a copyable, non-owning, pointer-identity reference to a
// heap-managed object of concrete type T. It is the "safe abstraction
// for raw heap handles" the object model is built on: callers never
// hold a bare *T across an allocation without it being reachable from a
// root, and the zero Handle[T] is a well-defined nil reference.
//
// Handle deliberately does not expose T's zero-value pointer directly
// as "no object" — IsNil checks against the generic zero value so a nil
// handle is indistinguishable from a freshly zeroed struct field,
// matching how the VM represents "no upvalue captured yet" or "no
// superclass" slots.
type Handle[T Obj] struct {
	obj T
}

// NewHandle wraps obj in a Handle. Callers obtain obj from [Manage];
// wrapping an object that was not returned by this heap is a defect.
func NewHandle[T Obj](obj T) Handle[T] {
	return Handle[T]{obj: obj}
}

// Deref returns the underlying object. It is always safe to call: Go's
// own memory safety means a Handle can never dangle the way a raw
// pointer into a manually-managed arena could, so Deref never fails —
// the collector's contract is simply that it will not reclaim an object
// reachable from a root, never that reachability is the caller's job to
// re-verify per access.
func (h Handle[T]) Deref() T { return h.obj }

// Obj returns the handle's referent widened to the Obj interface, for
// passing to root-marking APIs that are agnostic to the concrete type.
func (h Handle[T]) Obj() Obj { return h.obj }

// IsNil reports whether this handle was never assigned an object.
func (h Handle[T]) IsNil() bool {
	var zero T
	return any(h.obj) == any(zero)
}

// Equal reports pointer-identity equality between two handles of the
// same concrete type. Two distinct allocations are never Equal, even if
// their contents match — identity, not structural equality (the string
// intern cache is what gives equal strings identity equality too; see
// [ManageString]).
func (h Handle[T]) Equal(other Handle[T]) bool {
	return any(h.obj) == any(other.obj)
}
