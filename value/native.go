package value

import (
	"fmt"

	"github.com/joshuapare/hivekit/heap"
)

// Hooks is the minimal facade a NativeFn receives: the ability to
// allocate an interned string and to call back into the VM. The fuller
// compiler-facing facade (package hooks) implements this interface and adds
// generic Manage/root-stack operations that would otherwise force this
// package to depend on the heap package's generic allocation API at
// the call-site type level.
type Hooks interface {
	ManageString(s string) heap.Handle[*String]
	Call(callee Value, args []Value) (Value, error)
}

// NativeFn is a host-implemented function bound into a class's method
// table or a module's symbol table. receiver is the zero Value for a
// free function.
type NativeFn func(h Hooks, receiver Value, args []Value) (Value, error)

// Native wraps a host function with the metadata the VM's Call
// dispatch needs: name (for backtraces), declared arity (checked
// before fn ever runs), and param kind labels for diagnostics.
type Native struct {
	heap.Header
	name       string
	arity      Arity
	paramKinds []string
	fn         NativeFn
}

// NewNative constructs a Native.
func NewNative(name string, arity Arity, paramKinds []string, fn NativeFn) *Native {
	return &Native{name: name, arity: arity, paramKinds: paramKinds, fn: fn}
}

func (n *Native) AllocHeader() *heap.Header { return &n.Header }
func (n *Native) Trace(heap.Marker)          {}
func (n *Native) Size() int                  { return len(n.paramKinds)*16 + len(n.name) + 32 }
func (n *Native) Kind() heap.Kind            { return heap.KindNative }
func (n *Native) Format(int) string          { return fmt.Sprintf("<native fn %s>", n.name) }

// Name returns the native function's name.
func (n *Native) Name() string { return n.name }

// Arity returns the native function's declared calling convention.
func (n *Native) Arity() Arity { return n.arity }

// ParamKinds returns the declared parameter kind labels.
func (n *Native) ParamKinds() []string { return n.paramKinds }

// Call invokes the wrapped host function, checking arity first.
func (n *Native) Call(h Hooks, receiver Value, args []Value) (Value, error) {
	if !n.arity.Accepts(len(args)) {
		return Value{}, fmt.Errorf("native %s: expected arity %s, got %d args", n.name, n.arity, len(args))
	}
	return n.fn(h, receiver, args)
}
