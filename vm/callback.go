package vm

import (
	"fmt"

	"github.com/joshuapare/hivekit/fiber"
	"github.com/joshuapare/hivekit/value"
)

// Call implements hooks.Caller: the entry point a NativeFn (or the
// iterator protocol, see iterate.go) uses to invoke back into language
// code synchronously. It runs against whichever fiber is currently
// executing, pushing callee and args the same way the Call opcode
// would, then draining the dispatch loop one step at a time until
// control returns to the depth it started at.
//
// A callee that raises an error which no frame catches, or that blocks
// on a channel operation, cannot be resolved synchronously; both
// surface as a Go error rather than leaving the fiber in a state the
// caller (mid native-function-call) has no way to continue from. This
// mirrors an embedding VM's protected-call boundary: a callback is not
// a peer of ordinary language-level calls, which unwind past it like
// any other frame.
func (vm *VM) Call(callee value.Value, args []value.Value) (value.Value, error) {
	if vm.current.IsNil() {
		return value.Value{}, fmt.Errorf("vm: Call invoked with no running fiber")
	}
	fh := vm.current
	f := fh.Deref()

	depth := f.FrameCount()
	calleeIdx := f.StackLen()
	f.Push(callee)
	for _, a := range args {
		f.Push(a)
	}
	argc := len(args)

	vm.dispatchCall(fh, f, callee, calleeIdx, argc)
	for f.FrameCount() > depth && f.State() == fiber.Running {
		vm.step(fh)
	}

	switch f.State() {
	case fiber.Errored:
		return value.Value{}, fmt.Errorf("vm: uncaught error in callback: %s", renderErrorValue(f.ErrValue()))
	case fiber.Blocked:
		return value.Value{}, fmt.Errorf("vm: callback blocked on a channel operation, which a native call cannot wait on")
	}

	result, _ := f.Pop()
	return result, nil
}
