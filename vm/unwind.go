package vm

import (
	"fmt"
	"strings"

	"github.com/joshuapare/hivekit/errs"
	"github.com/joshuapare/hivekit/fiber"
	"github.com/joshuapare/hivekit/heap"
	"github.com/joshuapare/hivekit/value"
)

// builtinErrorKinds lists every §7 taxonomy member that gets a
// built-in error class, in declaration order.
var builtinErrorKinds = []errs.Kind{
	errs.RuntimeError,
	errs.PropertyError,
	errs.MethodNotFoundError,
	errs.ImportError,
	errs.ExportError,
	errs.IoError,
	errs.SyntaxError,
}

// bootstrapErrorClasses builds one Class per §7 taxonomy member, each
// with a single "message" field, and installs it both in
// vm.errorClasses (keyed by Kind, for internal raises) and in the
// global namespace under its own name (so user code can subclass it,
// e.g. `class MyError <: RuntimeError {}`, and catch blocks can
// reference it by name).
func (vm *VM) bootstrapErrorClasses() {
	for _, kind := range builtinErrorKinds {
		cls := value.NewClass(kind.String(), []string{"message"})
		handle := heap.Manage(vm.Heap, cls)
		vm.errorClasses[kind] = handle
		vm.DefineGlobal(kind.String(), value.FromObj(cls))
	}
}

// raiseInstance constructs an Instance of kind's built-in error class
// with the given message and runs the unwind protocol for it starting
// at f's current frame. It returns the constructed error value for
// callers (e.g. a native wanting to report it as a Go error too).
func (vm *VM) raiseInstance(f heap.Handle[*fiber.Fiber], kind errs.Kind, message string) value.Value {
	cls := vm.errorClasses[kind]
	inst := value.NewInstance(cls)
	inst.SetField("message", value.FromObj(value.NewString(message)))
	errVal := value.FromObj(inst)
	vm.raiseValue(f, errVal)
	return errVal
}

// raiseValue runs the unwind protocol against an already-constructed
// error value (the path a user-level `raise(err)` native call takes,
// as opposed to an error the VM detected internally).
func (vm *VM) raiseValue(f heap.Handle[*fiber.Fiber], errVal value.Value) {
	if vm.unwind(f, errVal) {
		return
	}
	f.Deref().SetErrored(errVal)
}

// unwind implements spec.md §4.5's error unwinding: walk frames from
// current toward root; for each, consult the function's try-block
// table with the frame's ip; the innermost match sets ip to its end
// and pushes the error value, resuming execution in that frame. Every
// frame popped along the way has its portion of the value stack
// cleared back to its frame base (spec.md §7 propagation). Returns
// true if some frame caught the error.
func (vm *VM) unwind(fh heap.Handle[*fiber.Fiber], errVal value.Value) bool {
	f := fh.Deref()
	for f.FrameCount() > 0 {
		frame, ok := f.CurrentFrame()
		if !ok {
			return false
		}
		chunk := frame.Closure.Deref().Fun().Deref().ChunkRef()
		if end, caught := chunk.TryTable().HasCatchJump(int(frame.IP)); caught {
			f.CloseUpvaluesFrom(int(frame.Base))
			f.Truncate(int(frame.Base))
			f.Push(errVal)
			f.SetCurrentIP(uint32(end))
			return true
		}
		f.CloseUpvaluesFrom(int(frame.Base))
		f.Truncate(int(frame.Base))
		f.PopFrame()
	}
	return false
}

// renderErrorValue formats an uncaught error value for the backtrace
// the host receives (spec.md §7: "a rendered backtrace synthesized
// from frame ip->line via each chunk's line table"). By the time a
// fiber is Errored with no parent its frames have already been
// unwound, so this renders just the error value itself: the error the
// host receives carries no per-frame backtrace.
func renderErrorValue(v value.Value) string {
	return v.Format(4)
}

// renderBacktrace renders one line per active call frame, innermost
// first, as "  at <function> (line <n>)". It reads live frame state,
// so it only works before unwinding discards it; the VM's own raise
// and schedule paths do not call it.
func renderBacktrace(f *fiber.Fiber) string {
	var b strings.Builder
	for i := f.FrameCount() - 1; i >= 0; i-- {
		frame, ok := f.FrameAt(i)
		if !ok {
			continue
		}
		fun := frame.Closure.Deref().Fun().Deref()
		line := fun.ChunkRef().Lines().GetLine(int(frame.IP))
		fmt.Fprintf(&b, "  at %s (line %d)\n", fun.Name(), line)
	}
	return b.String()
}
