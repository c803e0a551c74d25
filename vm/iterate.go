package vm

import (
	"github.com/joshuapare/hivekit/errs"
	"github.com/joshuapare/hivekit/fiber"
	"github.com/joshuapare/hivekit/heap"
	"github.com/joshuapare/hivekit/value"
)

// execIterNext implements IterNext target: calls "next" on the
// iterator sitting at peek(0) (left in place for the loop body, and
// for the IterCurrent that typically follows it) and jumps to target
// when it reports exhaustion (a falsey return), ending the loop — the
// duck-typed iterator protocol any class can implement by defining
// "next" and "current" methods (spec.md §4.5/§4.7's iterator
// primitives, which the closed opcode enumeration exposes as jumps
// rather than dedicated method names).
func (vm *VM) execIterNext(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, target int) {
	iter, _ := f.Peek(0)
	more, ok := vm.invokeIteratorMethod(fh, iter, "next")
	if !ok {
		return
	}
	if !more.Truthy() {
		f.SetCurrentIP(uint32(target))
	}
}

// execIterCurrent implements IterCurrent target: calls "current" on
// the iterator at peek(0) and pushes its result. target is not used:
// if invoking "current" raises, the unwind protocol decides where
// execution goes. The operand exists so IterCurrent shares IterNext's
// operand shape rather than introducing a third one.
func (vm *VM) execIterCurrent(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, target int) {
	_ = target
	iter, _ := f.Peek(0)
	v, ok := vm.invokeIteratorMethod(fh, iter, "current")
	if !ok {
		return
	}
	f.Push(v)
}

// invokeIteratorMethod resolves name on iter's class and calls it with
// iter bound as the receiver, via the same synchronous callback path a
// Native uses (vm.Call). ok is false if the method call raised or
// iter's class has no such method at all, in which case the fiber has
// already transitioned out of Running.
func (vm *VM) invokeIteratorMethod(fh heap.Handle[*fiber.Fiber], iter value.Value, name string) (value.Value, bool) {
	inst, isInst := iter.AsObj().(*value.Instance)
	if !isInst {
		vm.raiseInstance(fh, errs.RuntimeError, "value is not iterable")
		return value.Value{}, false
	}
	method, ok := inst.Class().Deref().Method(name)
	if !ok {
		vm.raiseInstance(fh, errs.MethodNotFoundError, "iterator has no '"+name+"' method")
		return value.Value{}, false
	}
	closure, ok := method.AsObj().(*value.Closure)
	if !ok {
		nat, ok := method.AsObj().(*value.Native)
		if !ok {
			vm.raiseInstance(fh, errs.RuntimeError, "iterator method is not callable")
			return value.Value{}, false
		}
		// a Native iterator method: call it directly, no BoundMethod
		// boxing required since NativeFn already takes the receiver.
		out, err := nat.Call(vm.Hooks, iter, nil)
		if err != nil {
			vm.raiseInstance(fh, errs.RuntimeError, err.Error())
			return value.Value{}, false
		}
		return out, true
	}
	bm := heap.Manage(vm.Heap, value.NewBoundMethod(iter, heap.NewHandle(closure)))
	out, err := vm.Call(value.FromObj(bm.Deref()), nil)
	if err != nil {
		vm.raiseInstance(fh, errs.RuntimeError, err.Error())
		return value.Value{}, false
	}
	return out, true
}
