package vm

import (
	"github.com/joshuapare/hivekit/errs"
	"github.com/joshuapare/hivekit/fiber"
	"github.com/joshuapare/hivekit/heap"
	"github.com/joshuapare/hivekit/value"
)

// execGetIndex implements GetIndex: pop index then target, push the
// element. Lists index by number (out of range is a RuntimeError, not
// nil, since a positional slot is either there or the program has a
// bug); Maps return Nil for an absent key (a Map is a partial
// function, not a fixed-shape record); Strings index by rune,
// producing a single-character String.
func (vm *VM) execGetIndex(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber) {
	idx, _ := f.Pop()
	target, _ := f.Pop()
	if !target.IsObj() {
		vm.raiseInstance(fh, errs.RuntimeError, "value is not indexable")
		return
	}
	switch t := target.AsObj().(type) {
	case *value.List:
		if !idx.IsNumber() {
			vm.raiseInstance(fh, errs.RuntimeError, "list index must be a number")
			return
		}
		v, ok := t.Get(int(idx.AsNumber()))
		if !ok {
			vm.raiseInstance(fh, errs.RuntimeError, "list index out of range")
			return
		}
		f.Push(v)
	case *value.Map:
		v, ok := t.Get(idx)
		if !ok {
			f.Push(value.Nil)
			return
		}
		f.Push(v)
	case *value.String:
		if !idx.IsNumber() {
			vm.raiseInstance(fh, errs.RuntimeError, "string index must be a number")
			return
		}
		runes := []rune(t.Go())
		i := int(idx.AsNumber())
		if i < 0 || i >= len(runes) {
			vm.raiseInstance(fh, errs.RuntimeError, "string index out of range")
			return
		}
		h := vm.Hooks.ManageString(string(runes[i]))
		f.Push(value.FromObj(h.Deref()))
	default:
		vm.raiseInstance(fh, errs.RuntimeError, "value is not indexable")
	}
}

// execSetIndex implements SetIndex: pop value, index, target (in that
// order, matching GetIndex's pop order plus the assigned value on
// top), apply the write, and push the assigned value back as the
// expression's result.
func (vm *VM) execSetIndex(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber) {
	val, _ := f.Pop()
	idx, _ := f.Pop()
	target, _ := f.Pop()
	if !target.IsObj() {
		vm.raiseInstance(fh, errs.RuntimeError, "value does not support index assignment")
		return
	}
	switch t := target.AsObj().(type) {
	case *value.List:
		if !idx.IsNumber() {
			vm.raiseInstance(fh, errs.RuntimeError, "list index must be a number")
			return
		}
		if !t.Set(int(idx.AsNumber()), val) {
			vm.raiseInstance(fh, errs.RuntimeError, "list index out of range")
			return
		}
	case *value.Map:
		t.Set(vm.Heap, idx, val)
	default:
		vm.raiseInstance(fh, errs.RuntimeError, "value does not support index assignment")
		return
	}
	f.Push(val)
}

// execClass implements Class k: k names a constant-pool Class template
// (name and declared field order only, baked in by the compiler); a
// fresh live Class is allocated from it on every execution so a class
// declaration nested in a function or loop body produces an
// independent class each time, matching Fun/Closure's split between
// compiled template and per-execution instance.
func (vm *VM) execClass(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, chunk *value.Chunk, constIdx int) {
	c, ok := chunk.Constant(constIdx)
	if !ok || !c.IsObj() {
		panic("vm: Class constant index out of range")
	}
	tmpl, ok := c.AsObj().(*value.Class)
	if !ok {
		panic("vm: Class constant is not a class template")
	}
	cls := heap.Manage(vm.Heap, value.NewClass(tmpl.Name(), tmpl.Fields()))
	f.Push(value.FromObj(cls.Deref()))
}

// execInherit implements Inherit: pops the subclass (top) and the
// superclass below it, installs the link (copying the superclass's
// method table per [value.Class.SetSuper]), and pushes the subclass
// back as the declaration's resulting value.
func (vm *VM) execInherit(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber) {
	sub, _ := f.Pop()
	super, _ := f.Pop()
	subCls, ok := sub.AsObj().(*value.Class)
	if !ok {
		vm.raiseInstance(fh, errs.RuntimeError, "cannot inherit: not a class")
		return
	}
	superCls, ok := super.AsObj().(*value.Class)
	if !ok {
		vm.raiseInstance(fh, errs.RuntimeError, "superclass must be a class")
		return
	}
	subCls.SetSuper(heap.NewHandle(superCls))
	f.Push(sub)
}

// execGetProperty implements GetProperty: pop the target instance,
// push a declared field if name names one, else a method bound into a
// BoundMethod (Closure methods only — a Native found by name is pushed
// unbound, since NativeFn already takes its receiver as an explicit
// parameter supplied by the caller). No field or method named on the
// instance's class chain is a PropertyError.
func (vm *VM) execGetProperty(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, chunk *value.Chunk, constIdx int) {
	name := vm.constString(chunk, uint16(constIdx))
	target, _ := f.Pop()
	inst, ok := target.AsObj().(*value.Instance)
	if !ok {
		vm.raiseInstance(fh, errs.RuntimeError, "only instances have properties")
		return
	}
	if v, ok := inst.Field(name); ok {
		f.Push(v)
		return
	}
	method, ok := inst.Class().Deref().Method(name)
	if !ok {
		vm.raiseInstance(fh, errs.PropertyError, "undefined property '"+name+"'")
		return
	}
	if closure, ok := method.AsObj().(*value.Closure); ok {
		bm := heap.Manage(vm.Heap, value.NewBoundMethod(target, heap.NewHandle(closure)))
		f.Push(value.FromObj(bm.Deref()))
		return
	}
	f.Push(method)
}

// execSetProperty implements SetProperty: pop value then target, write
// the named declared field, push the assigned value back. Assigning an
// undeclared field name is a PropertyError (spec.md §4.5: the field
// set is fixed at class declaration).
func (vm *VM) execSetProperty(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, chunk *value.Chunk, constIdx int) {
	name := vm.constString(chunk, uint16(constIdx))
	val, _ := f.Pop()
	target, _ := f.Pop()
	inst, ok := target.AsObj().(*value.Instance)
	if !ok {
		vm.raiseInstance(fh, errs.RuntimeError, "only instances have properties")
		return
	}
	if !inst.SetField(name, val) {
		vm.raiseInstance(fh, errs.PropertyError, "undefined property '"+name+"'")
		return
	}
	f.Push(val)
}

// execGetSuper implements GetSuper: pops the superclass value (pushed
// by the compiled `super` reference) then the receiver (`this`),
// resolves name against the superclass's own method map, and pushes it
// bound to the receiver.
func (vm *VM) execGetSuper(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, chunk *value.Chunk, constIdx int) {
	name := vm.constString(chunk, uint16(constIdx))
	super, _ := f.Pop()
	this, _ := f.Pop()
	superCls, ok := super.AsObj().(*value.Class)
	if !ok {
		vm.raiseInstance(fh, errs.RuntimeError, "super target is not a class")
		return
	}
	method, ok := superCls.Method(name)
	if !ok {
		vm.raiseInstance(fh, errs.MethodNotFoundError, "undefined method '"+name+"' on superclass")
		return
	}
	closure, ok := method.AsObj().(*value.Closure)
	if !ok {
		f.Push(method)
		return
	}
	bm := heap.Manage(vm.Heap, value.NewBoundMethod(this, heap.NewHandle(closure)))
	f.Push(value.FromObj(bm.Deref()))
}

// execInvoke implements both Invoke and SuperInvoke: a fused
// GetProperty+Call that resolves the method directly against the
// receiver's class (or, for SuperInvoke, the explicit superclass
// popped off the top of the argument span) without allocating an
// intermediate BoundMethod. The receiver stays at peek(argc),
// unmodified, serving as slot 0 of the callee's new frame exactly as
// BoundMethod dispatch arranges it.
func (vm *VM) execInvoke(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, chunk *value.Chunk, constIdx, argc int, super bool) {
	name := vm.constString(chunk, uint16(constIdx))

	var cls *value.Class
	if super {
		superVal, _ := f.Pop()
		sc, ok := superVal.AsObj().(*value.Class)
		if !ok {
			vm.raiseInstance(fh, errs.RuntimeError, "super target is not a class")
			return
		}
		cls = sc
	} else {
		receiver, ok := f.Peek(argc)
		if !ok {
			panic("vm: Invoke operand count exceeds stack depth")
		}
		inst, ok := receiver.AsObj().(*value.Instance)
		if !ok {
			vm.raiseInstance(fh, errs.RuntimeError, "only instances have methods")
			return
		}
		cls = inst.Class().Deref()
	}

	method, ok := cls.Method(name)
	if !ok {
		vm.raiseInstance(fh, errs.MethodNotFoundError, "undefined method '"+name+"'")
		return
	}

	calleeIdx := f.StackLen() - 1 - argc
	switch m := method.AsObj().(type) {
	case *value.Closure:
		vm.callClosure(fh, f, heap.NewHandle(m), calleeIdx, argc)
	case *value.Native:
		vm.runNative(fh, f, m, f.Get(calleeIdx), calleeIdx, argc)
	default:
		vm.raiseInstance(fh, errs.RuntimeError, "method is not callable")
	}
}
