package vm

import (
	"io"

	"github.com/joshuapare/hivekit/bytecode"
	"github.com/joshuapare/hivekit/errs"
	"github.com/joshuapare/hivekit/fiber"
	"github.com/joshuapare/hivekit/heap"
	"github.com/joshuapare/hivekit/value"
)

// runFiber decodes and executes instructions against fh's current
// frame until it leaves the Running state: Complete (its Return popped
// the last frame), Errored (an unwind found no catching frame), or
// Blocked (a channel operation parked it). Control then returns to
// vm.schedule, which decides what runs next (spec.md §4.5, §4.7).
func (vm *VM) runFiber(fh heap.Handle[*fiber.Fiber]) {
	f := fh.Deref()
	for f.State() == fiber.Running {
		vm.step(fh)
	}
}

// step decodes and executes exactly one instruction against fh's
// current frame. Besides runFiber's main loop, this also backs Call
// (the hooks.Caller entry point a Native uses to invoke back into
// language code): Call pushes a frame and drains it via repeated step
// calls until control returns to its own depth.
func (vm *VM) step(fh heap.Handle[*fiber.Fiber]) {
	f := fh.Deref()
	frame, ok := f.CurrentFrame()
	if !ok {
		f.SetComplete()
		return
	}
	chunk := frame.Closure.Deref().Fun().Deref().ChunkRef()
	code := chunk.Code()

	inst, ok := bytecode.Decode(code, int(frame.IP))
	if !ok {
		panic("vm: invalid bytecode at ip")
	}
	f.SetCurrentIP(frame.IP + uint32(inst.Len))

	vm.exec(fh, f, frame, chunk, inst)
}

// exec executes one decoded instruction against frame, which describes
// the frame state as of the start of this step (its ip has already
// been advanced past inst on f; frame.Base and frame.Closure are
// invariant for a currently-executing frame). Control-flow and call
// opcodes directly manipulate f's frame stack; every other opcode
// operates purely on f's value stack.
func (vm *VM) exec(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, frame fiber.CallFrame, chunk *value.Chunk, inst bytecode.Instruction) {
	base := int(frame.Base)

	switch inst.Op {
	case bytecode.Return:
		result, _ := f.Pop()
		f.CloseUpvaluesFrom(base)
		f.Truncate(base)
		f.PopFrame()
		f.Push(result)
		if f.FrameCount() == 0 {
			f.SetComplete()
		}

	case bytecode.Jump:
		f.SetCurrentIP(uint32(inst.A))

	case bytecode.JumpIfFalse:
		cond, _ := f.Pop()
		if !cond.Truthy() {
			f.SetCurrentIP(uint32(inst.A))
		}

	case bytecode.Loop:
		f.SetCurrentIP(uint32(inst.A))

	case bytecode.Constant, bytecode.ConstantLong:
		c, ok := chunk.Constant(int(inst.A))
		if !ok {
			panic("vm: constant index out of range")
		}
		f.Push(c)

	case bytecode.Nil:
		f.Push(value.Nil)
	case bytecode.True:
		f.Push(value.Bool(true))
	case bytecode.False:
		f.Push(value.Bool(false))
	case bytecode.Drop:
		f.Pop()

	case bytecode.Add:
		vm.execAdd(fh, f)
	case bytecode.Sub:
		vm.execArith(fh, f, func(a, b float64) float64 { return a - b })
	case bytecode.Mul:
		vm.execArith(fh, f, func(a, b float64) float64 { return a * b })
	case bytecode.Div:
		vm.execArith(fh, f, func(a, b float64) float64 { return a / b })
	case bytecode.Negate:
		vm.execNegate(fh, f)
	case bytecode.Not:
		v, _ := f.Pop()
		f.Push(value.Bool(!v.Truthy()))
	case bytecode.Equal:
		b, _ := f.Pop()
		a, _ := f.Pop()
		f.Push(value.Bool(value.Equal(a, b)))
	case bytecode.Greater:
		vm.execCompare(fh, f, func(a, b float64) bool { return a > b })
	case bytecode.Less:
		vm.execCompare(fh, f, func(a, b float64) bool { return a < b })

	case bytecode.DefineGlobal:
		name := vm.constString(chunk, inst.A)
		v, _ := f.Pop()
		vm.currentModule(frame).Define(name, v)

	case bytecode.GetGlobal:
		name := vm.constString(chunk, inst.A)
		v, ok := vm.lookupGlobal(frame, name)
		if !ok {
			vm.raiseInstance(fh, errs.RuntimeError, "undefined variable '"+name+"'")
			return
		}
		f.Push(v)

	case bytecode.SetGlobal:
		name := vm.constString(chunk, inst.A)
		v, _ := f.Peek(0)
		mod := vm.currentModule(frame)
		if _, ok := mod.Symbol(name); !ok {
			vm.raiseInstance(fh, errs.RuntimeError, "undefined variable '"+name+"'")
			return
		}
		mod.Define(name, v)

	case bytecode.GetLocal:
		f.Push(f.Get(base + int(inst.A)))
	case bytecode.SetLocal:
		v, _ := f.Peek(0)
		f.Set(base+int(inst.A), v)

	case bytecode.GetUpvalue:
		uv := frame.Closure.Deref().Upvalue(int(inst.A)).Deref()
		f.Push(upvalueRead(f, uv))
	case bytecode.SetUpvalue:
		v, _ := f.Peek(0)
		uv := frame.Closure.Deref().Upvalue(int(inst.A)).Deref()
		upvalueWrite(f, uv, v)

	case bytecode.List:
		l := heap.Manage(vm.Heap, value.NewList())
		f.Push(value.FromObj(l.Deref()))
	case bytecode.ListInit:
		n := int(inst.A)
		items := make([]value.Value, n)
		for i := n - 1; i >= 0; i-- {
			items[i], _ = f.Pop()
		}
		l := heap.Manage(vm.Heap, value.NewList(items...))
		f.Push(value.FromObj(l.Deref()))

	case bytecode.Map:
		m := heap.Manage(vm.Heap, value.NewMap())
		f.Push(value.FromObj(m.Deref()))
	case bytecode.MapInit:
		pairs := int(inst.A)
		m := value.NewMap()
		mh := heap.Manage(vm.Heap, m)
		entries := make([][2]value.Value, pairs)
		for i := pairs - 1; i >= 0; i-- {
			v, _ := f.Pop()
			k, _ := f.Pop()
			entries[i] = [2]value.Value{k, v}
		}
		for _, kv := range entries {
			m.Set(vm.Heap, kv[0], kv[1])
		}
		f.Push(value.FromObj(mh.Deref()))

	case bytecode.GetIndex:
		vm.execGetIndex(fh, f)
	case bytecode.SetIndex:
		vm.execSetIndex(fh, f)

	case bytecode.IterNext:
		vm.execIterNext(fh, f, int(inst.A))
	case bytecode.IterCurrent:
		vm.execIterCurrent(fh, f, int(inst.A))

	case bytecode.Class:
		vm.execClass(fh, f, chunk, int(inst.A))
	case bytecode.Method:
		name := vm.constString(chunk, inst.A)
		method, _ := f.Pop()
		cls, _ := f.Peek(0)
		cls.AsObj().(*value.Class).AddMethod(name, method)
	case bytecode.Inherit:
		vm.execInherit(fh, f)
	case bytecode.GetProperty:
		vm.execGetProperty(fh, f, chunk, int(inst.A))
	case bytecode.SetProperty:
		vm.execSetProperty(fh, f, chunk, int(inst.A))
	case bytecode.GetSuper:
		vm.execGetSuper(fh, f, chunk, int(inst.A))
	case bytecode.Invoke:
		vm.execInvoke(fh, f, chunk, int(inst.A), int(inst.B), false)
	case bytecode.SuperInvoke:
		vm.execInvoke(fh, f, chunk, int(inst.A), int(inst.B), true)

	case bytecode.Closure:
		newFrame, _ := f.CurrentFrame()
		ip := vm.makeClosure(f, frame, chunk.Code(), newFrame.IP, int(inst.A))
		f.SetCurrentIP(ip)

	case bytecode.CloseUpvalue:
		f.CloseUpvaluesFrom(f.StackLen() - 1)
		f.Pop()

	case bytecode.Call:
		vm.call(fh, int(inst.A))

	case bytecode.Import:
		vm.execImport(fh, f, chunk, int(inst.A), int(inst.B))
	case bytecode.Export:
		vm.execExport(fh, f, frame, chunk, int(inst.A))

	case bytecode.Print:
		v, _ := f.Pop()
		_, _ = io.WriteString(vm.Stdio.Stdout(), v.Format(4)+"\n")

	default:
		panic("vm: unimplemented opcode " + inst.Op.String())
	}
}

// constString resolves a chunk constant expected to be an interned
// String, the shape every name-bearing operand (global/property/method
// names) uses.
func (vm *VM) constString(chunk *value.Chunk, idx uint16) string {
	c, ok := chunk.Constant(int(idx))
	if !ok || !c.IsObj() {
		panic("vm: name constant index out of range")
	}
	s, ok := c.AsObj().(*value.String)
	if !ok {
		panic("vm: name constant is not a string")
	}
	return s.Go()
}

// currentModule returns the module owning the function executing in
// frame, the scope DefineGlobal/SetGlobal/Export operate against.
func (vm *VM) currentModule(frame fiber.CallFrame) *value.Module {
	return frame.Closure.Deref().Fun().Deref().Module().Deref()
}

// lookupGlobal resolves name against the executing function's module
// first, falling back to the VM-wide namespace (built-in error
// classes and the spawn/send/receive/raise natives) for symbols no
// module declares.
func (vm *VM) lookupGlobal(frame fiber.CallFrame, name string) (value.Value, bool) {
	mod := vm.currentModule(frame)
	if v, ok := mod.Symbol(name); ok {
		return v, true
	}
	return vm.Global(name)
}

func (vm *VM) execAdd(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber) {
	b, _ := f.Pop()
	a, _ := f.Pop()
	if a.IsNumber() && b.IsNumber() {
		f.Push(value.Number(a.AsNumber() + b.AsNumber()))
		return
	}
	as, aok := asString(a)
	bs, bok := asString(b)
	if aok && bok {
		h := vm.Hooks.ManageString(as + bs)
		f.Push(value.FromObj(h.Deref()))
		return
	}
	vm.raiseInstance(fh, errs.RuntimeError, "operands to '+' must both be numbers or both be strings")
}

func (vm *VM) execArith(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, op func(a, b float64) float64) {
	b, _ := f.Pop()
	a, _ := f.Pop()
	if !a.IsNumber() || !b.IsNumber() {
		vm.raiseInstance(fh, errs.RuntimeError, "operands must be numbers")
		return
	}
	f.Push(value.Number(op(a.AsNumber(), b.AsNumber())))
}

func (vm *VM) execNegate(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber) {
	v, _ := f.Pop()
	if !v.IsNumber() {
		vm.raiseInstance(fh, errs.RuntimeError, "operand must be a number")
		return
	}
	f.Push(value.Number(-v.AsNumber()))
}

func (vm *VM) execCompare(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, op func(a, b float64) bool) {
	b, _ := f.Pop()
	a, _ := f.Pop()
	if !a.IsNumber() || !b.IsNumber() {
		vm.raiseInstance(fh, errs.RuntimeError, "operands must be numbers")
		return
	}
	f.Push(value.Bool(op(a.AsNumber(), b.AsNumber())))
}

// asString reports the Go content of v if it holds a String object.
func asString(v value.Value) (string, bool) {
	if !v.IsObj() {
		return "", false
	}
	s, ok := v.AsObj().(*value.String)
	if !ok {
		return "", false
	}
	return s.Go(), true
}
