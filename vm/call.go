package vm

import (
	"github.com/joshuapare/hivekit/bytecode"
	"github.com/joshuapare/hivekit/errs"
	"github.com/joshuapare/hivekit/fiber"
	"github.com/joshuapare/hivekit/heap"
	"github.com/joshuapare/hivekit/value"
)

// call dispatches the Call opcode: callee sits at peek(argc), with the
// argc arguments above it on the stack (spec.md §4.5). Every branch
// either pushes a new frame (Closure, BoundMethod, Class with a
// Closure initializer) and lets the dispatch loop continue into it, or
// resolves synchronously (Native, Class with no initializer) and
// leaves exactly one result value at calleeIdx.
func (vm *VM) call(fh heap.Handle[*fiber.Fiber], argc int) {
	f := fh.Deref()
	calleeIdx := f.StackLen() - 1 - argc
	callee, ok := f.Peek(argc)
	if !ok {
		panic("vm: Call operand count exceeds stack depth")
	}
	vm.dispatchCall(fh, f, callee, calleeIdx, argc)
}

// dispatchCall routes callee to its calling convention. calleeIdx is
// the absolute stack slot callee itself occupies; the argc values
// above it are its arguments.
func (vm *VM) dispatchCall(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, callee value.Value, calleeIdx, argc int) {
	if !callee.IsObj() {
		vm.raiseInstance(fh, errs.RuntimeError, "value is not callable")
		return
	}
	switch obj := callee.AsObj().(type) {
	case *value.Closure:
		vm.callClosure(fh, f, heap.NewHandle(obj), calleeIdx, argc)
	case *value.BoundMethod:
		f.Set(calleeIdx, obj.Receiver())
		vm.callClosure(fh, f, obj.Method(), calleeIdx, argc)
	case *value.Class:
		vm.callClass(fh, f, heap.NewHandle(obj), calleeIdx, argc)
	case *value.Native:
		vm.callNative(fh, f, obj, calleeIdx, argc)
	default:
		vm.raiseInstance(fh, errs.RuntimeError, "value is not callable")
	}
}

// callClosure checks arity (packing overflow arguments into a trailing
// List for a Variadic function, padding missing ones with Nil for a
// Default-arity function), then pushes a frame with locals starting at
// calleeIdx — slot 0 is the callee/receiver slot itself, matching the
// convention BoundMethod and Class construction rely on to install
// `this` there before the call.
func (vm *VM) callClosure(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, closure heap.Handle[*value.Closure], calleeIdx, argc int) {
	fun := closure.Deref().Fun().Deref()
	arity := fun.Arity()

	switch arity.Kind {
	case value.ArityVariadic:
		if argc < arity.Min {
			vm.raiseInstance(fh, errs.RuntimeError, "wrong number of arguments")
			return
		}
		rest := make([]value.Value, 0, argc-arity.Min)
		for i := calleeIdx + 1 + arity.Min; i < calleeIdx+1+argc; i++ {
			rest = append(rest, f.Get(i))
		}
		f.Truncate(calleeIdx + 1 + arity.Min)
		f.Push(value.FromObj(heap.Manage(vm.Heap, value.NewList(rest...)).Deref()))
	default:
		if !arity.Accepts(argc) {
			vm.raiseInstance(fh, errs.RuntimeError, "wrong number of arguments")
			return
		}
		for i := argc; i < arity.Max; i++ {
			f.Push(value.Nil)
		}
	}

	if !f.PushFrame(closure, calleeIdx) {
		vm.raiseInstance(fh, errs.RuntimeError, "call stack overflow")
	}
}

// callClass allocates a fresh Instance of cls, installs it at
// calleeIdx (the slot a Closure initializer sees as `this`), and runs
// its "init" method if one is declared. With no initializer, or a
// Native one, the call resolves synchronously: arguments are dropped
// and the instance itself is left as the result.
func (vm *VM) callClass(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, cls heap.Handle[*value.Class], calleeIdx, argc int) {
	inst := heap.Manage(vm.Heap, value.NewInstance(cls))
	f.Set(calleeIdx, value.FromObj(inst.Deref()))

	init, hasInit := cls.Deref().Method("init")
	if !hasInit {
		f.Truncate(calleeIdx + 1)
		return
	}
	if initClosure, ok := init.AsObj().(*value.Closure); ok {
		vm.callClosure(fh, f, heap.NewHandle(initClosure), calleeIdx, argc)
		return
	}
	if initNative, ok := init.AsObj().(*value.Native); ok {
		vm.runNative(fh, f, initNative, value.FromObj(inst.Deref()), calleeIdx, argc)
		f.Truncate(calleeIdx + 1)
		f.Set(calleeIdx, value.FromObj(inst.Deref()))
		return
	}
	vm.raiseInstance(fh, errs.RuntimeError, "init is not callable")
}

// callNative resolves a Native call. spawn/send/receive/raise are
// VM-bootstrapped natives recognized by identity (see scheduler.go):
// unlike an ordinary Native they may suspend the fiber or trigger the
// unwind protocol rather than simply returning a value, so they are
// routed to dedicated handlers instead of runNative's synchronous
// path.
func (vm *VM) callNative(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, nat *value.Native, calleeIdx, argc int) {
	switch nat {
	case vm.spawnNative:
		vm.nativeSpawn(fh, f, calleeIdx, argc)
		return
	case vm.sendNative:
		vm.nativeSend(fh, f, calleeIdx, argc)
		return
	case vm.receiveNative:
		vm.nativeReceive(fh, f, calleeIdx, argc)
		return
	case vm.raiseNative:
		vm.nativeRaise(fh, f, calleeIdx, argc)
		return
	}
	vm.runNative(fh, f, nat, value.Nil, calleeIdx, argc)
}

// runNative invokes nat synchronously with an explicit receiver (Nil
// for a plain Call, the resolved instance for Invoke/init dispatch),
// replacing the callee/args span with its single result.
func (vm *VM) runNative(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, nat *value.Native, receiver value.Value, calleeIdx, argc int) {
	args := make([]value.Value, argc)
	for i := 0; i < argc; i++ {
		args[i] = f.Get(calleeIdx + 1 + i)
	}
	out, err := nat.Call(vm.Hooks, receiver, args)
	if err != nil {
		vm.raiseInstance(fh, errs.RuntimeError, err.Error())
		return
	}
	f.Truncate(calleeIdx)
	f.Push(out)
}

// makeClosure executes a Closure k instruction: k names fun's constant
// slot; the chunk bytes immediately following (decoded here, not by
// the dispatch loop) supply fun.UpvalueCount()
// UpvalueIndex descriptors, each either reusing an existing open
// upvalue over the enclosing frame's locals (CaptureLocal) or
// forwarding the enclosing closure's own upvalue handle
// (CaptureUpvalue). Returns the instruction pointer just past the last
// descriptor.
func (vm *VM) makeClosure(f *fiber.Fiber, frame fiber.CallFrame, code []byte, ip uint32, constIdx int) uint32 {
	chunk := frame.Closure.Deref().Fun().Deref().ChunkRef()
	constVal, ok := chunk.Constant(constIdx)
	if !ok || !constVal.IsObj() {
		panic("vm: Closure constant is not a function")
	}
	fun, ok := constVal.AsObj().(*value.Fun)
	if !ok {
		panic("vm: Closure constant is not a function")
	}
	funHandle := heap.NewHandle(fun)

	upvalues := make([]heap.Handle[*value.Upvalue], fun.UpvalueCount())
	for i := 0; i < fun.UpvalueCount(); i++ {
		inst, ok := bytecode.Decode(code, int(ip))
		if !ok || inst.Op != bytecode.UpvalueIndex {
			panic("vm: malformed upvalue descriptor following Closure")
		}
		ip += uint32(inst.Len)

		kind := bytecode.UpvalueCaptureKind(inst.A)
		idx := int(inst.B)
		switch kind {
		case bytecode.CaptureLocal:
			stackIndex := int(frame.Base) + idx
			if existing, found := f.FindOpenUpvalue(stackIndex); found {
				upvalues[i] = existing
				continue
			}
			uv := heap.Manage(vm.Heap, value.NewOpenUpvalue(stackIndex))
			f.InsertOpenUpvalue(uv)
			upvalues[i] = uv
		case bytecode.CaptureUpvalue:
			upvalues[i] = frame.Closure.Deref().Upvalue(idx)
		}
	}

	closure := heap.Manage(vm.Heap, value.NewClosure(funHandle, upvalues))
	f.Push(value.FromObj(closure.Deref()))
	return ip
}

// upvalueRead resolves uv's current value, reading through the fiber's
// live stack slot while Open.
func upvalueRead(f *fiber.Fiber, uv *value.Upvalue) value.Value {
	if uv.IsOpen() {
		return f.Get(uv.StackIndex())
	}
	return uv.Get(nil)
}

// upvalueWrite writes through uv, to the fiber's live stack slot while
// Open.
func upvalueWrite(f *fiber.Fiber, uv *value.Upvalue, v value.Value) {
	if uv.IsOpen() {
		f.Set(uv.StackIndex(), v)
		return
	}
	uv.Set(nil, v)
}
