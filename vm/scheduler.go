package vm

import (
	"fmt"

	"github.com/joshuapare/hivekit/channel"
	"github.com/joshuapare/hivekit/errs"
	"github.com/joshuapare/hivekit/fiber"
	"github.com/joshuapare/hivekit/heap"
	"github.com/joshuapare/hivekit/value"
)

// pendingChannelOp remembers a blocked fiber's send/receive call well
// enough to finish it once the channel resolves it: calleeIdx is where
// on the fiber's own stack the call's callee (and, above it, its
// arguments) still sit, dir says which half of the channel protocol it
// was parked on, and ch is the channel itself.
type pendingChannelOp struct {
	calleeIdx int
	dir       fiber.Direction
	ch        heap.Handle[*channel.Channel]
}

// bootstrapSchedulerNatives installs the four concurrency primitives
// spec.md §4.6/§4.7 describes as ordinary callables (spawn, send,
// receive, raise) as VM-wide globals. Each is a sentinel *value.Native
// recognized by pointer identity in callNative rather than by running
// its NativeFn: all four can suspend the calling fiber or trigger the
// unwind protocol, neither of which an ordinary synchronous Native.Call
// can express.
func (vm *VM) bootstrapSchedulerNatives() {
	vm.spawnNative = value.NewNative("spawn", value.Variadic(1), []string{"function", "..."}, schedulerNativeUnreachable)
	vm.sendNative = value.NewNative("send", value.Fixed(2), []string{"channel", "value"}, schedulerNativeUnreachable)
	vm.receiveNative = value.NewNative("receive", value.Fixed(1), []string{"channel"}, schedulerNativeUnreachable)
	vm.raiseNative = value.NewNative("raise", value.Fixed(1), []string{"value"}, schedulerNativeUnreachable)

	vm.DefineGlobal("spawn", value.FromObj(vm.spawnNative))
	vm.DefineGlobal("send", value.FromObj(vm.sendNative))
	vm.DefineGlobal("receive", value.FromObj(vm.receiveNative))
	vm.DefineGlobal("raise", value.FromObj(vm.raiseNative))
}

// schedulerNativeUnreachable backs the four scheduler sentinels'
// NativeFn slot; it only runs if one of them is ever invoked through
// Native.Call directly (e.g. value.NewBoundMethod) instead of through
// callNative's pointer switch, which should never happen since none of
// them are installed as class methods.
func schedulerNativeUnreachable(value.Hooks, value.Value, []value.Value) (value.Value, error) {
	return value.Value{}, fmt.Errorf("vm: scheduler native called outside the VM dispatch loop")
}

// nativeSpawn implements spawn(fn, ...args): starts fn running on a
// fresh Ready fiber whose parent is the caller (spec.md §4.5: "its
// parent fiber (if any) resumes with the error" on an uncaught error),
// and returns the new fiber as a first-class value to the caller
// immediately — spawn never blocks.
func (vm *VM) nativeSpawn(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, calleeIdx, argc int) {
	if argc < 1 {
		vm.raiseInstance(fh, errs.RuntimeError, "spawn expects a function to run")
		return
	}
	callee := f.Get(calleeIdx + 1)
	args := make([]value.Value, argc-1)
	for i := range args {
		args[i] = f.Get(calleeIdx + 2 + i)
	}

	child, err := vm.NewFiber()
	if err != nil {
		vm.raiseInstance(fh, errs.RuntimeError, err.Error())
		return
	}
	childF := child.Deref()
	childF.SetParent(fh)
	childF.Push(callee)
	for _, a := range args {
		childF.Push(a)
	}
	vm.dispatchCall(child, childF, callee, 0, len(args))
	childF.SetReady()
	vm.ready = append(vm.ready, child)

	f.Truncate(calleeIdx)
	f.Push(value.FromObj(childF))
}

// nativeSend implements send(channel, value). A handoff or a queued
// send completes immediately; a blocked send records a pendingChannelOp
// and parks the fiber, to be finished later by resolveChannelOp without
// ever re-running Channel.Send (see vm.go's wake).
func (vm *VM) nativeSend(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, calleeIdx, argc int) {
	if argc != 2 {
		vm.raiseInstance(fh, errs.RuntimeError, "send expects exactly 2 arguments")
		return
	}
	chVal := f.Get(calleeIdx + 1)
	v := f.Get(calleeIdx + 2)
	ch, ok := chVal.AsObj().(*channel.Channel)
	if !ok {
		vm.raiseInstance(fh, errs.RuntimeError, "send expects a channel as its first argument")
		return
	}
	chHandle := heap.NewHandle(ch)

	outcome, wokenReceiver := ch.Send(fh, v)
	switch outcome {
	case channel.SendOK, channel.SendHandoff:
		f.Truncate(calleeIdx)
		f.Push(value.Nil)
		if wokenReceiver != nil {
			vm.wake(wokenReceiver)
		}
	case channel.SendBlocked:
		vm.pendingChannelOps[fh] = pendingChannelOp{calleeIdx: calleeIdx, dir: fiber.DirSend, ch: chHandle}
		f.SetBlocked(chHandle, fiber.DirSend)
	case channel.SendOnClosed:
		vm.raiseInstance(fh, errs.RuntimeError, "send on closed channel")
	}
}

// nativeReceive implements receive(channel).
func (vm *VM) nativeReceive(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, calleeIdx, argc int) {
	if argc != 1 {
		vm.raiseInstance(fh, errs.RuntimeError, "receive expects exactly 1 argument")
		return
	}
	chVal := f.Get(calleeIdx + 1)
	ch, ok := chVal.AsObj().(*channel.Channel)
	if !ok {
		vm.raiseInstance(fh, errs.RuntimeError, "receive expects a channel argument")
		return
	}
	vm.completeReceive(fh, f, heap.NewHandle(ch), calleeIdx)
}

// completeReceive runs (or reruns, after a wake) a Channel.Receive
// call against the fiber waiting at calleeIdx. This is the one half of
// the send/receive asymmetry that is always safe to retry: whether
// ReceiveOK resolves via a value already queued, or via a value a
// blocked sender just handed over, Channel.Receive's own bookkeeping
// produces the right answer either way.
func (vm *VM) completeReceive(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, ch heap.Handle[*channel.Channel], calleeIdx int) {
	outcome, v, wokenSender := ch.Deref().Receive(fh)
	switch outcome {
	case channel.ReceiveOK:
		f.Truncate(calleeIdx)
		f.Push(v)
		if wokenSender != nil {
			vm.wake(wokenSender)
		}
	case channel.ReceiveClosed:
		f.Truncate(calleeIdx)
		f.Push(value.Nil)
	case channel.ReceiveBlocked:
		vm.pendingChannelOps[fh] = pendingChannelOp{calleeIdx: calleeIdx, dir: fiber.DirReceive, ch: ch}
		f.SetBlocked(ch, fiber.DirReceive)
	}
}

// nativeRaise implements raise(value): runs the unwind protocol
// directly against an already-constructed error value, the user-level
// counterpart to the VM's own internal raiseInstance calls.
func (vm *VM) nativeRaise(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, calleeIdx, argc int) {
	if argc != 1 {
		vm.raiseInstance(fh, errs.RuntimeError, "raise expects exactly 1 argument")
		return
	}
	errVal := f.Get(calleeIdx + 1)
	f.Truncate(calleeIdx)
	vm.raiseValue(fh, errVal)
}

// resolveChannelOp finishes the blocking call op was parked on, for a
// fiber that wake has just moved back to Ready. A sender's value was
// already moved into the channel by whichever call produced this
// wake-up (a handoff receive, or nothing at all if the channel was
// simply closed), so a sender only ever finishes its stack effect —
// pushing Nil, or raising if the reason for the wake-up was the channel
// closing underneath it. A receiver retries Channel.Receive, which is
// always safe to rerun.
func (vm *VM) resolveChannelOp(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, op pendingChannelOp) {
	switch op.dir {
	case fiber.DirSend:
		f.Truncate(op.calleeIdx)
		if op.ch.Deref().Closed() {
			vm.raiseInstance(fh, errs.RuntimeError, "send on closed channel")
			return
		}
		f.Push(value.Nil)
	case fiber.DirReceive:
		vm.completeReceive(fh, f, op.ch, op.calleeIdx)
	}
}
