package vm

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/hivekit/channel"
	"github.com/joshuapare/hivekit/errs"
	"github.com/joshuapare/hivekit/fiber"
	"github.com/joshuapare/hivekit/heap"
	"github.com/joshuapare/hivekit/hooks"
	"github.com/joshuapare/hivekit/host"
	"github.com/joshuapare/hivekit/module"
	"github.com/joshuapare/hivekit/value"
)

const (
	// DefaultMaxStack matches spec.md §4.5's illustrative 256x32 slots.
	DefaultMaxStack = 256 * 32
	// DefaultMaxFrames matches spec.md §4.5's 256 call frames.
	DefaultMaxFrames = 256
)

// VM is one running interpreter instance: its heap, its module
// registry, its global namespace, its built-in error classes, and its
// cooperative fiber scheduler. Multiple independent VMs may coexist in
// one process (spec.md §9: "the heap ... is not a singleton"); nothing
// here is package-level state.
type VM struct {
	Heap    *heap.Heap
	Hooks   *hooks.Hooks
	Modules *module.Registry
	Loader  host.ModuleLoader
	Stdio   host.Stdio
	Library *host.Library

	globals map[string]value.Value

	errorClasses map[errs.Kind]heap.Handle[*value.Class]

	current heap.Handle[*fiber.Fiber]
	ready   []heap.Handle[*fiber.Fiber]
	blocked []heap.Handle[*fiber.Fiber]

	// pendingChannelOps remembers, for each fiber currently Blocked on
	// a channel, where on its own stack the blocking send/receive call
	// sits, so wake can finish that call's stack effect once the
	// channel actually resolves it (see scheduler.go).
	pendingChannelOps map[heap.Handle[*fiber.Fiber]]pendingChannelOp

	maxStack  int
	maxFrames int
	heapOpts  []heap.Option

	spawnNative   *value.Native
	sendNative    *value.Native
	receiveNative *value.Native
	raiseNative   *value.Native

	log *slog.Logger
}

// Option configures a VM at construction, the same functional-options
// shape package heap uses for its own construction knobs.
type Option func(*VM)

// WithLoader installs the ModuleLoader Import consults.
func WithLoader(l host.ModuleLoader) Option { return func(vm *VM) { vm.Loader = l } }

// WithStdio installs the Stdio the Print opcode writes through. GC
// debug logging does not use it; it goes to the heap's own logger
// (heap.WithLogger).
func WithStdio(s host.Stdio) Option { return func(vm *VM) { vm.Stdio = s } }

// WithMaxStack overrides the per-fiber value stack depth.
func WithMaxStack(n int) Option { return func(vm *VM) { vm.maxStack = n } }

// WithMaxFrames overrides the per-fiber call-frame depth.
func WithMaxFrames(n int) Option { return func(vm *VM) { vm.maxFrames = n } }

// WithHeapOptions forwards options to the underlying heap.New call.
func WithHeapOptions(opts ...heap.Option) Option {
	return func(vm *VM) { vm.heapOpts = append(vm.heapOpts, opts...) }
}

// WithLogger installs the VM's structured logger. The VM stores it;
// neither the dispatch loop nor the scheduler writes to it (uncaught
// errors and deadlocks are returned from Run instead).
func WithLogger(l *slog.Logger) Option { return func(vm *VM) { vm.log = l } }

// New constructs a VM with its own heap, module registry, hooks
// facade, and built-in error classes, wired together the way
// pkg/hive/factory.go wires its constructor functions over the
// lower-level internal packages.
func New(opts ...Option) *VM {
	vm := &VM{
		globals:           map[string]value.Value{},
		errorClasses:      map[errs.Kind]heap.Handle[*value.Class]{},
		pendingChannelOps: map[heap.Handle[*fiber.Fiber]]pendingChannelOp{},
		maxStack:          DefaultMaxStack,
		maxFrames:         DefaultMaxFrames,
		Stdio:             host.NewOSStdio(),
		log:               slog.Default(),
	}
	for _, o := range opts {
		o(vm)
	}
	vm.Heap = heap.New(vm, vm.heapOpts...)
	vm.Modules = module.NewRegistry()
	vm.Hooks = hooks.New(vm.Heap, vm.Modules)
	vm.Hooks.SetCaller(vm)
	vm.Library = host.StandardLibrary()
	vm.bootstrapErrorClasses()
	vm.bootstrapSchedulerNatives()
	return vm
}

// TraceRoots implements heap.RootTracer: the current fiber, every
// ready and blocked fiber, the hooks façade's pinned roots (which also
// traces the module registry), the global namespace, and the built-in
// error classes.
func (vm *VM) TraceRoots(marker heap.Marker) {
	heap.MarkHandle[*fiber.Fiber](marker, vm.current)
	for _, h := range vm.ready {
		heap.MarkHandle[*fiber.Fiber](marker, h)
	}
	for _, h := range vm.blocked {
		heap.MarkHandle[*fiber.Fiber](marker, h)
	}
	for _, v := range vm.globals {
		value.TraceValue(v, marker)
	}
	for _, c := range vm.errorClasses {
		heap.MarkHandle[*value.Class](marker, c)
	}
	vm.Hooks.Trace(marker)
}

// DefineGlobal installs name in the global namespace.
func (vm *VM) DefineGlobal(name string, v value.Value) { vm.globals[name] = v }

// Global looks up a global by name.
func (vm *VM) Global(name string) (value.Value, bool) {
	v, ok := vm.globals[name]
	return v, ok
}

// NewFiber allocates a fresh Ready fiber sized per the VM's configured
// stack/frame limits.
func (vm *VM) NewFiber() (heap.Handle[*fiber.Fiber], error) {
	f, err := fiber.New(vm.maxStack, vm.maxFrames)
	if err != nil {
		return heap.Handle[*fiber.Fiber]{}, fmt.Errorf("vm: allocating fiber: %w", err)
	}
	return heap.Manage(vm.Heap, f), nil
}

// Run executes entry to completion on a freshly created main fiber,
// running the scheduler until the main fiber completes or errors, or
// the program deadlocks (no fiber Ready while one is still needed).
// Other fibers still Ready when the main fiber completes are not run.
// It returns the main fiber's final value, or its uncaught error
// surfaced to the host.
func (vm *VM) Run(entry heap.Handle[*value.Closure]) (value.Value, error) {
	main, err := vm.NewFiber()
	if err != nil {
		return value.Nil, err
	}
	if !main.Deref().PushFrame(entry, 0) {
		return value.Nil, errs.New(errs.RuntimeError, "call stack overflow starting main fiber")
	}
	main.Deref().SetRunning()
	vm.current = main

	return vm.schedule(main)
}

// schedule runs fibers until mainFiber reaches a terminal state,
// rescheduling across Ready/Blocked transitions per spec.md §5's
// single-threaded cooperative model: one Ready fiber runs to
// completion or until it blocks, then another Ready fiber is picked;
// there is no preemption.
func (vm *VM) schedule(mainFiber heap.Handle[*fiber.Fiber]) (value.Value, error) {
	for {
		f := vm.current.Deref()
		vm.runFiber(vm.current)

		switch f.State() {
		case fiber.Complete:
			if vm.current.Equal(mainFiber) {
				result, _ := f.Peek(0)
				_ = f.Close()
				return result, nil
			}
			_ = f.Close()
			if !vm.advanceScheduler() {
				return value.Nil, errs.New(errs.RuntimeError, "scheduler deadlock: no ready fiber")
			}
		case fiber.Errored:
			if parent := f.Parent(); !parent.IsNil() {
				vm.resumeParentWithError(parent, f.ErrValue())
				vm.current = parent
				if parent.Deref().State() != fiber.Errored {
					parent.Deref().SetRunning()
				}
				continue
			}
			if vm.current.Equal(mainFiber) {
				return value.Nil, errs.Newf(errs.RuntimeError, "uncaught error: %s", renderErrorValue(f.ErrValue()))
			}
			if !vm.advanceScheduler() {
				return value.Nil, errs.New(errs.RuntimeError, "scheduler deadlock: no ready fiber")
			}
		case fiber.Blocked:
			vm.blocked = append(vm.blocked, vm.current)
			if !vm.advanceScheduler() {
				return value.Nil, errs.Newf(errs.RuntimeError, "deadlock: %d fiber(s) blocked, none ready", len(vm.blocked))
			}
		default:
			return value.Nil, errs.Newf(errs.RuntimeError, "fiber left runFiber in unexpected state %s", f.State())
		}
	}
}

// advanceScheduler pops the next Ready fiber into vm.current. Returns
// false if none is available (deadlock or program end).
func (vm *VM) advanceScheduler() bool {
	if len(vm.ready) == 0 {
		return false
	}
	next := vm.ready[0]
	vm.ready = vm.ready[1:]
	next.Deref().SetRunning()
	vm.current = next
	return true
}

// wake resolves the channel operation a blocked fiber (identified by
// token, the channel package's opaque waiter token — here always a
// heap.Handle[*fiber.Fiber]) was parked on, then moves it from blocked
// to ready. See scheduler.go's pendingChannelOp for why a sender and a
// receiver resolve differently: a receiver's retry of Channel.Receive
// is what actually dequeues its value, while a sender's value was
// already moved into the channel by whichever call produced this
// wake-up, so a sender only needs its stack effect finished, never a
// second Channel.Send.
func (vm *VM) wake(token any) {
	if token == nil {
		return
	}
	h, ok := token.(heap.Handle[*fiber.Fiber])
	if !ok {
		return
	}
	for i, b := range vm.blocked {
		if b.Equal(h) {
			vm.blocked = append(vm.blocked[:i], vm.blocked[i+1:]...)
			break
		}
	}
	op, hasOp := vm.pendingChannelOps[h]
	delete(vm.pendingChannelOps, h)

	f := h.Deref()
	f.SetReady()
	vm.ready = append(vm.ready, h)
	if !hasOp {
		return
	}
	vm.resolveChannelOp(h, f, op)
}

// resumeParentWithError re-enters the unwind protocol on parent using
// childErr as the raised value, as if parent itself had raised it at
// its current instruction — spec.md §4.5's "its parent fiber (if any)
// resumes with the error" resolved this way since the spec does not
// otherwise describe a join/return-value channel between a fiber and
// its parent. See DESIGN.md's Open Question decisions.
func (vm *VM) resumeParentWithError(parent heap.Handle[*fiber.Fiber], childErr value.Value) {
	caught := vm.unwind(parent, childErr)
	if !caught {
		parent.Deref().SetErrored(childErr)
	}
}

var _ hooks.Caller = (*VM)(nil)

func (vm *VM) channelClose(ch *channel.Channel) {
	wokenSenders, wokenReceivers := ch.Close()
	for _, t := range wokenSenders {
		vm.wake(t)
	}
	for _, t := range wokenReceivers {
		vm.wake(t)
	}
}
