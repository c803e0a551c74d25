package fiber

import (
	"fmt"

	"github.com/joshuapare/hivekit/channel"
	"github.com/joshuapare/hivekit/heap"
	"github.com/joshuapare/hivekit/value"
)

// State is a fiber's cooperative scheduling state (spec.md §4.5).
type State uint8

const (
	Ready State = iota
	Running
	Blocked
	Complete
	Errored
)

func (s State) String() string {
	switch s {
	case Ready:
		return "Ready"
	case Running:
		return "Running"
	case Blocked:
		return "Blocked"
	case Complete:
		return "Complete"
	case Errored:
		return "Errored"
	default:
		return "Unknown"
	}
}

// Direction distinguishes which channel operation a Blocked fiber is
// waiting on.
type Direction uint8

const (
	DirSend Direction = iota
	DirReceive
)

// Fiber is a coroutine: its own value stack, its own frame array, its
// own open-upvalue list, a scheduling state, and an optional parent to
// resume when this fiber errors (spec.md §4.5).
type Fiber struct {
	heap.Header
	stack    []value.Value
	maxStack int
	frames   *frames
	open     openUpvalues

	state      State
	blockedOn  heap.Handle[*channel.Channel]
	blockedDir Direction

	parent   heap.Handle[*Fiber]
	errValue value.Value
}

// New constructs a Ready Fiber with fixed-capacity value stack and
// frame array (spec.md §4.5 default: 256x32 stack slots, 256 frames).
func New(maxStack, maxFrames int) (*Fiber, error) {
	fr, err := newFrames(maxFrames)
	if err != nil {
		return nil, fmt.Errorf("fiber: allocating frame region: %w", err)
	}
	return &Fiber{
		stack:    make([]value.Value, 0, maxStack),
		maxStack: maxStack,
		frames:   fr,
		state:    Ready,
	}, nil
}

func (f *Fiber) AllocHeader() *heap.Header { return &f.Header }

func (f *Fiber) Trace(marker heap.Marker) {
	for _, v := range f.stack {
		value.TraceValue(v, marker)
	}
	f.frames.trace(marker)
	f.open.trace(marker)
	heap.MarkHandle[*channel.Channel](marker, f.blockedOn)
	heap.MarkHandle[*Fiber](marker, f.parent)
	value.TraceValue(f.errValue, marker)
}

func (f *Fiber) Size() int { return cap(f.stack)*32 + f.frames.region.MaxFrames()*frameStride + 64 }
func (f *Fiber) Kind() heap.Kind { return heap.KindFiber }
func (f *Fiber) Format(int) string { return fmt.Sprintf("<fiber %s>", f.state) }

// State returns the fiber's current scheduling state.
func (f *Fiber) State() State { return f.state }

// SetReady transitions the fiber back to Ready (e.g. after a blocked
// channel op resolves).
func (f *Fiber) SetReady() { f.state = Ready; f.blockedOn = heap.Handle[*channel.Channel]{} }

// SetRunning marks the fiber as the scheduler's active fiber.
func (f *Fiber) SetRunning() { f.state = Running }

// SetBlocked parks the fiber on a channel operation.
func (f *Fiber) SetBlocked(ch heap.Handle[*channel.Channel], dir Direction) {
	f.state = Blocked
	f.blockedOn = ch
	f.blockedDir = dir
}

// BlockedOn returns the channel and direction a Blocked fiber is
// waiting on.
func (f *Fiber) BlockedOn() (heap.Handle[*channel.Channel], Direction) { return f.blockedOn, f.blockedDir }

// SetComplete marks the fiber as finished successfully.
func (f *Fiber) SetComplete() { f.state = Complete }

// SetErrored marks the fiber as finished with an uncaught error
// (spec.md §4.5: "if no frame matches, the fiber enters Errored").
func (f *Fiber) SetErrored(v value.Value) {
	f.state = Errored
	f.errValue = v
}

// ErrValue returns the error value of an Errored fiber.
func (f *Fiber) ErrValue() value.Value { return f.errValue }

// Parent returns the fiber that resumes when this one errors, if any.
func (f *Fiber) Parent() heap.Handle[*Fiber] { return f.parent }

// SetParent records the fiber to resume when this one errors.
func (f *Fiber) SetParent(p heap.Handle[*Fiber]) { f.parent = p }

// --- value stack ---

// Push appends v. Reports false if the stack is at max depth (a
// stack-overflow RuntimeError at the VM layer, not a fatal defect).
func (f *Fiber) Push(v value.Value) bool {
	if len(f.stack) >= f.maxStack {
		return false
	}
	f.stack = append(f.stack, v)
	return true
}

// Pop removes and returns the top value. ok is false on an empty
// stack.
func (f *Fiber) Pop() (value.Value, bool) {
	n := len(f.stack)
	if n == 0 {
		return value.Value{}, false
	}
	v := f.stack[n-1]
	f.stack = f.stack[:n-1]
	return v, true
}

// Peek returns the value n slots below the top (0 = top itself).
func (f *Fiber) Peek(n int) (value.Value, bool) {
	i := len(f.stack) - 1 - n
	if i < 0 || i >= len(f.stack) {
		return value.Value{}, false
	}
	return f.stack[i], true
}

// Get reads the absolute stack slot i (a frame's locals are at
// base+i).
func (f *Fiber) Get(i int) value.Value {
	return f.stack[i]
}

// Set writes the absolute stack slot i.
func (f *Fiber) Set(i int, v value.Value) {
	f.stack[i] = v
}

// Truncate drops every slot at or above base, the Return opcode's
// stack cleanup.
func (f *Fiber) Truncate(base int) {
	f.stack = f.stack[:base]
}

// StackLen reports the current stack depth.
func (f *Fiber) StackLen() int { return len(f.stack) }

// --- frames ---

// PushFrame pins a new call frame. Reports false at max call depth.
func (f *Fiber) PushFrame(closure heap.Handle[*value.Closure], base int) bool {
	return f.frames.Push(closure, base)
}

// PopFrame discards the top call frame.
func (f *Fiber) PopFrame() bool { return f.frames.Pop() }

// CurrentFrame returns the executing call frame.
func (f *Fiber) CurrentFrame() (CallFrame, bool) { return f.frames.Top() }

// FrameAt returns the i-th call frame (0 = oldest).
func (f *Fiber) FrameAt(i int) (CallFrame, bool) { return f.frames.At(i) }

// FrameCount reports the number of active call frames.
func (f *Fiber) FrameCount() int { return f.frames.Len() }

// SetCurrentIP overwrites the executing frame's instruction pointer.
func (f *Fiber) SetCurrentIP(ip uint32) { f.frames.SetTopIP(ip) }

// --- upvalues ---

// FindOpenUpvalue returns the existing open upvalue at stackIndex, if
// any.
func (f *Fiber) FindOpenUpvalue(stackIndex int) (heap.Handle[*value.Upvalue], bool) {
	return f.open.Find(stackIndex)
}

// InsertOpenUpvalue records a newly created open upvalue.
func (f *Fiber) InsertOpenUpvalue(h heap.Handle[*value.Upvalue]) {
	f.open.Insert(h)
}

// CloseUpvaluesFrom closes every open upvalue with stack index >= cut
// (spec.md §4.5: CloseUpvalue and the return path).
func (f *Fiber) CloseUpvaluesFrom(cut int) {
	f.open.CloseFrom(cut, f.stack)
}

// OpenUpvalueCount reports the number of currently open upvalues.
func (f *Fiber) OpenUpvalueCount() int { return f.open.Len() }

// Close releases the fiber's mapped frame region. Callers must call
// this once a fiber reaches Complete or Errored and will never be
// resumed.
func (f *Fiber) Close() error { return f.frames.release() }
