package value

import "github.com/joshuapare/hivekit/heap"

// UpvalueState distinguishes an Upvalue still pointing at a live stack
// slot (Open) from one that has been hoisted onto the heap (Closed)
// after its owning frame returned.
type UpvalueState uint8

const (
	Open UpvalueState = iota
	Closed
)

// Upvalue is a variable captured by one or more closures, shared
// between the enclosing frame and the closures until the frame
// returns. At most one Open upvalue exists per stack index per fiber
// (spec.md §3) — the fiber's open-upvalue list is what enforces that
// invariant; Upvalue itself just holds whichever state it is in.
type Upvalue struct {
	heap.Header
	state      UpvalueState
	stackIndex int
	closed     Value
}

// NewOpenUpvalue constructs an Upvalue pointing at stackIndex on its
// owning fiber's value stack.
func NewOpenUpvalue(stackIndex int) *Upvalue {
	return &Upvalue{state: Open, stackIndex: stackIndex}
}

func (u *Upvalue) AllocHeader() *heap.Header { return &u.Header }

func (u *Upvalue) Trace(marker heap.Marker) {
	if u.state == Closed {
		u.closed.mark(marker)
	}
}

func (u *Upvalue) Size() int { return 32 }
func (u *Upvalue) Kind() heap.Kind { return heap.KindUpvalue }
func (u *Upvalue) Format(int) string {
	if u.state == Closed {
		return "<closed upvalue " + u.closed.Format(0) + ">"
	}
	return "<upvalue>"
}

// IsOpen reports whether this upvalue still refers to a live stack
// slot.
func (u *Upvalue) IsOpen() bool { return u.state == Open }

// StackIndex returns the stack slot this upvalue points at while Open.
// Its value is meaningless once Closed.
func (u *Upvalue) StackIndex() int { return u.stackIndex }

// Get reads the upvalue's current value, resolving through stack if
// still Open.
func (u *Upvalue) Get(stack []Value) Value {
	if u.state == Open {
		return stack[u.stackIndex]
	}
	return u.closed
}

// Set writes through the upvalue, to stack if still Open or to the
// hoisted slot once Closed.
func (u *Upvalue) Set(stack []Value, v Value) {
	if u.state == Open {
		stack[u.stackIndex] = v
		return
	}
	u.closed = v
}

// Close transitions the upvalue Open -> Closed, hoisting v (the stack
// slot's final value) onto the heap-resident Upvalue itself.
func (u *Upvalue) Close(v Value) {
	u.state = Closed
	u.closed = v
}
