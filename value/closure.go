package value

import (
	"fmt"

	"github.com/joshuapare/hivekit/heap"
)

// Closure pairs a Fun with the upvalues its body captures. The
// upvalues array's length is fixed at Fun.UpvalueCount and never
// resized after construction (spec.md §3).
type Closure struct {
	heap.Header
	fun      heap.Handle[*Fun]
	upvalues []heap.Handle[*Upvalue]
}

// NewClosure constructs a Closure over fun with the given upvalues,
// whose length must equal fun.UpvalueCount().
func NewClosure(fun heap.Handle[*Fun], upvalues []heap.Handle[*Upvalue]) *Closure {
	return &Closure{fun: fun, upvalues: upvalues}
}

func (c *Closure) AllocHeader() *heap.Header { return &c.Header }

func (c *Closure) Trace(marker heap.Marker) {
	heap.MarkHandle[*Fun](marker, c.fun)
	for _, uv := range c.upvalues {
		heap.MarkHandle[*Upvalue](marker, uv)
	}
}

func (c *Closure) Size() int { return len(c.upvalues)*8 + 24 }
func (c *Closure) Kind() heap.Kind { return heap.KindClosure }
func (c *Closure) Format(int) string {
	name := c.fun.Deref().Name()
	if name == "" {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", name)
}

// Fun returns the underlying function handle.
func (c *Closure) Fun() heap.Handle[*Fun] { return c.fun }

// Upvalue returns the i-th captured upvalue handle.
func (c *Closure) Upvalue(i int) heap.Handle[*Upvalue] { return c.upvalues[i] }

// UpvalueCount returns the number of captured upvalues.
func (c *Closure) UpvalueCount() int { return len(c.upvalues) }
