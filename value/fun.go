package value

import (
	"fmt"

	"github.com/joshuapare/hivekit/bytecode"
	"github.com/joshuapare/hivekit/heap"
)

// Chunk is the Value-specialized bytecode chunk every Fun carries its
// compiled body in.
type Chunk = bytecode.Chunk[Value]

// ChunkBuilder is the Value-specialized builder the compiler
// collaborator uses to emit a Fun's code.
type ChunkBuilder = bytecode.ChunkBuilder[Value]

// Fun is an immutable compiled function: name, declared arity, upvalue
// count, owning module, and its code chunk. "Immutable after build"
// (spec.md §3) means every field here is set once by FunBuilder and
// never mutated again; the VM only ever reads through a Closure's
// handle to it.
type Fun struct {
	heap.Header
	name         string
	arity        Arity
	upvalueCount int
	module       heap.Handle[*Module]
	chunk        *Chunk
}

// FunBuilder assembles a Fun's immutable fields before it is handed to
// the heap.
type FunBuilder struct {
	name         string
	arity        Arity
	upvalueCount int
	module       heap.Handle[*Module]
	builder      *ChunkBuilder
}

// NewFunBuilder starts building a function named name, owned by
// module, with the given declared arity.
func NewFunBuilder(name string, arity Arity, module heap.Handle[*Module]) *FunBuilder {
	return &FunBuilder{name: name, arity: arity, module: module, builder: bytecode.NewChunkBuilder[Value]()}
}

// Code returns the in-progress chunk builder, for the compiler to emit
// instructions into.
func (b *FunBuilder) Code() *ChunkBuilder { return b.builder }

// SetUpvalueCount records how many upvalues this function's closures
// must capture.
func (b *FunBuilder) SetUpvalueCount(n int) { b.upvalueCount = n }

// Build finalizes the Fun. Callers allocate it via [heap.Manage].
func (b *FunBuilder) Build() *Fun {
	return &Fun{
		name:         b.name,
		arity:        b.arity,
		upvalueCount: b.upvalueCount,
		module:       b.module,
		chunk:        b.builder.Chunk(),
	}
}

func (f *Fun) AllocHeader() *heap.Header { return &f.Header }

func (f *Fun) Trace(marker heap.Marker) {
	heap.MarkHandle[*Module](marker, f.module)
	for _, c := range f.chunk.Constants() {
		c.mark(marker)
	}
}

func (f *Fun) Size() int { return len(f.chunk.Code())*1 + len(f.chunk.Constants())*32 + 64 }
func (f *Fun) Kind() heap.Kind { return heap.KindFun }
func (f *Fun) Format(int) string {
	if f.name == "" {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.name)
}

// Name returns the function's declared name ("" for a top-level
// script body).
func (f *Fun) Name() string { return f.name }

// Arity returns the function's declared calling convention.
func (f *Fun) Arity() Arity { return f.arity }

// UpvalueCount returns how many upvalues a Closure over this Fun must
// capture.
func (f *Fun) UpvalueCount() int { return f.upvalueCount }

// Module returns the owning module's handle.
func (f *Fun) Module() heap.Handle[*Module] { return f.module }

// ChunkRef returns the function's compiled code chunk.
func (f *Fun) ChunkRef() *Chunk { return f.chunk }
