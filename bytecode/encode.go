package bytecode

import (
	"github.com/joshuapare/hivekit/internal/bits"
)

// ChunkBuilder incrementally assembles a Chunk as the compiler walks
// its AST, emitting one instruction (and its line attribution) at a
// time.
type ChunkBuilder[V any] struct {
	chunk Chunk[V]
}

// NewChunkBuilder returns an empty builder.
func NewChunkBuilder[V any]() *ChunkBuilder[V] {
	return &ChunkBuilder[V]{}
}

// AddConstant appends v to the constant pool and returns its index.
func (b *ChunkBuilder[V]) AddConstant(v V) int {
	b.chunk.constants = append(b.chunk.constants, v)
	return len(b.chunk.constants) - 1
}

// Offset reports the current instruction-stream length, the offset the
// next emitted instruction will land at — used by the compiler to back
// -patch jump targets.
func (b *ChunkBuilder[V]) Offset() int { return len(b.chunk.code) }

// Emit appends op and the given operand words, each truncated to the
// width op.Shape() declares for its position, and records line against
// the instruction's starting offset.
func (b *ChunkBuilder[V]) Emit(op Op, line int, operands ...uint16) int {
	start := len(b.chunk.code)
	b.chunk.lines.Add(start, line)
	b.chunk.code = append(b.chunk.code, byte(op))

	switch op.Shape() {
	case ShapeNone:
	case ShapeU8:
		b.emitU8(uint8(operands[0]))
	case ShapeU16:
		b.emitU16(operands[0])
	case ShapeU16U8:
		b.emitU16(operands[0])
		b.emitU8(uint8(operands[1]))
	case ShapeU16U16:
		b.emitU16(operands[0])
		b.emitU16(operands[1])
	case ShapeUpvalueIndex:
		b.emitU8(uint8(operands[0]))
		b.emitU8(uint8(operands[1]))
	}
	return start
}

// PatchU16 overwrites the u16 operand at byte offset off (as returned
// relative to an Emit call's start+1) with v — used to back-patch a
// forward jump once its target offset is known.
func (b *ChunkBuilder[V]) PatchU16(off int, v uint16) {
	bits.PutU16(b.chunk.code, off, v)
}

// AddTry registers a try-block range in the chunk's try table.
func (b *ChunkBuilder[V]) AddTry(start, end int) {
	b.chunk.tryTable.Add(start, end)
}

// Chunk finalizes and returns the built chunk. The builder remains
// usable afterward (further Emit calls continue appending), but
// callers should treat a returned *Chunk as owned by its caller from
// that point on.
func (b *ChunkBuilder[V]) Chunk() *Chunk[V] { return &b.chunk }

func (b *ChunkBuilder[V]) emitU8(v uint8) {
	b.chunk.code = append(b.chunk.code, v)
}

func (b *ChunkBuilder[V]) emitU16(v uint16) {
	off := len(b.chunk.code)
	b.chunk.code = append(b.chunk.code, 0, 0)
	bits.PutU16(b.chunk.code, off, v)
}
