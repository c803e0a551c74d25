package bytecode

import "github.com/joshuapare/hivekit/internal/bits"

// Instruction is one decoded opcode plus its operands, widened to
// uint16 regardless of their encoded width. Unused operand slots are
// zero; consult Op.Shape() to know how many are meaningful.
type Instruction struct {
	Op  Op
	A   uint16
	B   uint16
	Len int // total bytes consumed, including the opcode byte
}

// Decode reads one instruction from code starting at offset. The
// caller must not decode past the last instruction (spec.md §4.3); an
// unrecognized opcode byte is an internal invariant violation, not a
// recoverable condition — Decode returns ok=false and the caller must
// abort rather than attempt to continue dispatch.
func Decode(code []byte, offset int) (Instruction, bool) {
	if offset < 0 || offset >= len(code) {
		return Instruction{}, false
	}
	op := Op(code[offset])
	if !op.Valid() {
		return Instruction{}, false
	}

	rest := code[offset+1:]
	inst := Instruction{Op: op}

	switch op.Shape() {
	case ShapeNone:
		inst.Len = 1
	case ShapeU8:
		if len(rest) < 1 {
			return Instruction{}, false
		}
		inst.A = uint16(bits.U8(rest))
		inst.Len = 2
	case ShapeU16:
		if len(rest) < 2 {
			return Instruction{}, false
		}
		inst.A = bits.U16(rest)
		inst.Len = 3
	case ShapeU16U8:
		if len(rest) < 3 {
			return Instruction{}, false
		}
		inst.A = bits.U16(rest)
		inst.B = uint16(bits.U8(rest[2:]))
		inst.Len = 4
	case ShapeU16U16:
		if len(rest) < 4 {
			return Instruction{}, false
		}
		inst.A = bits.U16(rest)
		inst.B = bits.U16(rest[2:])
		inst.Len = 5
	case ShapeUpvalueIndex:
		if len(rest) < 2 {
			return Instruction{}, false
		}
		inst.A = uint16(bits.U8(rest))
		inst.B = uint16(bits.U8(rest[1:]))
		inst.Len = 3
	default:
		return Instruction{}, false
	}
	return inst, true
}
