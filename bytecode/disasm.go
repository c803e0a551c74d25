package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble renders a chunk's instruction stream as one line per
// instruction, in the "<offset> <line> <op> <operands>" format a debug
// CLI prints. fmtConstant renders the constant pool entry at an index,
// so this package never needs to know how V prints itself.
func Disassemble[V any](c *Chunk[V], name string, fmtConstant func(idx int) string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "== %s ==\n", name)

	offset := 0
	lastLine := -1
	for offset < len(c.code) {
		inst, ok := Decode(c.code, offset)
		if !ok {
			fmt.Fprintf(&sb, "%04d  ERR invalid opcode 0x%02x\n", offset, c.code[offset])
			break
		}
		line := c.lines.GetLine(offset)
		if line == lastLine {
			fmt.Fprintf(&sb, "%04d    |  ", offset)
		} else {
			fmt.Fprintf(&sb, "%04d %5d  ", offset, line)
			lastLine = line
		}
		sb.WriteString(disasmOperands(inst, fmtConstant))
		sb.WriteByte('\n')
		offset += inst.Len
	}
	return sb.String()
}

func disasmOperands(inst Instruction, fmtConstant func(idx int) string) string {
	op := inst.Op
	switch op.Shape() {
	case ShapeNone:
		return op.String()
	case ShapeU8:
		if op == Constant {
			return fmt.Sprintf("%-16s %4d '%s'", op, inst.A, fmtConstant(int(inst.A)))
		}
		return fmt.Sprintf("%-16s %4d", op, inst.A)
	case ShapeU16:
		switch op {
		case ConstantLong, DefineGlobal, GetGlobal, SetGlobal, Class, Method,
			GetProperty, SetProperty, GetSuper, Export:
			return fmt.Sprintf("%-16s %4d '%s'", op, inst.A, fmtConstant(int(inst.A)))
		default:
			return fmt.Sprintf("%-16s %4d", op, inst.A)
		}
	case ShapeU16U8:
		return fmt.Sprintf("%-16s %4d '%s' (%d args)", op, inst.A, fmtConstant(int(inst.A)), inst.B)
	case ShapeU16U16:
		return fmt.Sprintf("%-16s %4d %4d", op, inst.A, inst.B)
	case ShapeUpvalueIndex:
		kind := "local"
		if UpvalueCaptureKind(inst.A) == CaptureUpvalue {
			kind = "upvalue"
		}
		return fmt.Sprintf("%-16s %s %d", op, kind, inst.B)
	default:
		return op.String()
	}
}
