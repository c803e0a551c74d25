package bytecode

import "fmt"

// Op is one instruction in the closed opcode enumeration. Instructions
// are unaligned: one Op byte followed by zero or more operand bytes in
// little-endian byte order, per [OperandShape].
type Op uint8

const (
	Return Op = iota
	Jump
	JumpIfFalse
	Loop

	Constant
	ConstantLong
	Nil
	True
	False
	Drop

	Add
	Sub
	Mul
	Div
	Negate
	Not
	Equal
	Greater
	Less

	DefineGlobal
	GetGlobal
	SetGlobal
	GetLocal
	SetLocal
	GetUpvalue
	SetUpvalue

	List
	ListInit
	Map
	MapInit
	GetIndex
	SetIndex
	IterNext
	IterCurrent

	Class
	Method
	Inherit
	GetProperty
	SetProperty
	GetSuper
	Invoke
	SuperInvoke

	Closure
	CloseUpvalue
	Call
	// UpvalueIndex is a pseudo-op: it is never dispatched on its own,
	// only decoded as one of the upvalue_count trailing descriptors
	// that follow a Closure instruction.
	UpvalueIndex

	Import
	Export

	Print

	opCount
)

var opNames = [opCount]string{
	Return:       "Return",
	Jump:         "Jump",
	JumpIfFalse:  "JumpIfFalse",
	Loop:         "Loop",
	Constant:     "Constant",
	ConstantLong: "ConstantLong",
	Nil:          "Nil",
	True:         "True",
	False:        "False",
	Drop:         "Drop",
	Add:          "Add",
	Sub:          "Sub",
	Mul:          "Mul",
	Div:          "Div",
	Negate:       "Negate",
	Not:          "Not",
	Equal:        "Equal",
	Greater:      "Greater",
	Less:         "Less",
	DefineGlobal: "DefineGlobal",
	GetGlobal:    "GetGlobal",
	SetGlobal:    "SetGlobal",
	GetLocal:     "GetLocal",
	SetLocal:     "SetLocal",
	GetUpvalue:   "GetUpvalue",
	SetUpvalue:   "SetUpvalue",
	List:         "List",
	ListInit:     "ListInit",
	Map:          "Map",
	MapInit:      "MapInit",
	GetIndex:     "GetIndex",
	SetIndex:     "SetIndex",
	IterNext:     "IterNext",
	IterCurrent:  "IterCurrent",
	Class:        "Class",
	Method:       "Method",
	Inherit:      "Inherit",
	GetProperty:  "GetProperty",
	SetProperty:  "SetProperty",
	GetSuper:     "GetSuper",
	Invoke:       "Invoke",
	SuperInvoke:  "SuperInvoke",
	Closure:      "Closure",
	CloseUpvalue: "CloseUpvalue",
	Call:         "Call",
	UpvalueIndex: "UpvalueIndex",
	Import:       "Import",
	Export:       "Export",
	Print:        "Print",
}

func (op Op) String() string {
	if op < opCount {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// Valid reports whether op is a real, dispatchable opcode. A decoded
// byte outside this range is an internal invariant violation (spec.md
// §7: a fatal defect, not a recoverable language-level error).
func (op Op) Valid() bool { return op < opCount }

// OperandShape describes how many operand bytes follow an Op byte and
// how to interpret them.
type OperandShape uint8

const (
	ShapeNone         OperandShape = iota // no operands
	ShapeU8                               // one u8
	ShapeU16                              // one u16
	ShapeU16U8                            // u16 then u8 (Invoke, SuperInvoke)
	ShapeU16U16                           // u16 then u16 (Import)
	ShapeUpvalueIndex                     // kind byte (u8) then index byte (u8)
)

// Len reports the number of operand bytes this shape consumes.
func (s OperandShape) Len() int {
	switch s {
	case ShapeNone:
		return 0
	case ShapeU8:
		return 1
	case ShapeU16:
		return 2
	case ShapeU16U8:
		return 3
	case ShapeU16U16:
		return 4
	case ShapeUpvalueIndex:
		return 2
	default:
		return 0
	}
}

var opShapes = [opCount]OperandShape{
	Return:       ShapeNone,
	Jump:         ShapeU16,
	JumpIfFalse:  ShapeU16,
	Loop:         ShapeU16,
	Constant:     ShapeU8,
	ConstantLong: ShapeU16,
	Nil:          ShapeNone,
	True:         ShapeNone,
	False:        ShapeNone,
	Drop:         ShapeNone,
	Add:          ShapeNone,
	Sub:          ShapeNone,
	Mul:          ShapeNone,
	Div:          ShapeNone,
	Negate:       ShapeNone,
	Not:          ShapeNone,
	Equal:        ShapeNone,
	Greater:      ShapeNone,
	Less:         ShapeNone,
	DefineGlobal: ShapeU16,
	GetGlobal:    ShapeU16,
	SetGlobal:    ShapeU16,
	GetLocal:     ShapeU8,
	SetLocal:     ShapeU8,
	GetUpvalue:   ShapeU8,
	SetUpvalue:   ShapeU8,
	List:         ShapeNone,
	ListInit:     ShapeU16,
	Map:          ShapeNone,
	MapInit:      ShapeU16,
	GetIndex:     ShapeNone,
	SetIndex:     ShapeNone,
	IterNext:     ShapeU16,
	IterCurrent:  ShapeU16,
	Class:        ShapeU16,
	Method:       ShapeU16,
	Inherit:      ShapeNone,
	GetProperty:  ShapeU16,
	SetProperty:  ShapeU16,
	GetSuper:     ShapeU16,
	Invoke:       ShapeU16U8,
	SuperInvoke:  ShapeU16U8,
	Closure:      ShapeU16,
	CloseUpvalue: ShapeNone,
	Call:         ShapeU8,
	UpvalueIndex: ShapeUpvalueIndex,
	Import:       ShapeU16U16,
	Export:       ShapeU16,
	Print:        ShapeNone,
}

// Shape reports op's operand shape. Callers must check Valid first;
// Shape on an invalid op returns ShapeNone.
func (op Op) Shape() OperandShape {
	if !op.Valid() {
		return ShapeNone
	}
	return opShapes[op]
}

// UpvalueCaptureKind selects what an UpvalueIndex descriptor captures.
type UpvalueCaptureKind uint8

const (
	CaptureLocal UpvalueCaptureKind = iota
	CaptureUpvalue
)
