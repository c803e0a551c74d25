package value

import (
	"strconv"

	"github.com/joshuapare/hivekit/heap"
)

// kind tags which arm of the Value union is populated. It is unexported
// and distinct from [heap.Kind]: that one tags object variants, this
// one tags the primitive/object split one level up.
type kind uint8

const (
	kindNil kind = iota
	kindBool
	kindNumber
	kindObj
)

// Value is the language's uniform value representation: nil, a
// boolean, a 64-bit float, or a handle to a heap-managed object. It is
// a small value type, copied by assignment like the teacher's
// size-class-keyed Value in hive/alloc/types.go copies by value rather
// than by reference.
type Value struct {
	k   kind
	num float64
	b   bool
	obj heap.Obj
}

// Nil is the singular nil value.
var Nil = Value{k: kindNil}

// Bool boxes a boolean.
func Bool(b bool) Value { return Value{k: kindBool, b: b} }

// Number boxes a 64-bit float.
func Number(n float64) Value { return Value{k: kindNumber, num: n} }

// FromObj boxes an object handle. o must not be nil; use [Nil] for the
// absence of a value.
func FromObj(o heap.Obj) Value { return Value{k: kindObj, obj: o} }

// IsNil reports whether v is the nil value.
func (v Value) IsNil() bool { return v.k == kindNil }

// IsBool reports whether v holds a boolean.
func (v Value) IsBool() bool { return v.k == kindBool }

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.k == kindNumber }

// IsObj reports whether v holds an object handle.
func (v Value) IsObj() bool { return v.k == kindObj }

// AsBool returns the boolean payload; only meaningful when IsBool.
func (v Value) AsBool() bool { return v.b }

// AsNumber returns the float payload; only meaningful when IsNumber.
func (v Value) AsNumber() float64 { return v.num }

// AsObj returns the object handle payload; only meaningful when IsObj.
func (v Value) AsObj() heap.Obj { return v.obj }

// Truthy implements the language's truthiness rule: nil and false are
// falsey, everything else (including 0 and "") is truthy.
func (v Value) Truthy() bool {
	switch v.k {
	case kindNil:
		return false
	case kindBool:
		return v.b
	default:
		return true
	}
}

// Equal implements value equality: numbers by IEEE-754 equality,
// booleans/nil by value, and objects by pointer identity — which for
// strings reduces to content equality only because equal strings are
// always the same interned handle (see [heap.ManageString]).
func Equal(a, b Value) bool {
	if a.k != b.k {
		return false
	}
	switch a.k {
	case kindNil:
		return true
	case kindBool:
		return a.b == b.b
	case kindNumber:
		return a.num == b.num
	case kindObj:
		return a.obj == b.obj
	default:
		return false
	}
}

// mark marks v's object, if any, through m. Object variants call this
// from their own Trace to mark a Value-typed field without needing to
// unwrap the union themselves.
func (v Value) mark(m heap.Marker) {
	if v.k == kindObj && v.obj != nil {
		m.Mark(v.obj)
	}
}

// TraceValue marks v's object, if any, through m. It is the exported
// form of Value.mark, for packages outside value (fiber, channel) that
// hold Values directly and need to trace them from their own Trace
// implementations.
func TraceValue(v Value, m heap.Marker) { v.mark(m) }

// Format renders v's debug representation, descending into object
// children only while depth > 0.
func (v Value) Format(depth int) string {
	switch v.k {
	case kindNil:
		return "nil"
	case kindBool:
		if v.b {
			return "true"
		}
		return "false"
	case kindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case kindObj:
		if depth <= 0 {
			return heap.FormatDepthSentinel
		}
		return v.obj.Format(depth)
	default:
		return heap.FormatDepthSentinel
	}
}
