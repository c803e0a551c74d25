package value

import (
	"fmt"

	"github.com/joshuapare/hivekit/heap"
)

// Instance is one object of a Class: a field array parallel to
// Class.Fields(), addressed through the class's name->index map for
// O(1) GetProperty/SetProperty (spec.md §4.5).
type Instance struct {
	heap.Header
	class  heap.Handle[*Class]
	fields []Value
}

// NewInstance constructs an Instance of class with every field
// initialized to nil.
func NewInstance(class heap.Handle[*Class]) *Instance {
	n := len(class.Deref().Fields())
	fields := make([]Value, n)
	for i := range fields {
		fields[i] = Nil
	}
	return &Instance{class: class, fields: fields}
}

func (inst *Instance) AllocHeader() *heap.Header { return &inst.Header }

func (inst *Instance) Trace(marker heap.Marker) {
	heap.MarkHandle[*Class](marker, inst.class)
	for _, f := range inst.fields {
		f.mark(marker)
	}
}

func (inst *Instance) Size() int { return len(inst.fields)*16 + 24 }
func (inst *Instance) Kind() heap.Kind { return heap.KindInstance }
func (inst *Instance) Format(int) string {
	return fmt.Sprintf("<instance %s>", inst.class.Deref().Name())
}

// Class returns the instance's class handle.
func (inst *Instance) Class() heap.Handle[*Class] { return inst.class }

// Field reads a declared field by name.
func (inst *Instance) Field(name string) (Value, bool) {
	i, ok := inst.class.Deref().FieldIndex(name)
	if !ok {
		return Value{}, false
	}
	return inst.fields[i], true
}

// SetField writes a declared field by name, reporting false if name is
// not a field of inst's class.
func (inst *Instance) SetField(name string, v Value) bool {
	i, ok := inst.class.Deref().FieldIndex(name)
	if !ok {
		return false
	}
	inst.fields[i] = v
	return true
}
