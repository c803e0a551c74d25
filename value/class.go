package value

import (
	"fmt"

	"github.com/joshuapare/hivekit/heap"
)

// Class is a named bundle of fields and methods, with an optional
// superclass and an optional metaclass. The metaclass chain follows
// the newer laythe_* source tree per spec.md's open-question
// resolution (§9: "the newer laythe_* semantics are authoritative...
// class metaclass chain").
//
// Method map keys are interned (spec.md §3); here that just means
// method names are plain Go strings used as map keys — Go string
// equality over the already-interned *String content is the same
// content equality the source language guarantees.
type Class struct {
	heap.Header
	name       string
	fields     []string
	fieldIndex map[string]int
	methods    map[string]Value
	super      heap.Handle[*Class]
	meta       heap.Handle[*Class]
}

// NewClass constructs a Class named name with the given declared field
// order.
func NewClass(name string, fields []string) *Class {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f] = i
	}
	return &Class{name: name, fields: fields, fieldIndex: idx, methods: map[string]Value{}}
}

func (c *Class) AllocHeader() *heap.Header { return &c.Header }

func (c *Class) Trace(marker heap.Marker) {
	for _, m := range c.methods {
		m.mark(marker)
	}
	heap.MarkHandle[*Class](marker, c.super)
	heap.MarkHandle[*Class](marker, c.meta)
}

func (c *Class) Size() int {
	return len(c.fields)*24 + len(c.methods)*48 + len(c.name) + 32
}
func (c *Class) Kind() heap.Kind { return heap.KindClass }
func (c *Class) Format(int) string { return fmt.Sprintf("<class %s>", c.name) }

// Name returns the class's declared name.
func (c *Class) Name() string { return c.name }

// Fields returns the declared field order.
func (c *Class) Fields() []string { return c.fields }

// FieldIndex looks up the parallel-array slot for a declared field
// name, for O(1) property access (spec.md §4.5).
func (c *Class) FieldIndex(name string) (int, bool) {
	i, ok := c.fieldIndex[name]
	return i, ok
}

// AddMethod binds name to a callable (Closure or Native) Value, boxed
// into the method map.
func (c *Class) AddMethod(name string, method Value) { c.methods[name] = method }

// Method looks up a method by name on this class only (not its
// superclass chain).
func (c *Class) Method(name string) (Value, bool) {
	v, ok := c.methods[name]
	return v, ok
}

// Super returns the superclass handle, if any.
func (c *Class) Super() heap.Handle[*Class] { return c.super }

// SetSuper installs super as this class's superclass and copies its
// method table in (spec.md §4.3's Inherit opcode). Inherit always runs
// before the subclass body's own Method opcodes, so callers applying
// the compiled instruction stream in order get the expected override
// behavior for free.
func (c *Class) SetSuper(super heap.Handle[*Class]) {
	c.super = super
	for name, m := range super.Deref().methods {
		c.methods[name] = m
	}
}

// Meta returns the metaclass handle, if any.
func (c *Class) Meta() heap.Handle[*Class] { return c.meta }

// SetMeta installs this class's metaclass.
func (c *Class) SetMeta(meta heap.Handle[*Class]) { c.meta = meta }

// ResolveSuperMethod looks up name starting at the declared
// superclass, for SuperInvoke/GetSuper which must skip this class's
// own (possibly inherited-and-overridden) method map.
func (c *Class) ResolveSuperMethod(name string) (Value, bool) {
	if c.super.IsNil() {
		return Value{}, false
	}
	return c.super.Deref().Method(name)
}
