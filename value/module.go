package value

import (
	"fmt"

	"github.com/joshuapare/hivekit/heap"
)

// Module holds one compilation unit's declared and exported symbols.
// It is a heap object variant like any other (§3's Data Model table
// lists it alongside String/List/Map), not a separate concern from the
// rest of the object model — Fun holds a direct handle back to its
// owning Module the same way it holds a handle to its code chunk.
type Module struct {
	heap.Header
	path    string
	id      uint32
	symbols map[string]Value
	exports map[string]Value
}

// NewModule constructs an empty Module for path, tagged with a stable
// numeric id (assigned by whatever registers modules — see the
// separate module package for that bookkeeping).
func NewModule(path string, id uint32) *Module {
	return &Module{path: path, id: id, symbols: map[string]Value{}, exports: map[string]Value{}}
}

func (m *Module) AllocHeader() *heap.Header { return &m.Header }

func (m *Module) Trace(marker heap.Marker) {
	for _, v := range m.symbols {
		v.mark(marker)
	}
	for _, v := range m.exports {
		v.mark(marker)
	}
}

func (m *Module) Size() int { return (len(m.symbols)+len(m.exports))*48 + len(m.path) + 32 }
func (m *Module) Kind() heap.Kind { return heap.KindModule }
func (m *Module) Format(int) string { return fmt.Sprintf("<module %s>", m.path) }

// Path returns the module's import path.
func (m *Module) Path() string { return m.path }

// ID returns the module's stable numeric id.
func (m *Module) ID() uint32 { return m.id }

// Define declares a symbol visible within the module.
func (m *Module) Define(name string, v Value) { m.symbols[name] = v }

// Symbol looks up a declared symbol by name.
func (m *Module) Symbol(name string) (Value, bool) {
	v, ok := m.symbols[name]
	return v, ok
}

// Export copies a declared symbol into the export map. Re-exporting the
// same name is an error (spec.md §4.4).
func (m *Module) Export(name string) error {
	if _, already := m.exports[name]; already {
		return fmt.Errorf("module %s: %q already exported", m.path, name)
	}
	v, ok := m.symbols[name]
	if !ok {
		return fmt.Errorf("module %s: cannot export undeclared symbol %q", m.path, name)
	}
	m.exports[name] = v
	return nil
}

// Exports returns a read-only view of the module's export map, the
// value Import binds when the whole module (rather than one symbol) is
// requested.
func (m *Module) Exports() map[string]Value {
	view := make(map[string]Value, len(m.exports))
	for k, v := range m.exports {
		view[k] = v
	}
	return view
}

// ExportedSymbol looks up one exported symbol by name.
func (m *Module) ExportedSymbol(name string) (Value, bool) {
	v, ok := m.exports[name]
	return v, ok
}
