package host

import (
	"fmt"

	"github.com/joshuapare/hivekit/value"
)

// Library is a named table of host-provided natives, installed as a
// whole into a module's symbol table by [Library.Install] (spec.md §6). This
// mirrors hive's own registration pattern of building up a table of
// named entries once and binding it wholesale rather than one
// registration call per entry.
type Library struct {
	Name      string
	Functions []*value.Native
}

// NewLibrary constructs an empty, named Library.
func NewLibrary(name string) *Library {
	return &Library{Name: name}
}

// Add registers a native function under the library, returning the
// library for chaining.
func (l *Library) Add(n *value.Native) *Library {
	l.Functions = append(l.Functions, n)
	return l
}

// Install defines every function in the library as a symbol on mod.
// Natives need no heap allocation of their own (they are not yet
// GC-managed objects until a caller stores them in a Value that
// reaches the heap via some other live root), so Install is a plain
// symbol-table fill.
func (l *Library) Install(mod interface{ Define(string, value.Value) }) {
	for _, fn := range l.Functions {
		mod.Define(fn.Name(), value.FromObj(fn))
	}
}

// StandardLibrary returns the host's standard natives, covering the
// handful of host services spec.md §6 names directly: text decoding
// for legacy-encoded input. vm.New stores it as VM.Library; nothing in
// the VM calls Install, so a module sees these natives only after a
// caller installs them into it.
func StandardLibrary() *Library {
	lib := NewLibrary("host")
	lib.Add(value.NewNative(
		"decodeLegacyText",
		value.Fixed(1),
		[]string{"string"},
		nativeDecodeLegacyText,
	))
	return lib
}

func nativeDecodeLegacyText(h value.Hooks, _ value.Value, args []value.Value) (value.Value, error) {
	arg := args[0]
	str, ok := arg.AsObj().(*value.String)
	if !ok {
		return value.Value{}, fmt.Errorf("decodeLegacyText: expected string argument")
	}
	decoded, err := DecodeLegacyText([]byte(str.Go()))
	if err != nil {
		return value.Value{}, err
	}
	return value.FromObj(h.ManageString(decoded).Deref()), nil
}
