package module

import (
	"fmt"

	"github.com/joshuapare/hivekit/heap"
	"github.com/joshuapare/hivekit/value"
)

// Registry assigns stable numeric ids to modules as they are first
// resolved, and remembers the mapping so a re-import of the same path
// returns the same handle rather than constructing a duplicate Module.
// Grounded on hive/link/link.go's resolve-by-path, bind-into-symbol-
// table shape, and pkg/ast's named-and-looked-up tree builder.
type Registry struct {
	byPath map[string]heap.Handle[*value.Module]
	nextID uint32
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byPath: map[string]heap.Handle[*value.Module]{}}
}

// GetOrCreate returns the existing module at path, or allocates one on
// h with a freshly assigned id.
func (r *Registry) GetOrCreate(h *heap.Heap, path string) heap.Handle[*value.Module] {
	if existing, ok := r.byPath[path]; ok {
		return existing
	}
	id := r.nextID
	r.nextID++
	handle := heap.Manage(h, value.NewModule(path, id))
	r.byPath[path] = handle
	return handle
}

// Lookup returns the registered module at path, if any.
func (r *Registry) Lookup(path string) (heap.Handle[*value.Module], bool) {
	m, ok := r.byPath[path]
	return m, ok
}

// Trace marks every registered module — the registry is itself a root
// (the VM's RootTracer should call this), since a module may be
// reachable only by path (e.g. not yet imported by any executing
// code) and must still survive collection once registered.
func (r *Registry) Trace(marker heap.Marker) {
	for _, h := range r.byPath {
		heap.MarkHandle[*value.Module](marker, h)
	}
}

// errAlreadyRegistered is returned by Register when path collides with
// an existing entry under a different handle.
var errAlreadyRegistered = fmt.Errorf("module: path already registered")

// Register installs an already-constructed module handle under path,
// failing if path is already registered to a different handle — used
// when the host's ModuleLoader constructs modules itself rather than
// going through GetOrCreate.
func (r *Registry) Register(path string, handle heap.Handle[*value.Module]) error {
	if existing, ok := r.byPath[path]; ok && !existing.Equal(handle) {
		return fmt.Errorf("%w: %s", errAlreadyRegistered, path)
	}
	r.byPath[path] = handle
	if id := handle.Deref().ID(); id >= r.nextID {
		r.nextID = id + 1
	}
	return nil
}
