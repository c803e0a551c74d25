package host

import (
	"errors"
	"fmt"

	"github.com/joshuapare/hivekit/heap"
	"github.com/joshuapare/hivekit/value"
)

// ErrModuleNotFound is returned by a ModuleLoader when no module
// exists at the requested path. The VM's Import opcode treats this as
// a recoverable ImportError rather than a host failure.
var ErrModuleNotFound = errors.New("host: module not found")

// ModuleLoader resolves an import path to an already-built module
// (spec.md §6). Source-code compilation is outside the core's scope —
// by the time a path reaches a ModuleLoader, whatever produced it
// (the embedding host, a precompiled module cache, a bundler) has
// already done the lexing/parsing/compiling and handed back a linked
// Module object ready to bind into an Import opcode's target. Mirrors
// hive's own split between path resolution (hive/link) and the
// already-parsed artifact it wires together.
type ModuleLoader interface {
	// Resolve returns the compiled module at path, or wraps
	// ErrModuleNotFound if no such module exists.
	Resolve(path string) (heap.Handle[*value.Module], error)
}

// FuncLoader adapts a plain function to ModuleLoader, the same
// adapter-function shape hive's option constructors use for small,
// stateless collaborators.
type FuncLoader func(path string) (heap.Handle[*value.Module], error)

// Resolve implements ModuleLoader.
func (f FuncLoader) Resolve(path string) (heap.Handle[*value.Module], error) {
	return f(path)
}

// MapLoader resolves modules from an in-memory table, used by tests
// and by embedders that compile their whole program up front.
type MapLoader map[string]heap.Handle[*value.Module]

// Resolve implements ModuleLoader.
func (m MapLoader) Resolve(path string) (heap.Handle[*value.Module], error) {
	mod, ok := m[path]
	if !ok {
		return heap.Handle[*value.Module]{}, fmt.Errorf("%w: %s", ErrModuleNotFound, path)
	}
	return mod, nil
}

// ChainLoader tries each ModuleLoader in order, returning the first
// successful resolution. Grounded on hive's loader_unix.go /
// loader_other.go "platform default, then portable fallback" pairing,
// generalized to an arbitrary chain rather than exactly two.
type ChainLoader []ModuleLoader

// Resolve implements ModuleLoader.
func (c ChainLoader) Resolve(path string) (heap.Handle[*value.Module], error) {
	var lastErr error
	for _, loader := range c {
		mod, err := loader.Resolve(path)
		if err == nil {
			return mod, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("%w: %s", ErrModuleNotFound, path)
	}
	return heap.Handle[*value.Module]{}, lastErr
}

// compile-time interface checks.
var (
	_ ModuleLoader = FuncLoader(nil)
	_ ModuleLoader = MapLoader(nil)
	_ ModuleLoader = ChainLoader(nil)
)
