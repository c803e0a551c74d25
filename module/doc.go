// Package module provides the path -> id resolution and registered-
// module table that backs Fun's "owning module handle+id" field
// (spec.md §4.4). The Module object type itself — symbols, exports,
// the heap.Obj contract — lives in value/module.go, alongside its
// sibling object variants; this package is the compiler/VM-facing
// registry layered on top of it, not a second definition of the type.
package module
