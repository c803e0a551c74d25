// Package errs defines the Go-level error taxonomy for host-facing
// failures (spec.md §7): the closed set of error Kinds, a wrapped-
// sentinel style per Kind, and the LangError carrier used wherever a
// package outside vm needs to signal a language-level failure before
// it is lifted into a raised error-class Instance. The in-language
// raise/unwind protocol itself — constructing an Instance of the
// matching built-in error class and walking try-tables — is VM state
// (heap-allocated, frame-aware) and lives in package vm; this package
// only carries the Kind taxonomy and plain Go error values that
// precede it (compiler diagnostics, loader failures, I/O failures).
package errs
