// Package hooks provides the facade the compiler and native functions
// see into the running VM: object allocation, GC root pinning for
// multi-step constructions, and calling back into the interpreter.
// Grounded on pkg/hive/factory.go + pkg/hive/options.go's pattern of a
// small, friendly façade wrapping the lower-level internal packages for
// external callers — here the façade wraps heap, value, and module for
// the compiler and for host-provided NativeFns.
package hooks
