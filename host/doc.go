// Package host defines the external collaborator contracts the core
// runtime consumes but never implements itself (spec.md §6): the
// Stdio the Print opcode and GC debug logging write through, the
// ModuleLoader the Import opcode resolves paths against, and the
// NativeFn shape a host-provided function is bound into a class or
// module's symbol table as.
package host
