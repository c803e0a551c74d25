// Package vm implements the stack-based bytecode interpreter (spec.md
// §4.5 and §4.7): the dispatch loop, call semantics and closure
// capture, property/method dispatch, error unwinding, module
// import/export, iterator protocol, and cooperative fiber scheduling.
// It is the topmost package: it wires together heap, value, bytecode,
// fiber, channel, module, hooks, host, and errs into one running
// interpreter instance.
package vm
