// Package bytecode defines the closed instruction set a compiled
// function body is encoded into, the per-function chunk (instruction
// bytes, constant pool, line table, try-block table), and the
// encode/decode pair the compiler and VM share.
//
// Chunk is generic over its constant type so this package never needs
// to import the value package that defines Value: the VM instantiates
// Chunk[value.Value], keeping the dependency one-directional the way
// the teacher's internal/buf package never imports anything above it.
package bytecode
