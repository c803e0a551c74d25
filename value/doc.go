// Package value defines the uniform representation of every language
// value (nil, boolean, number, object handle) and the concrete object
// variants ([String], [List], [Map], [Fun], [Closure], [Upvalue],
// [Class], [Instance], [BoundMethod], [Native], [Module]; Fiber and
// Channel live in their own packages but implement the same [heap.Obj]
// contract, which package heap defines).
//
// Every variant embeds a [heap.Header] and implements heap.Obj's five
// methods (AllocHeader, Trace, Size, Kind, Format) the way the teacher's
// hive/alloc cell types expose a uniform header without the collector
// needing to know their payload layout.
package value
