package value

import (
	"github.com/joshuapare/hivekit/heap"
)

// String is interned UTF-8 content: equal strings always resolve to
// the same *String through [heap.ManageString], so identity
// comparison on the handle is content comparison.
type String struct {
	heap.Header
	s string
}

// NewString constructs a String wrapping s. Callers should not call
// this directly outside of the heap.ManageString construct callback —
// use [Intern].
func NewString(s string) *String { return &String{s: s} }

// Intern returns the unique handle for s on h, allocating only on
// first sighting.
func Intern(h *heap.Heap, s string) heap.Handle[*String] {
	return heap.ManageString[*String](h, s, func() *String { return NewString(s) })
}

func (s *String) AllocHeader() *heap.Header { return &s.Header }
func (s *String) Trace(heap.Marker)          {}
func (s *String) Size() int                  { return len(s.s) + 16 }
func (s *String) Kind() heap.Kind            { return heap.KindString }
func (s *String) Format(int) string          { return s.s }

// StringValue implements [heap.Interned].
func (s *String) StringValue() string { return s.s }

// Go returns the string's Go-native content.
func (s *String) Go() string { return s.s }

// Len reports the string's byte length.
func (s *String) Len() int { return len(s.s) }
