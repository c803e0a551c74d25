package value

import "github.com/joshuapare/hivekit/heap"

// BoundMethod pairs a receiver value with the method closure looked up
// on it, the boxed result of a plain (non-Invoke) GetProperty on a
// method name.
type BoundMethod struct {
	heap.Header
	receiver Value
	method   heap.Handle[*Closure]
}

// NewBoundMethod constructs a BoundMethod.
func NewBoundMethod(receiver Value, method heap.Handle[*Closure]) *BoundMethod {
	return &BoundMethod{receiver: receiver, method: method}
}

func (bm *BoundMethod) AllocHeader() *heap.Header { return &bm.Header }

func (bm *BoundMethod) Trace(marker heap.Marker) {
	bm.receiver.mark(marker)
	heap.MarkHandle[*Closure](marker, bm.method)
}

func (bm *BoundMethod) Size() int { return 40 }
func (bm *BoundMethod) Kind() heap.Kind { return heap.KindBoundMethod }
func (bm *BoundMethod) Format(depth int) string {
	if depth <= 0 {
		return heap.FormatDepthSentinel
	}
	return "<bound method " + bm.method.Deref().Format(depth-1) + ">"
}

// Receiver returns the bound receiver.
func (bm *BoundMethod) Receiver() Value { return bm.receiver }

// Method returns the bound method closure handle.
func (bm *BoundMethod) Method() heap.Handle[*Closure] { return bm.method }
