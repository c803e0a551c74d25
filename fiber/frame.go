package fiber

import (
	"github.com/joshuapare/hivekit/heap"
	"github.com/joshuapare/hivekit/value"
)

// CallFrame pins one active call: the executing closure, the current
// instruction pointer into its chunk's bytes, and the base slot index
// on the fiber's value stack where its locals begin (spec.md §4.5).
type CallFrame struct {
	Closure heap.Handle[*value.Closure]
	IP      uint32
	Base    uint32
}

// frames is the fixed-capacity call-frame array of one fiber: closure
// handles in an ordinary Go slice (the collector must trace these),
// ip/base bookkeeping in a [frameRegion] that holds no pointers at
// all.
type frames struct {
	region   *frameRegion
	closures []heap.Handle[*value.Closure]
	count    int
}

func newFrames(maxFrames int) (*frames, error) {
	region, err := newMappedRegion(maxFrames)
	if err != nil {
		return nil, err
	}
	return &frames{region: region, closures: make([]heap.Handle[*value.Closure], maxFrames)}, nil
}

// Push pins a new frame calling closure with locals starting at base.
// Reports false if the fiber's frame array is already at max depth
// (spec.md §7: a stack-overflow RuntimeError, not a fatal defect).
func (f *frames) Push(closure heap.Handle[*value.Closure], base int) bool {
	if f.count >= f.region.MaxFrames() {
		return false
	}
	f.closures[f.count] = closure
	f.region.SetIP(f.count, 0)
	f.region.SetBase(f.count, uint32(base))
	f.count++
	return true
}

// Pop discards the top frame. Reports false if the array is empty.
func (f *frames) Pop() bool {
	if f.count == 0 {
		return false
	}
	f.count--
	f.closures[f.count] = heap.Handle[*value.Closure]{}
	return true
}

// Len reports the number of active frames.
func (f *frames) Len() int { return f.count }

// Top returns the currently executing frame. ok is false on an empty
// array.
func (f *frames) Top() (CallFrame, bool) {
	if f.count == 0 {
		return CallFrame{}, false
	}
	return f.at(f.count - 1), true
}

// At returns the i-th frame (0 = oldest). ok is false if i is out of
// range.
func (f *frames) At(i int) (CallFrame, bool) {
	if i < 0 || i >= f.count {
		return CallFrame{}, false
	}
	return f.at(i), true
}

func (f *frames) at(i int) CallFrame {
	return CallFrame{Closure: f.closures[i], IP: f.region.IP(i), Base: f.region.Base(i)}
}

// SetTopIP overwrites the current frame's instruction pointer, the
// dispatch loop's per-step advance.
func (f *frames) SetTopIP(ip uint32) {
	if f.count > 0 {
		f.region.SetIP(f.count-1, ip)
	}
}

// trace marks every active frame's closure handle.
func (f *frames) trace(marker heap.Marker) {
	for i := 0; i < f.count; i++ {
		heap.MarkHandle[*value.Closure](marker, f.closures[i])
	}
}

// release returns the frame array's backing memory to the OS.
func (f *frames) release() error { return f.region.Release() }
