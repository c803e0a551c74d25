package fiber

import "github.com/joshuapare/hivekit/internal/bits"

// frameStride is the byte width of one frame's flat bookkeeping: a u32
// instruction-pointer offset and a u32 stack-base index.
const frameStride = 8

// frameRegion is a fixed-capacity flat store for every fiber's
// call-frame ip/base pair. It holds no Go pointers, so it never needs
// collector visibility — exactly the property that makes it safe to
// back with an OS memory mapping on platforms that support one
// ([newMappedRegion] in arena_unix.go) instead of the Go heap.
type frameRegion struct {
	mem       []byte
	maxFrames int
	release   func() error
}

func newFrameRegion(mem []byte, maxFrames int, release func() error) *frameRegion {
	return &frameRegion{mem: mem, maxFrames: maxFrames, release: release}
}

// IP returns frame i's instruction-pointer offset.
func (r *frameRegion) IP(i int) uint32 { return bits.U32(r.mem[i*frameStride:]) }

// SetIP writes frame i's instruction-pointer offset.
func (r *frameRegion) SetIP(i int, v uint32) { bits.PutU32(r.mem, i*frameStride, v) }

// Base returns frame i's value-stack base index.
func (r *frameRegion) Base(i int) uint32 { return bits.U32(r.mem[i*frameStride+4:]) }

// SetBase writes frame i's value-stack base index.
func (r *frameRegion) SetBase(i int, v uint32) { bits.PutU32(r.mem, i*frameStride+4, v) }

// MaxFrames reports the region's fixed frame capacity.
func (r *frameRegion) MaxFrames() int { return r.maxFrames }

// Release returns the region's backing memory to the OS (a no-op on
// the non-mmap fallback).
func (r *frameRegion) Release() error {
	if r.release == nil {
		return nil
	}
	return r.release()
}
