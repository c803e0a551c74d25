//go:build !linux && !darwin && !freebsd

package fiber

// newMappedRegion falls back to a plain Go-allocated byte slice on
// platforms with no golang.org/x/sys/unix mmap support. The fixed-
// capacity contract is unchanged: the slice is sized once and never
// grown.
func newMappedRegion(maxFrames int) (*frameRegion, error) {
	mem := make([]byte, maxFrames*frameStride)
	return newFrameRegion(mem, maxFrames, nil), nil
}
