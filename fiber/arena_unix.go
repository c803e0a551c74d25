//go:build linux || darwin || freebsd

package fiber

import "golang.org/x/sys/unix"

// newMappedRegion reserves an anonymous, zero-filled mapping for
// maxFrames frames' worth of bookkeeping. Grounded on hive/dirty's use
// of golang.org/x/sys/unix for page-level memory operations (msync
// there, mmap/munmap here), same package, same "talk to the OS
// directly rather than through os.File" rationale.
func newMappedRegion(maxFrames int) (*frameRegion, error) {
	size := maxFrames * frameStride
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	release := func() error { return unix.Munmap(mem) }
	return newFrameRegion(mem, maxFrames, release), nil
}
