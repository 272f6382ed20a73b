//go:build unix

package sys

import (
	"os"

	"golang.org/x/sys/unix"
)

// Default is the real OS implementation used outside of tests.
var Default Interface = Real{}

// Real issues the underlying system calls via golang.org/x/sys/unix.
type Real struct{}

func (Real) Close(fd int) error {
	return unix.Close(fd)
}

func (Real) Fstat(fd int) (int64, error) {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return 0, err
	}
	return st.Size, nil
}

func (Real) Mmap(fd int, offset int64, length, prot, flags int) ([]byte, error) {
	return unix.Mmap(fd, offset, length, prot, flags)
}

func (Real) MmapAnon(length, prot, flags int) ([]byte, error) {
	return unix.Mmap(-1, 0, length, prot, flags|unix.MAP_ANON)
}

func (Real) Munmap(data []byte) error {
	return unix.Munmap(data)
}

func (Real) Msync(data []byte) error {
	return unix.Msync(data, unix.MS_SYNC)
}

func (Real) Madvise(data []byte, advice int) error {
	err := unix.Madvise(data, advice)
	if err == unix.EINVAL {
		// Likely a page alignment issue on Linux. The hint is advisory and
		// non-critical, so swallow it.
		return nil
	}
	return err
}

func (Real) Pagesize() int {
	return os.Getpagesize()
}
