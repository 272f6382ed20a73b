package sys

// Interface is the OS capability surface consumed by the ownership
// wrappers. Every method either succeeds or reports the raw OS error.
type Interface interface {
	// Close releases a descriptor. A single call; retry policy belongs to
	// the caller.
	Close(fd int) error

	// Fstat returns the backing size of the descriptor's resource.
	Fstat(fd int) (int64, error)

	// Mmap maps length bytes of the descriptor's backing resource starting
	// at offset.
	Mmap(fd int, offset int64, length, prot, flags int) ([]byte, error)

	// MmapAnon maps length bytes of anonymous memory with no backing
	// descriptor.
	MmapAnon(length, prot, flags int) ([]byte, error)

	// Munmap destroys the mapping that produced data.
	Munmap(data []byte) error

	// Msync flushes the mapping synchronously.
	Msync(data []byte) error

	// Madvise hints the kernel about the mapping's access pattern.
	Madvise(data []byte, advice int) error

	// Pagesize returns the system page size.
	Pagesize() int
}
