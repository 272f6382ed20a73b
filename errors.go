package scoped

import (
	"errors"
	"syscall"
)

var (
	// ErrAlreadyReleased is returned under CloseStrict when releasing a
	// wrapper that owns no resource.
	ErrAlreadyReleased = errors.New("scoped: wrapper owns no resource")
	// ErrInvalidDescriptor is returned when a constructor is handed a
	// descriptor wrapper that owns nothing.
	ErrInvalidDescriptor = errors.New("scoped: invalid descriptor")
	// ErrInvalidSize is returned for zero or out-of-range mapping sizes.
	ErrInvalidSize = errors.New("scoped: invalid size")
	// ErrInvalidOffset is returned for negative or non-page-aligned offsets.
	ErrInvalidOffset = errors.New("scoped: invalid offset")
	// ErrOutOfBounds is returned when the offset lies at or past the end of
	// the backing resource.
	ErrOutOfBounds = errors.New("scoped: offset out of bounds")
)

// Error wraps a failed OS call with the operation that issued it.
type Error struct {
	Op  string // "close", "fstat", "mmap", "munmap", "msync"
	Err error  // underlying OS error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "scoped: " + e.Op + ": " + e.Err.Error()
	}
	return "scoped: " + e.Op
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errno returns the numeric OS error code, or 0 if the underlying error
// does not carry one.
func (e *Error) Errno() syscall.Errno {
	var errno syscall.Errno
	errors.As(e.Err, &errno)
	return errno
}
