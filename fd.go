package scoped

import (
	"errors"

	"golang.org/x/sys/unix"

	"github.com/hupe1980/scoped/branchless"
	"github.com/hupe1980/scoped/internal/sys"
)

// InvalidFD is the raw value reported for a descriptor wrapper that owns
// nothing. No Unix system call ever returns a negative descriptor, so the
// sentinel cannot collide with a legitimately acquired handle.
const InvalidFD = -1

// FD owns at most one OS file descriptor. Ownership is linear: it moves
// between wrappers explicitly and the underlying descriptor is closed
// exactly once.
//
// The zero value owns nothing. FD is not safe for concurrent use; each
// instance belongs to one goroutine at a time.
type FD struct {
	fd  int
	own bool

	policy  ClosePolicy
	tracker *Tracker
	logger  *Logger
	sys     sys.Interface
}

// NewFD wraps a raw descriptor without issuing a system call. A negative
// raw value produces an empty wrapper.
//
// NewFD honors WithClosePolicy, WithTracker and WithLogger.
func NewFD(raw int, opts ...Option) *FD {
	o := newOptions(0, 0, opts)

	f := &FD{
		policy:  o.policy,
		tracker: o.tracker,
		logger:  o.logger,
		sys:     o.sys,
	}
	f.adopt(raw)

	return f
}

// adopt takes over a raw descriptor. The wrapper must not currently own one.
func (f *FD) adopt(raw int) {
	if raw < 0 {
		f.fd = InvalidFD
		f.own = false
		return
	}
	f.fd = raw
	f.own = true
	f.tracker.addDescriptor()
}

// Valid reports whether the wrapper currently owns a descriptor.
func (f *FD) Valid() bool {
	return f.own
}

// Raw returns the wrapped descriptor for handing to OS calls, or InvalidFD.
// Ownership does not change; see Release for that.
func (f *FD) Raw() int {
	if !f.own {
		return InvalidFD
	}
	return f.fd
}

// Release returns the raw descriptor and marks the wrapper empty. No system
// call is issued; responsibility for closing transfers to the caller.
// Release never fails; on an empty wrapper it returns InvalidFD.
func (f *FD) Release() int {
	if !f.own {
		return InvalidFD
	}
	raw := f.fd
	f.fd = InvalidFD
	f.own = false
	f.tracker.releaseDescriptor()
	return raw
}

// Close releases the owned descriptor. Interrupted closes are retried until
// they resolve; hard failures are returned as *Error with the OS error code
// and leave the wrapper state unchanged so the caller may retry.
//
// Closing an empty wrapper follows the wrapper's ClosePolicy.
func (f *FD) Close() error {
	if !f.own {
		if f.policy == CloseStrict {
			return ErrAlreadyReleased
		}
		return nil
	}
	return f.closeOwned()
}

// Drop is Close for paths that are already failing: it closes the owned
// descriptor best-effort, logging a failure instead of returning it. Drop
// on an empty wrapper is always a no-op.
func (f *FD) Drop() {
	if !f.own {
		return
	}
	if err := f.closeOwned(); err != nil {
		f.log().Error("close failed during teardown", "fd", f.fd, "error", err)
	}
}

// Reset closes the currently owned descriptor, then adopts raw (possibly
// InvalidFD). Resetting an empty wrapper follows the ClosePolicy: under
// CloseStrict it fails without adopting raw.
func (f *FD) Reset(raw int) error {
	if !f.own {
		if f.policy == CloseStrict {
			return ErrAlreadyReleased
		}
	} else if err := f.closeOwned(); err != nil {
		return err
	}
	f.adopt(raw)
	return nil
}

// Adopt is move assignment: it closes the currently owned descriptor (if
// any), then transfers ownership from src, leaving src empty. Adopting from
// an empty src leaves f empty.
func (f *FD) Adopt(src *FD) error {
	if f == src {
		return nil
	}
	if f.own {
		if err := f.closeOwned(); err != nil {
			return err
		}
	}
	f.adopt(src.Release())
	return nil
}

// Move is move construction: it returns a new wrapper owning the
// descriptor, with the same policy, tracker and logger, and leaves f empty.
// Move never fails and issues no system call.
func (f *FD) Move() *FD {
	g := &FD{
		fd:      f.fd,
		own:     f.own,
		policy:  f.policy,
		tracker: f.tracker,
		logger:  f.logger,
		sys:     f.sys,
	}
	f.fd = InvalidFD
	f.own = false
	return g
}

// Swap exchanges the owned descriptors of f and g. It never fails, issues
// no system call, and is safe for self-swap. Policy, tracker and logger
// stay with their wrappers; per-tracker descriptor gauges are kept
// consistent.
func (f *FD) Swap(g *FD) {
	if f.own {
		f.tracker.releaseDescriptor()
	}
	if g.own {
		g.tracker.releaseDescriptor()
	}

	branchless.Swap(&f.fd, &g.fd)
	f.own, g.own = g.own, f.own

	if f.own {
		f.tracker.addDescriptor()
	}
	if g.own {
		g.tracker.addDescriptor()
	}
}

// Equal reports full stored-state equality: both wrappers hold the same
// raw descriptor value, or both are empty.
func (f *FD) Equal(g *FD) bool {
	return f.Raw() == g.Raw()
}

// closeOwned issues the close system call for the owned descriptor,
// retrying unconditionally on EINTR so an interrupted close is never
// surfaced as a spurious failure.
func (f *FD) closeOwned() error {
	for {
		err := f.sysiface().Close(f.fd)
		if err == nil {
			break
		}
		if errors.Is(err, unix.EINTR) {
			continue
		}
		f.log().LogClose(f.fd, err)
		return &Error{Op: "close", Err: err}
	}

	f.log().LogClose(f.fd, nil)
	f.fd = InvalidFD
	f.own = false
	f.tracker.releaseDescriptor()
	return nil
}

func (f *FD) sysiface() sys.Interface {
	if f.sys == nil {
		return sys.Default
	}
	return f.sys
}

func (f *FD) log() *Logger {
	if f.logger == nil {
		return discard
	}
	return f.logger
}
