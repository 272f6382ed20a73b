// Package scoped provides linear, exactly-once ownership of raw operating
// system resources: file descriptors and virtual memory mappings.
//
// Each wrapper owns at most one resource. Ownership is singular and never
// shared; it moves between wrappers explicitly (Move, Adopt, Swap) and ends
// exactly once, either by an explicit Close/Drop or by handing the raw
// resource back to the caller with Release.
//
// # Quick Start
//
//	raw, _ := unix.Open("data.bin", unix.O_RDONLY, 0)
//	fd := scoped.NewFD(raw)
//
//	// MapFile consumes the descriptor: whatever happens, fd is closed
//	// before MapFile returns.
//	m, err := scoped.MapFile(fd)
//	if err != nil {
//	    return err
//	}
//	defer m.Drop()
//
//	process(m.Bytes())
//
// Anonymous memory works the same way without a descriptor:
//
//	m, err := scoped.MapAnon(1 << 20)
//
// # Close Policy
//
// Releasing a wrapper that owns nothing is a no-op by default
// (CloseIdempotent). Pass WithClosePolicy(CloseStrict) to make double
// release a hard ErrAlreadyReleased instead; the policy holds for every
// call site: Close, Reset and Drop.
//
// # Accounting
//
// An optional Tracker (WithTracker) budgets mapped bytes, keeps an open
// descriptor gauge and rate-limits Prefault. A nil Tracker disables all of
// it, so accounting never costs a nil check at call sites.
//
// # Concurrency
//
// A wrapper instance is owned by one goroutine at a time; there is no
// internal synchronization. Sharing an instance across goroutines requires
// external synchronization. A Tracker may be shared across owners and is
// safe for concurrent use.
//
// The package is Unix-only.
package scoped
