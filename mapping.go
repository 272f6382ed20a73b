package scoped

import (
	"context"
	"unsafe"

	"github.com/hupe1980/scoped/branchless"
	"github.com/hupe1980/scoped/internal/conv"
	"github.com/hupe1980/scoped/internal/sys"
)

// Mapping owns at most one mapped virtual-memory region. Ownership is
// linear, like FD: the region is unmapped exactly once.
//
// The region is held as a byte slice; a nil slice means the wrapper owns
// nothing, so the empty state needs no magic address constant. The zero
// value owns nothing. Mapping is not safe for concurrent use.
type Mapping struct {
	data     []byte
	reserved int64 // page-rounded bytes reserved with the tracker

	policy  ClosePolicy
	tracker *Tracker
	logger  *Logger
	sys     sys.Interface
}

// MapFile maps the backing resource of fd and assumes ownership of the
// descriptor: whatever the outcome, the descriptor is closed before MapFile
// returns and fd is left empty. The backing size is queried with fstat and
// the region [offset, size) is mapped.
//
// If the descriptor fails to close after a successful map, the fresh
// mapping is unmapped again and the close failure is returned, so the
// caller never observes partially constructed state.
//
// Defaults: ProtRead, MapPrivate, offset 0. MapFile honors all Options.
func MapFile(fd *FD, opts ...Option) (m *Mapping, err error) {
	o := newOptions(ProtRead, MapPrivate, opts)
	raw := fd.Raw()

	defer func() {
		cerr := fd.Close()
		if cerr == nil {
			return
		}
		if err != nil {
			// Construction already failed; the close failure must not
			// replace it.
			o.logger.LogClose(raw, cerr)
			return
		}
		if m != nil {
			m.Drop()
			m = nil
		}
		err = cerr
	}()

	if !fd.Valid() {
		return nil, ErrInvalidDescriptor
	}

	size, serr := o.sys.Fstat(raw)
	if serr != nil {
		return nil, &Error{Op: "fstat", Err: serr}
	}
	if size == 0 {
		return nil, ErrInvalidSize
	}

	mask := pageMask(o.sys)
	if o.offset < 0 || o.offset&mask != 0 {
		return nil, ErrInvalidOffset
	}
	if o.offset >= size {
		return nil, ErrOutOfBounds
	}

	length, cerr := conv.Int64ToInt(size - o.offset)
	if cerr != nil {
		return nil, ErrInvalidSize
	}

	reserved := roundToPage(conv.IntToInt64(length), mask)
	if terr := o.tracker.reserveMapped(reserved); terr != nil {
		return nil, terr
	}

	data, merr := o.sys.Mmap(raw, o.offset, length, o.prot.sysProt(), o.flags.sysFlags())
	o.logger.LogMap("mmap", length, merr)
	if merr != nil {
		o.tracker.unreserveMapped(reserved)
		return nil, &Error{Op: "mmap", Err: merr}
	}

	m = &Mapping{
		data:     data,
		reserved: reserved,
		policy:   o.policy,
		tracker:  o.tracker,
		logger:   o.logger,
		sys:      o.sys,
	}
	return m, nil
}

// MapAnon maps length bytes of anonymous memory with no backing descriptor.
//
// Defaults: ProtRead|ProtWrite, MapPrivate. MapAnon honors all Options
// except WithOffset, which must remain zero for an anonymous region.
func MapAnon(length int, opts ...Option) (*Mapping, error) {
	o := newOptions(ProtRead|ProtWrite, MapPrivate, opts)

	if length <= 0 {
		return nil, ErrInvalidSize
	}
	if o.offset != 0 {
		return nil, ErrInvalidOffset
	}

	reserved := roundToPage(conv.IntToInt64(length), pageMask(o.sys))
	if terr := o.tracker.reserveMapped(reserved); terr != nil {
		return nil, terr
	}

	data, merr := o.sys.MmapAnon(length, o.prot.sysProt(), o.flags.sysFlags())
	o.logger.LogMap("mmap_anon", length, merr)
	if merr != nil {
		o.tracker.unreserveMapped(reserved)
		return nil, &Error{Op: "mmap", Err: merr}
	}

	return &Mapping{
		data:     data,
		reserved: reserved,
		policy:   o.policy,
		tracker:  o.tracker,
		logger:   o.logger,
		sys:      o.sys,
	}, nil
}

// Valid reports whether the wrapper currently owns a mapped region.
func (m *Mapping) Valid() bool {
	return m.data != nil
}

// Bytes returns the mapped region. The slice is valid only until Close,
// Drop, Reset or Release; accessing it afterwards is undefined behavior.
func (m *Mapping) Bytes() []byte {
	return m.data
}

// Size returns the length of the owned region in bytes, 0 when empty.
func (m *Mapping) Size() int {
	return len(m.data)
}

// Addr returns the base address of the owned region, 0 when empty. Page
// zero is never mappable on supported platforms, so 0 cannot collide with
// a valid base address.
func (m *Mapping) Addr() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(m.data)))
}

// Release hands the mapped region to the caller and marks the wrapper
// empty. No system call is issued; responsibility for unmapping transfers
// with the returned slice, and any tracker reservation is dropped. Release
// never fails; on an empty wrapper it returns nil.
func (m *Mapping) Release() []byte {
	data := m.data
	m.tracker.unreserveMapped(m.reserved)
	m.reserved = 0
	m.data = nil
	return data
}

// Close unmaps the owned region. On failure the wrapper state is unchanged
// so the caller may retry; on success the wrapper is empty and any tracker
// reservation is dropped.
//
// Closing an empty wrapper follows the wrapper's ClosePolicy.
func (m *Mapping) Close() error {
	if !m.Valid() {
		if m.policy == CloseStrict {
			return ErrAlreadyReleased
		}
		return nil
	}
	return m.unmapOwned()
}

// Drop is Close for paths that are already failing: best-effort unmap,
// failures logged instead of returned. Drop on an empty wrapper is always
// a no-op.
func (m *Mapping) Drop() {
	if !m.Valid() {
		return
	}
	if err := m.unmapOwned(); err != nil {
		m.log().Error("unmap failed during teardown", "size", len(m.data), "error", err)
	}
}

// Reset unmaps the currently owned region, then adopts data as an
// already-mapped region without issuing a new mapping call. Passing nil
// (or an empty slice) leaves the wrapper empty. Resetting an empty wrapper
// follows the ClosePolicy: under CloseStrict it fails without adopting.
//
// Adopted regions carry no tracker reservation; accounting applies to
// regions mapped through MapFile and MapAnon.
func (m *Mapping) Reset(data []byte) error {
	if !m.Valid() {
		if m.policy == CloseStrict {
			return ErrAlreadyReleased
		}
	} else if err := m.unmapOwned(); err != nil {
		return err
	}

	if len(data) == 0 {
		data = nil // empty state is always the nil slice
	}
	m.data = data
	m.reserved = 0
	return nil
}

// Swap exchanges the owned regions of m and o, along with their tracker
// reservations so accounting stays with the region that backs it. Policy
// and logger stay with their wrappers. Swap never fails, issues no system
// call, and is safe for self-swap.
func (m *Mapping) Swap(o *Mapping) {
	// The slice is a GC-managed pointer, so it is exchanged as a value
	// rather than pushed through the integer swap.
	m.data, o.data = o.data, m.data
	branchless.Swap(&m.reserved, &o.reserved)
	m.tracker, o.tracker = o.tracker, m.tracker
}

// Equal reports full stored-state equality: same base address and length,
// or both wrappers empty.
func (m *Mapping) Equal(o *Mapping) bool {
	return unsafe.SliceData(m.data) == unsafe.SliceData(o.data) && len(m.data) == len(o.data)
}

// Sync flushes the owned region to its backing resource synchronously.
func (m *Mapping) Sync() error {
	if !m.Valid() {
		return ErrAlreadyReleased
	}
	if err := m.sysiface().Msync(m.data); err != nil {
		return &Error{Op: "msync", Err: err}
	}
	return nil
}

// Advise hints the kernel about the region's access pattern. The hint is
// advisory; alignment-related rejections are swallowed by the OS layer.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if !m.Valid() {
		return ErrAlreadyReleased
	}
	return m.sysiface().Madvise(m.data, pattern.sysAdvice())
}

// Prefault touches one byte per page of the owned region so later accesses
// do not page-fault, after hinting the kernel with AccessWillNeed. When the
// wrapper carries a tracker with a prefault rate, the page touching is
// throttled through it; ctx bounds the wait. The region must be readable.
func (m *Mapping) Prefault(ctx context.Context) error {
	if !m.Valid() {
		return ErrAlreadyReleased
	}

	// Best-effort readahead hint before the walk.
	_ = m.sysiface().Madvise(m.data, AccessWillNeed.sysAdvice())

	page := m.sysiface().Pagesize()
	for off := 0; off < len(m.data); off += page {
		n := branchless.Min(page, len(m.data)-off)
		if err := m.tracker.acquireIO(ctx, n); err != nil {
			return err
		}
		prefaultSink += m.data[off]
	}
	return nil
}

// prefaultSink keeps the page-touching loads from being optimized away.
var prefaultSink byte

// unmapOwned destroys the owned region and clears the wrapper.
func (m *Mapping) unmapOwned() error {
	size := len(m.data)
	if err := m.sysiface().Munmap(m.data); err != nil {
		m.log().LogUnmap(size, err)
		return &Error{Op: "munmap", Err: err}
	}

	m.log().LogUnmap(size, nil)
	m.tracker.unreserveMapped(m.reserved)
	m.reserved = 0
	m.data = nil
	return nil
}

// pageMask returns the low-bit mask for the system page size, derived with
// the branch-free mask helper. Page sizes are powers of two on every
// supported platform.
func pageMask(s sys.Interface) int64 {
	return int64(branchless.RoundUpPowerOfTwoMinusOne(uint64(s.Pagesize())))
}

// roundToPage rounds n up to page granularity; mask is pagesize-1.
func roundToPage(n, mask int64) int64 {
	return (n + mask) &^ mask
}

func (m *Mapping) sysiface() sys.Interface {
	if m.sys == nil {
		return sys.Default
	}
	return m.sys
}

func (m *Mapping) log() *Logger {
	if m.logger == nil {
		return discard
	}
	return m.logger
}
