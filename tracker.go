package scoped

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/hupe1980/scoped/branchless"
)

// ErrMappedBytesExceeded is returned when a mapping would exceed the
// tracker's byte budget.
var ErrMappedBytesExceeded = errors.New("scoped: mapped bytes limit exceeded")

// TrackerConfig holds resource accounting limits.
type TrackerConfig struct {
	// MappedBytesLimit is the hard budget for bytes mapped through this
	// tracker, accounted at page granularity. If 0, usage is tracked but
	// not limited.
	MappedBytesLimit int64

	// PrefaultBytesPerSec throttles Mapping.Prefault page touching.
	// If 0, prefaulting is not rate limited.
	PrefaultBytesPerSec int64
}

// Tracker accounts for the descriptors and mapped memory owned through the
// wrappers. Budget enforcement is fail-fast: reserving past the limit
// returns ErrMappedBytesExceeded immediately, and the caller decides on
// retry or backoff.
//
// A Tracker is shared across owners, so unlike the wrappers all methods are
// safe for concurrent use. All methods are no-ops on a nil *Tracker, which
// keeps accounting optional without nil checks at call sites.
type Tracker struct {
	cfg TrackerConfig

	memSem *semaphore.Weighted // nil if unlimited
	mapped atomic.Int64
	fds    atomic.Int64

	ioLimiter *rate.Limiter
}

// NewTracker creates a new resource tracker.
func NewTracker(cfg TrackerConfig) *Tracker {
	t := &Tracker{cfg: cfg}

	if cfg.MappedBytesLimit > 0 {
		t.memSem = semaphore.NewWeighted(cfg.MappedBytesLimit)
	}

	if cfg.PrefaultBytesPerSec > 0 {
		// The burst must cover a single page touch on any supported page
		// size (up to 64 KiB).
		burst := branchless.Max(cfg.PrefaultBytesPerSec, 1<<16)
		t.ioLimiter = rate.NewLimiter(rate.Limit(cfg.PrefaultBytesPerSec), int(burst))
	}

	return t
}

// MappedBytes returns the page-rounded bytes currently mapped through this
// tracker.
func (t *Tracker) MappedBytes() int64 {
	if t == nil {
		return 0
	}
	return t.mapped.Load()
}

// MappedLimit returns the configured byte budget (0 if unlimited).
func (t *Tracker) MappedLimit() int64 {
	if t == nil {
		return 0
	}
	return t.cfg.MappedBytesLimit
}

// OpenDescriptors returns the number of descriptors currently owned through
// this tracker.
func (t *Tracker) OpenDescriptors() int64 {
	if t == nil {
		return 0
	}
	return t.fds.Load()
}

// reserveMapped reserves budget for a mapping of n bytes.
func (t *Tracker) reserveMapped(n int64) error {
	if t == nil || n <= 0 {
		return nil
	}
	if t.memSem != nil && !t.memSem.TryAcquire(n) {
		return ErrMappedBytesExceeded
	}
	t.mapped.Add(n)
	return nil
}

// unreserveMapped returns reserved budget.
func (t *Tracker) unreserveMapped(n int64) {
	if t == nil || n <= 0 {
		return
	}
	if t.memSem != nil {
		t.memSem.Release(n)
	}
	t.mapped.Add(-n)
}

func (t *Tracker) addDescriptor() {
	if t == nil {
		return
	}
	t.fds.Add(1)
}

func (t *Tracker) releaseDescriptor() {
	if t == nil {
		return
	}
	t.fds.Add(-1)
}

// acquireIO waits until the prefault rate allows n more bytes.
func (t *Tracker) acquireIO(ctx context.Context, n int) error {
	if t == nil || t.ioLimiter == nil || n <= 0 {
		return nil
	}
	return t.ioLimiter.WaitN(ctx, n)
}
