package scoped

import "github.com/hupe1980/scoped/internal/sys"

// ClosePolicy governs what happens when Close, Reset or Drop is called on a
// wrapper that owns no resource.
type ClosePolicy int

const (
	// CloseIdempotent treats releasing an empty wrapper as a no-op.
	CloseIdempotent ClosePolicy = iota
	// CloseStrict reports ErrAlreadyReleased instead.
	CloseStrict
)

type options struct {
	policy  ClosePolicy
	prot    Prot
	flags   MapFlag
	offset  int64
	tracker *Tracker
	logger  *Logger
	sys     sys.Interface
}

// Option configures wrapper construction.
//
// Options are shared between NewFD, MapFile and MapAnon to keep the API
// surface small; each constructor documents which options it honors.
type Option func(*options)

func newOptions(prot Prot, flags MapFlag, opts []Option) options {
	o := options{
		prot:   prot,
		flags:  flags,
		logger: discard,
		sys:    sys.Default,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithClosePolicy sets the double-release policy for the constructed
// wrapper. The default is CloseIdempotent.
func WithClosePolicy(p ClosePolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithProt sets the protection of the constructed mapping. Defaults:
// ProtRead for MapFile, ProtRead|ProtWrite for MapAnon.
func WithProt(p Prot) Option {
	return func(o *options) {
		o.prot = p
	}
}

// WithFlags sets the mapping visibility. The default is MapPrivate.
func WithFlags(f MapFlag) Option {
	return func(o *options) {
		o.flags = f
	}
}

// WithOffset sets the page-aligned offset into the backing resource for
// MapFile. Must be zero for MapAnon. The default is 0.
func WithOffset(offset int64) Option {
	return func(o *options) {
		o.offset = offset
	}
}

// WithTracker attaches resource accounting to the constructed wrapper.
//
// If nil is passed, accounting is disabled.
func WithTracker(t *Tracker) Option {
	return func(o *options) {
		o.tracker = t
	}
}

// WithLogger attaches a Logger for lifecycle events. The default discards
// all output.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = discard
		}
		o.logger = l
	}
}

// withSys swaps the OS capability layer. Test-only.
func withSys(s sys.Interface) Option {
	return func(o *options) {
		o.sys = s
	}
}
