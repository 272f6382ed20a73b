package scoped

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/hupe1980/scoped/internal/sys"
)

func TestFD_WrapRaw(t *testing.T) {
	st := &sys.Stub{}

	f := NewFD(7, withSys(st))
	assert.True(t, f.Valid())
	assert.Equal(t, 7, f.Raw())

	require.NoError(t, f.Close())
	assert.False(t, f.Valid())
	assert.Equal(t, InvalidFD, f.Raw())
	assert.Equal(t, []int{7}, st.Closed())
}

func TestFD_WrapNegative(t *testing.T) {
	f := NewFD(-5)
	assert.False(t, f.Valid())
	assert.Equal(t, InvalidFD, f.Raw())
}

func TestFD_ZeroValue(t *testing.T) {
	var f FD
	assert.False(t, f.Valid())
	assert.Equal(t, InvalidFD, f.Raw())
	assert.Equal(t, InvalidFD, f.Release())
	assert.NoError(t, f.Close())
	f.Drop()
}

func TestFD_ReleaseSuppressesClose(t *testing.T) {
	st := &sys.Stub{}
	f := NewFD(7, withSys(st))

	raw := f.Release()
	assert.Equal(t, 7, raw)
	assert.False(t, f.Valid())

	// Ownership transferred: no close call on any later teardown path.
	require.NoError(t, f.Close())
	f.Drop()
	assert.Equal(t, 0, st.Calls("close"))
}

func TestFD_Move(t *testing.T) {
	st := &sys.Stub{}
	f := NewFD(9, withSys(st))

	g := f.Move()
	assert.False(t, f.Valid())
	assert.True(t, g.Valid())
	assert.Equal(t, 9, g.Raw())
	assert.Equal(t, 0, st.Calls("close"))

	require.NoError(t, g.Close())
	assert.Equal(t, []int{9}, st.Closed())
}

func TestFD_Adopt(t *testing.T) {
	st := &sys.Stub{}
	f := NewFD(3, withSys(st))
	g := NewFD(4, withSys(st))

	require.NoError(t, f.Adopt(g))
	assert.Equal(t, 4, f.Raw())
	assert.False(t, g.Valid())
	assert.Equal(t, []int{3}, st.Closed())
}

func TestFD_AdoptIntoEmpty(t *testing.T) {
	st := &sys.Stub{}
	f := NewFD(-1, withSys(st), WithClosePolicy(CloseStrict))
	g := NewFD(4, withSys(st))

	// Move assignment only closes a currently owned handle; an empty
	// destination is fine even under CloseStrict.
	require.NoError(t, f.Adopt(g))
	assert.Equal(t, 4, f.Raw())
	assert.Equal(t, 0, st.Calls("close"))
}

func TestFD_AdoptSelf(t *testing.T) {
	st := &sys.Stub{}
	f := NewFD(3, withSys(st))

	require.NoError(t, f.Adopt(f))
	assert.Equal(t, 3, f.Raw())
	assert.Equal(t, 0, st.Calls("close"))
}

func TestFD_Reset(t *testing.T) {
	st := &sys.Stub{}
	f := NewFD(3, withSys(st))

	require.NoError(t, f.Reset(8))
	assert.Equal(t, 8, f.Raw())
	assert.Equal(t, []int{3}, st.Closed())

	require.NoError(t, f.Reset(InvalidFD))
	assert.False(t, f.Valid())
	assert.Equal(t, []int{3, 8}, st.Closed())
}

func TestFD_CloseRetriesEINTR(t *testing.T) {
	st := &sys.Stub{
		CloseErrs: []error{unix.EINTR, unix.EINTR},
	}
	f := NewFD(5, withSys(st))

	// Two interruptions, then success: one logical close, three attempts.
	require.NoError(t, f.Close())
	assert.False(t, f.Valid())
	assert.Equal(t, 3, st.Calls("close"))
}

func TestFD_CloseHardError(t *testing.T) {
	st := &sys.Stub{CloseErr: unix.EBADF}
	f := NewFD(5, withSys(st))

	err := f.Close()
	require.Error(t, err)

	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "close", serr.Op)
	assert.Equal(t, unix.EBADF, serr.Errno())

	// State unchanged so the caller may retry.
	assert.True(t, f.Valid())

	st.CloseErr = nil
	require.NoError(t, f.Close())
	assert.False(t, f.Valid())
}

func TestFD_DoubleClose_Idempotent(t *testing.T) {
	st := &sys.Stub{}
	f := NewFD(5, withSys(st))

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	require.NoError(t, f.Reset(InvalidFD))
	f.Drop()
	assert.Equal(t, 1, st.Calls("close"))
}

func TestFD_DoubleClose_Strict(t *testing.T) {
	st := &sys.Stub{}
	f := NewFD(5, withSys(st), WithClosePolicy(CloseStrict))

	require.NoError(t, f.Close())
	assert.ErrorIs(t, f.Close(), ErrAlreadyReleased)
	assert.ErrorIs(t, f.Reset(6), ErrAlreadyReleased)
	assert.False(t, f.Valid())

	// Drop is for already-failing teardown; it stays silent either way.
	f.Drop()
	assert.Equal(t, 1, st.Calls("close"))
}

func TestFD_Swap(t *testing.T) {
	st := &sys.Stub{}
	f := NewFD(3, withSys(st))
	g := NewFD(4, withSys(st))

	f.Swap(g)
	assert.Equal(t, 4, f.Raw())
	assert.Equal(t, 3, g.Raw())

	// Swap is its own inverse.
	f.Swap(g)
	assert.Equal(t, 3, f.Raw())
	assert.Equal(t, 4, g.Raw())
	assert.Equal(t, 0, st.Calls("close"))
}

func TestFD_SwapWithEmpty(t *testing.T) {
	st := &sys.Stub{}
	f := NewFD(3, withSys(st))
	g := NewFD(-1, withSys(st))

	f.Swap(g)
	assert.False(t, f.Valid())
	assert.Equal(t, 3, g.Raw())
}

func TestFD_SwapSelf(t *testing.T) {
	st := &sys.Stub{}
	f := NewFD(3, withSys(st))

	f.Swap(f)
	assert.True(t, f.Valid())
	assert.Equal(t, 3, f.Raw())
}

func TestFD_Equal(t *testing.T) {
	st := &sys.Stub{}
	f := NewFD(3, withSys(st))
	g := NewFD(3, withSys(st))
	h := NewFD(4, withSys(st))

	assert.True(t, f.Equal(g))
	assert.False(t, f.Equal(h))

	// Two empty wrappers are equal.
	var a, b FD
	assert.True(t, a.Equal(&b))
	assert.False(t, a.Equal(f))
}

func TestFD_TrackerGauge(t *testing.T) {
	st := &sys.Stub{}
	tr := NewTracker(TrackerConfig{})

	f := NewFD(3, withSys(st), WithTracker(tr))
	g := NewFD(4, withSys(st), WithTracker(tr))
	assert.Equal(t, int64(2), tr.OpenDescriptors())

	require.NoError(t, f.Close())
	assert.Equal(t, int64(1), tr.OpenDescriptors())

	// Release transfers responsibility out of the tracked set too.
	g.Release()
	assert.Equal(t, int64(0), tr.OpenDescriptors())
}
