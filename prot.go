package scoped

import "golang.org/x/sys/unix"

// Prot describes the memory protection of a mapping.
type Prot int

const (
	// ProtRead allows reading the mapped region.
	ProtRead Prot = 1 << iota
	// ProtWrite allows writing the mapped region.
	ProtWrite
	// ProtExec allows executing the mapped region.
	ProtExec
)

func (p Prot) sysProt() int {
	v := unix.PROT_NONE
	if p&ProtRead != 0 {
		v |= unix.PROT_READ
	}
	if p&ProtWrite != 0 {
		v |= unix.PROT_WRITE
	}
	if p&ProtExec != 0 {
		v |= unix.PROT_EXEC
	}
	return v
}

// MapFlag selects the mapping's visibility.
type MapFlag int

const (
	// MapPrivate creates a private copy-on-write mapping.
	MapPrivate MapFlag = iota
	// MapShared shares updates with other mappings of the same resource.
	MapShared
)

func (f MapFlag) sysFlags() int {
	if f == MapShared {
		return unix.MAP_SHARED
	}
	return unix.MAP_PRIVATE
}

// AccessPattern provides hints to the kernel about how a mapping will be
// accessed.
type AccessPattern int

const (
	// AccessDefault is the default access pattern (no specific advice).
	AccessDefault AccessPattern = iota
	// AccessSequential expects data to be accessed sequentially.
	AccessSequential
	// AccessRandom expects data to be accessed randomly.
	AccessRandom
	// AccessWillNeed expects data to be accessed in the near future.
	AccessWillNeed
	// AccessDontNeed expects data to not be accessed in the near future.
	AccessDontNeed
)

func (a AccessPattern) sysAdvice() int {
	switch a {
	case AccessSequential:
		return unix.MADV_SEQUENTIAL
	case AccessRandom:
		return unix.MADV_RANDOM
	case AccessWillNeed:
		return unix.MADV_WILLNEED
	case AccessDontNeed:
		return unix.MADV_DONTNEED
	default:
		return unix.MADV_NORMAL
	}
}
