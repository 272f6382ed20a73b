// Package sys abstracts the OS calls behind the ownership wrappers so they
// can be exercised against an in-memory Stub in tests.
//
// Real issues the actual system calls through golang.org/x/sys/unix and is
// the process-wide Default. Implementations return the raw OS error
// (a syscall.Errno for Real); attaching operation labels is the caller's
// job.
//
// The package is Unix-only, matching the resources it models.
package sys
