package sys

import "sync"

// Stub is an in-memory Interface for tests. Every call is recorded, and
// failures can be injected per operation, so tests can pin down exactly
// which system calls an ownership transfer did or did not issue.
type Stub struct {
	// FstatSize is the backing size reported by Fstat.
	FstatSize int64

	// CloseErrs is consumed one entry per Close call before CloseErr
	// applies. A sequence like {EINTR, EINTR, nil} simulates an interrupted
	// close that eventually succeeds.
	CloseErrs []error

	// Per-operation injected errors. nil means the operation succeeds.
	CloseErr   error
	FstatErr   error
	MmapErr    error
	MunmapErr  error
	MsyncErr   error
	MadviseErr error

	// Page is the reported page size. Defaults to 4096.
	Page int

	mu       sync.Mutex
	calls    map[string]int
	closed   []int
	unmapped []int
}

func (s *Stub) record(op string) {
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[op]++
}

// Calls returns how many times the named operation was issued
// ("close", "fstat", "mmap", "mmap_anon", "munmap", "msync", "madvise").
func (s *Stub) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Closed returns the descriptors passed to Close, in call order, including
// retried calls.
func (s *Stub) Closed() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.closed...)
}

// Unmapped returns the lengths passed to Munmap, in call order.
func (s *Stub) Unmapped() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.unmapped...)
}

func (s *Stub) Close(fd int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("close")
	s.closed = append(s.closed, fd)
	if len(s.CloseErrs) > 0 {
		err := s.CloseErrs[0]
		s.CloseErrs = s.CloseErrs[1:]
		return err
	}
	return s.CloseErr
}

func (s *Stub) Fstat(fd int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("fstat")
	if s.FstatErr != nil {
		return 0, s.FstatErr
	}
	return s.FstatSize, nil
}

func (s *Stub) Mmap(fd int, offset int64, length, prot, flags int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("mmap")
	if s.MmapErr != nil {
		return nil, s.MmapErr
	}
	return make([]byte, length), nil
}

func (s *Stub) MmapAnon(length, prot, flags int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("mmap_anon")
	if s.MmapErr != nil {
		return nil, s.MmapErr
	}
	return make([]byte, length), nil
}

func (s *Stub) Munmap(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("munmap")
	if s.MunmapErr != nil {
		return s.MunmapErr
	}
	s.unmapped = append(s.unmapped, len(data))
	return nil
}

func (s *Stub) Msync(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("msync")
	return s.MsyncErr
}

func (s *Stub) Madvise(data []byte, advice int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("madvise")
	return s.MadviseErr
}

func (s *Stub) Pagesize() int {
	if s.Page == 0 {
		return 4096
	}
	return s.Page
}
