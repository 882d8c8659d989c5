package app

import "sync"

// requestSeq hands out monotonically increasing request ids. A completion
// is applied only when its id is still the latest and the owner is open.
type requestSeq struct {
	mu     sync.Mutex
	last   uint64
	closed bool
}

// next issues a new id, superseding every earlier one.
func (s *requestSeq) next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	return s.last
}

// current reports whether id is the latest issued and the owner is open.
func (s *requestSeq) current(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && id == s.last
}

// close invalidates every outstanding id.
func (s *requestSeq) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	s.closed = true
}

func (s *requestSeq) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
