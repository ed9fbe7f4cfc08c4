package rng

import (
	"io"
	"sync"
	"sync/atomic"
)

// Shared hands one entropy source to many goroutines. Reads are serialized,
// the bytes served are counted, and a failed read marks the attached Health
// unhealthy so later requests are refused until the next good check.
type Shared struct {
	mu     sync.Mutex
	r      io.Reader
	health *Health
	served atomic.Uint64
}

// NewShared wraps r. A *Shared is returned unchanged; h may be nil.
func NewShared(r io.Reader, h *Health) *Shared {
	if s, ok := r.(*Shared); ok {
		return s
	}
	return &Shared{r: r, health: h}
}

func (s *Shared) Read(p []byte) (int, error) {
	s.mu.Lock()
	n, err := s.r.Read(p)
	s.mu.Unlock()

	s.served.Add(uint64(n))
	if err != nil && s.health != nil {
		s.health.Set(false, "entropy read failed: "+err.Error())
	}
	return n, err
}

// Served is the number of bytes handed out so far.
func (s *Shared) Served() uint64 { return s.served.Load() }
