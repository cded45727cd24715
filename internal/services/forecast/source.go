package forecast

import (
	"math/rand/v2"
	"sync"
)

// Source is a uniform random source safe for concurrent use.
type Source interface {
	// IntN returns an int in [0, n). n must be positive.
	IntN(n int) int
	// Float64 returns a float64 in [0.0, 1.0).
	Float64() float64
}

type globalSource struct{}

// NewSource returns the process-wide, non-deterministic source.
func NewSource() Source { return globalSource{} }

func (globalSource) IntN(n int) int    { return rand.IntN(n) }
func (globalSource) Float64() float64 { return rand.Float64() }

// lockedSource serializes access to a seeded generator; *rand.Rand is not goroutine safe.
type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededSource returns a deterministic source. Equal seeds yield equal sequences
// as long as calls are made in the same order.
func NewSeededSource(seed uint64) Source {
	return &lockedSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}
