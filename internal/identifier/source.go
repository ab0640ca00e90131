package identifier

import (
	"math/rand/v2"
	"sync"
)

// lockedSource lets one Generator serve concurrent booking agents.
type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSource returns a goroutine-safe source seeded with seed. The same seed
// yields the same sequence of codes and labels.
func NewSource(seed uint64) Source {
	return &lockedSource{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewRandomSource seeds from the runtime's entropy.
func NewRandomSource() Source {
	return NewSource(rand.Uint64())
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.IntN(n)
}
