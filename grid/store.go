package grid

import "sync"

// Store holds the current map. Grids passed to Replace must not be mutated
// afterwards; readers get the snapshot without copying.
type Store struct {
	mu      sync.RWMutex
	current *Grid
	version uint64
}

func NewStore(g *Grid) *Store {
	return &Store{current: g, version: 1}
}

// Load returns the current grid and its version.
func (s *Store) Load() (*Grid, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.version
}

// Replace swaps in g and returns the new version.
func (s *Store) Replace(g *Grid) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = g
	s.version++
	return s.version
}

// Edit applies fn to a copy of the current grid and publishes the result.
func (s *Store) Edit(fn func(g *Grid)) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.current.Clone()
	fn(next)
	s.current = next
	s.version++
	return s.version
}
