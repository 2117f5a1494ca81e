package server

import (
	"sync"

	"github.com/elcfinder/elcfinder/schema"
)

// snapshot holds the active school list. The slice is never modified after
// Swap; reloads replace it whole.
type snapshot struct {
	mu      sync.RWMutex
	schools []schema.School
}

// Schools returns the active school list. Callers must not modify it.
func (s *snapshot) Schools() []schema.School {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schools
}

// Swap replaces the active school list with a private copy of schools.
func (s *snapshot) Swap(schools []schema.School) {
	next := make([]schema.School, len(schools))
	copy(next, schools)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.schools = next
}
