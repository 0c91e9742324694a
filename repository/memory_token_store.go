package repository

import (
	"sync"

	"loan-predictor/domain"
)

// MemoryTokenStore holds the session in memory only, for tests and
// --no-persist runs.
type MemoryTokenStore struct {
	mu      sync.Mutex
	session domain.Session
	present bool
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Load() (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, s.present
}

func (s *MemoryTokenStore) Save(session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	s.present = true
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = domain.Session{}
	s.present = false
	return nil
}
