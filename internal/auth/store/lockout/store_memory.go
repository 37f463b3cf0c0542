// Package lockout counts failed login attempts per identifier within a window.
// Stores are pure I/O; the lock decision belongs to the auth service.
package lockout

import (
	"context"
	"sync"
	"time"

	"qrgen/pkg/requestcontext"
)

type record struct {
	failures  int
	expiresAt time.Time
}

// InMemoryStore keeps failure counters in process memory.
type InMemoryStore struct {
	mu      sync.Mutex
	records map[string]*record
}

func New() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]*record)}
}

// Failures returns the failures recorded in the current window.
func (s *InMemoryStore) Failures(ctx context.Context, identifier string) (int, error) {
	now := requestcontext.Now(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[identifier]
	if !ok {
		return 0, nil
	}
	if !now.Before(rec.expiresAt) {
		delete(s.records, identifier)
		return 0, nil
	}
	return rec.failures, nil
}

// RecordFailure increments the counter. The window starts at the first failure
// and is not extended by later ones.
func (s *InMemoryStore) RecordFailure(ctx context.Context, identifier string, window time.Duration) (int, error) {
	now := requestcontext.Now(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[identifier]
	if !ok || !now.Before(rec.expiresAt) {
		rec = &record{expiresAt: now.Add(window)}
		s.records[identifier] = rec
	}
	rec.failures++
	return rec.failures, nil
}

func (s *InMemoryStore) Clear(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, identifier)
	return nil
}
