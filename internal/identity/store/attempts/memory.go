// Package attempts counts failed logins per email within a sliding lockout window.
package attempts

import (
	"context"
	"sync"
	"time"
)

type counter struct {
	count     int
	expiresAt time.Time
}

// InMemory counts failures in process memory.
type InMemory struct {
	mu       sync.Mutex
	counters map[string]counter
}

func NewInMemory() *InMemory {
	return &InMemory{counters: make(map[string]counter)}
}

// RecordFailure increments the counter for key and restarts its window, so a
// lock lasts a full window after the failure that triggered it.
func (s *InMemory) RecordFailure(_ context.Context, key string, now time.Time, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counters[key]
	if !ok || !now.Before(c.expiresAt) {
		c = counter{}
	}
	c.count++
	c.expiresAt = now.Add(window)
	s.counters[key] = c
	return c.count, nil
}

func (s *InMemory) Failures(_ context.Context, key string, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counters[key]
	if !ok || !now.Before(c.expiresAt) {
		return 0, nil
	}
	return c.count, nil
}

func (s *InMemory) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counters, key)
	return nil
}
