package session

import (
	"context"
	"sync"
	"time"

	"hotelchain/internal/identity/models"
	id "hotelchain/pkg/domain"
	"hotelchain/pkg/platform/sentinel"
)

// InMemory keeps sessions in process memory.
type InMemory struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]*models.Session
}

func NewInMemory() *InMemory {
	return &InMemory{sessions: make(map[id.SessionID]*models.Session)}
}

func (s *InMemory) Save(_ context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	s.sessions[sess.ID] = &cp
	return nil
}

func (s *InMemory) Find(_ context.Context, sessionID id.SessionID, now time.Time) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if sess.IsExpired(now) {
		return nil, sentinel.ErrExpired
	}
	cp := *sess
	return &cp, nil
}

func (s *InMemory) Delete(_ context.Context, sessionID id.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// DeleteByUser removes every session of userID.
func (s *InMemory) DeleteByUser(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sid, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, sid)
		}
	}
	return nil
}
