package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"hotelchain/internal/identity/models"
	id "hotelchain/pkg/domain"
	"hotelchain/pkg/platform/sentinel"
)

type SessionStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func TestSessionStoreSuite(t *testing.T) {
	suite.Run(t, new(SessionStoreSuite))
}

func (s *SessionStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
}

func (s *SessionStoreSuite) newSession(userID id.UserID) *models.Session {
	return &models.Session{
		ID:        id.SessionID(uuid.New()),
		UserID:    userID,
		Role:      id.RoleCustomer,
		CreatedAt: s.now,
		ExpiresAt: s.now.Add(2 * time.Hour),
	}
}

func (s *SessionStoreSuite) TestLifecycle() {
	userID := id.UserID(uuid.New())
	sess := s.newSession(userID)
	s.Require().NoError(s.store.Save(s.ctx, sess))

	s.Run("found while valid", func() {
		found, err := s.store.Find(s.ctx, sess.ID, s.now.Add(time.Hour))
		s.Require().NoError(err)
		s.Equal(userID, found.UserID)
	})

	s.Run("expired at the boundary", func() {
		_, err := s.store.Find(s.ctx, sess.ID, sess.ExpiresAt)
		s.ErrorIs(err, sentinel.ErrExpired)
	})

	s.Run("gone after delete", func() {
		s.Require().NoError(s.store.Delete(s.ctx, sess.ID))
		_, err := s.store.Find(s.ctx, sess.ID, s.now)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *SessionStoreSuite) TestDeleteByUser() {
	userID := id.UserID(uuid.New())
	a, b := s.newSession(userID), s.newSession(userID)
	other := s.newSession(id.UserID(uuid.New()))
	for _, sess := range []*models.Session{a, b, other} {
		s.Require().NoError(s.store.Save(s.ctx, sess))
	}

	s.Require().NoError(s.store.DeleteByUser(s.ctx, userID))

	_, err := s.store.Find(s.ctx, a.ID, s.now)
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.Find(s.ctx, b.ID, s.now)
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.Find(s.ctx, other.ID, s.now)
	s.NoError(err)
}
