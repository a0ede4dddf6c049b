package user

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

type UserStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestUserStoreSuite(t *testing.T) {
	suite.Run(t, new(UserStoreSuite))
}

func (s *UserStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *UserStoreSuite) newUser(email string) *models.User {
	u, err := models.NewUser(id.UserID(uuid.New()), "Guest", email, "hash", id.RoleCustomer, nil, time.Now())
	s.Require().NoError(err)
	return u
}

func (s *UserStoreSuite) TestCreateAndFind() {
	u := s.newUser("guest@example.com")
	s.Require().NoError(s.store.Create(s.ctx, u))

	s.Run("finds by id", func() {
		found, err := s.store.FindByID(s.ctx, u.ID)
		s.Require().NoError(err)
		s.Equal(u.Email, found.Email)
	})

	s.Run("finds by email case-insensitively", func() {
		found, err := s.store.FindByEmail(s.ctx, "GUEST@example.com")
		s.Require().NoError(err)
		s.Equal(u.ID, found.ID)
	})

	s.Run("rejects duplicate email", func() {
		err := s.store.Create(s.ctx, s.newUser("guest@example.com"))
		s.ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("unknown id is not found", func() {
		_, err := s.store.FindByID(s.ctx, id.UserID(uuid.New()))
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *UserStoreSuite) TestUpdate() {
	a := s.newUser("a@example.com")
	b := s.newUser("b@example.com")
	s.Require().NoError(s.store.Create(s.ctx, a))
	s.Require().NoError(s.store.Create(s.ctx, b))

	s.Run("email taken by another user", func() {
		changed := *a
		changed.Email = "b@example.com"
		s.ErrorIs(s.store.Update(s.ctx, &changed), sentinel.ErrAlreadyUsed)
	})

	s.Run("re-saving own email is allowed and frees the old one", func() {
		changed := *a
		changed.Email = "a2@example.com"
		s.Require().NoError(s.store.Update(s.ctx, &changed))

		_, err := s.store.FindByEmail(s.ctx, "a@example.com")
		s.ErrorIs(err, sentinel.ErrNotFound)
		s.Require().NoError(s.store.Create(s.ctx, s.newUser("a@example.com")))
	})
}

func (s *UserStoreSuite) TestDeleteAndCount() {
	u := s.newUser("gone@example.com")
	s.Require().NoError(s.store.Create(s.ctx, u))

	n, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)

	s.Require().NoError(s.store.Delete(s.ctx, u.ID))
	s.ErrorIs(s.store.Delete(s.ctx, u.ID), sentinel.ErrNotFound)

	users, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(users)
}
