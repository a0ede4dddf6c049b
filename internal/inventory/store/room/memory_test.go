package room

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"hotelchain/internal/inventory/models"
	id "hotelchain/pkg/domain"
	"hotelchain/pkg/platform/sentinel"
)

type RoomStoreSuite struct {
	suite.Suite
	store  *InMemory
	branch id.BranchID
	single id.RoomTypeID
}

func TestRoomStoreSuite(t *testing.T) {
	suite.Run(t, new(RoomStoreSuite))
}

func (s *RoomStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.branch = id.BranchID(uuid.New())
	s.single = id.RoomTypeID(uuid.New())
}

func (s *RoomStoreSuite) add(number string, status models.RoomStatus) *models.Room {
	r, err := models.NewRoom(id.RoomID(uuid.New()), s.branch, s.single, number, time.Now())
	s.Require().NoError(err)
	r.Status = status
	s.Require().NoError(s.store.Create(context.Background(), r))
	return r
}

func (s *RoomStoreSuite) TestRoomNumberUniquePerBranch() {
	ctx := context.Background()
	s.add("101", models.RoomAvailable)

	dup, err := models.NewRoom(id.RoomID(uuid.New()), s.branch, s.single, "101", time.Now())
	s.Require().NoError(err)
	s.ErrorIs(s.store.Create(ctx, dup), sentinel.ErrAlreadyUsed)

	other, err := models.NewRoom(id.RoomID(uuid.New()), id.BranchID(uuid.New()), s.single, "101", time.Now())
	s.Require().NoError(err)
	s.NoError(s.store.Create(ctx, other), "same number in another branch")
}

func (s *RoomStoreSuite) TestListFilters() {
	ctx := context.Background()
	s.add("102", models.RoomAvailable)
	s.add("101", models.RoomMaintenance)
	s.add("103", models.RoomOccupied)

	all, err := s.store.List(ctx, Filter{BranchID: s.branch})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("101", all[0].RoomNumber)

	usable, err := s.store.List(ctx, Filter{BranchID: s.branch, ExcludeStatus: models.RoomMaintenance})
	s.Require().NoError(err)
	s.Len(usable, 2)

	n, err := s.store.Count(ctx, Filter{Status: models.RoomAvailable})
	s.Require().NoError(err)
	s.Equal(1, n)
}
