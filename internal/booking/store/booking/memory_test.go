package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"hotelchain/internal/booking/models"
	id "hotelchain/pkg/domain"
)

type BookingStoreSuite struct {
	suite.Suite
	store  *InMemory
	branch id.BranchID
	room   id.RoomID
}

func TestBookingStoreSuite(t *testing.T) {
	suite.Run(t, new(BookingStoreSuite))
}

func (s *BookingStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.branch = id.BranchID(uuid.New())
	s.room = id.RoomID(uuid.New())
}

func day(d int) time.Time {
	return time.Date(2026, 7, d, 0, 0, 0, 0, time.UTC)
}

func (s *BookingStoreSuite) add(in, out int, status models.BookingStatus, reservation *id.ReservationID) *models.Booking {
	b := &models.Booking{
		ID:            id.BookingID(uuid.New()),
		ReservationID: reservation,
		UserID:        id.UserID(uuid.New()),
		BranchID:      s.branch,
		RoomID:        s.room,
		Stay:          models.Stay{CheckIn: day(in), CheckOut: day(out)},
		Status:        status,
		CreatedAt:     time.Now(),
	}
	s.Require().NoError(s.store.Create(context.Background(), b))
	return b
}

func (s *BookingStoreSuite) TestBusyRooms() {
	ctx := context.Background()
	rid := id.ReservationID(uuid.New())
	s.add(10, 12, models.BookingPending, &rid)

	busy, err := s.store.BusyRooms(ctx, s.branch, day(11), day(13), id.ReservationID{})
	s.Require().NoError(err)
	s.True(busy[s.room])

	busy, err = s.store.BusyRooms(ctx, s.branch, day(12), day(14), id.ReservationID{})
	s.Require().NoError(err)
	s.False(busy[s.room], "arrival on the departure day is free")

	busy, err = s.store.BusyRooms(ctx, s.branch, day(11), day(13), rid)
	s.Require().NoError(err)
	s.False(busy[s.room], "own reservation is excluded")
}

func (s *BookingStoreSuite) TestInactiveBookingsDoNotBlock() {
	s.add(10, 12, models.BookingCancelled, nil)
	s.add(10, 12, models.BookingCheckedOut, nil)
	busy, err := s.store.BusyRooms(context.Background(), s.branch, day(10), day(12), id.ReservationID{})
	s.Require().NoError(err)
	s.Empty(busy)

	n, err := s.store.CountByRoom(context.Background(), s.room)
	s.Require().NoError(err)
	s.Equal(2, n, "history still references the room")
}

func (s *BookingStoreSuite) TestRoomConflictsExcludesSelf() {
	ctx := context.Background()
	own := s.add(10, 12, models.BookingCheckedIn, nil)
	s.add(14, 16, models.BookingPending, nil)

	n, err := s.store.RoomConflicts(ctx, s.room, models.Stay{CheckIn: day(10), CheckOut: day(14)}, own.ID)
	s.Require().NoError(err)
	s.Zero(n)

	n, err = s.store.RoomConflicts(ctx, s.room, models.Stay{CheckIn: day(10), CheckOut: day(15)}, own.ID)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *BookingStoreSuite) TestListFilter() {
	ctx := context.Background()
	s.add(10, 12, models.BookingPending, nil)
	s.add(11, 12, models.BookingPending, nil)
	s.add(10, 11, models.BookingCheckedIn, nil)

	arrivals, err := s.store.List(ctx, Filter{BranchID: s.branch, Statuses: []models.BookingStatus{models.BookingPending}, CheckInOn: day(10)})
	s.Require().NoError(err)
	s.Len(arrivals, 1)

	stays, err := s.store.List(ctx, Filter{Statuses: []models.BookingStatus{models.BookingCheckedIn}, CheckOutFrom: day(11)})
	s.Require().NoError(err)
	s.Len(stays, 1)
}
