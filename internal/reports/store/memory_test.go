package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	bookingmodels "hotelchain/internal/booking/models"
	"hotelchain/internal/booking/store/booking"
	identitymodels "hotelchain/internal/identity/models"
	"hotelchain/internal/identity/store/user"
	inventory "hotelchain/internal/inventory/models"
	"hotelchain/internal/inventory/store/branch"
	"hotelchain/internal/inventory/store/room"
	"hotelchain/internal/inventory/store/roomtype"
	id "hotelchain/pkg/domain"
)

type MemorySourceSuite struct {
	suite.Suite
	ctx      context.Context
	now      time.Time
	branches *branch.InMemory
	rooms    *room.InMemory
	types    *roomtype.InMemory
	bookings *booking.InMemory
	users    *user.InMemory
	source   *MemorySource
}

func TestMemorySourceSuite(t *testing.T) {
	suite.Run(t, new(MemorySourceSuite))
}

func (s *MemorySourceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	s.branches = branch.NewInMemory()
	s.rooms = room.NewInMemory()
	s.types = roomtype.NewInMemory()
	s.bookings = booking.NewInMemory()
	s.users = user.NewInMemory()
	s.source = NewMemory(s.branches, s.users, s.rooms, s.types, s.bookings)
}

func (s *MemorySourceSuite) addBranch(name string) *inventory.Branch {
	b, err := inventory.NewBranch(id.BranchID(uuid.New()), name, "Somewhere", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.branches.Create(s.ctx, b))
	return b
}

func (s *MemorySourceSuite) addRoom(branchID id.BranchID, typeID id.RoomTypeID, number string) *inventory.Room {
	r, err := inventory.NewRoom(id.RoomID(uuid.New()), branchID, typeID, number, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.rooms.Create(s.ctx, r))
	return r
}

func (s *MemorySourceSuite) addBooking(branchID id.BranchID, roomID id.RoomID, nights int, status bookingmodels.BookingStatus) {
	in := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.bookings.Create(s.ctx, &bookingmodels.Booking{
		ID:        id.BookingID(uuid.New()),
		UserID:    id.UserID(uuid.New()),
		BranchID:  branchID,
		RoomID:    roomID,
		Stay:      bookingmodels.Stay{CheckIn: in, CheckOut: in.AddDate(0, 0, nights)},
		Status:    status,
		CreatedAt: s.now,
	}))
}

func (s *MemorySourceSuite) TestFigures() {
	harbor := s.addBranch("Harbor")
	hill := s.addBranch("Hill")
	s.addBranch("Airport")

	rt, err := inventory.NewRoomType(id.RoomTypeID(uuid.New()), "Suite", "", 20000, 4, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.types.Create(s.ctx, rt))

	r1 := s.addRoom(harbor.ID, rt.ID, "101")
	r2 := s.addRoom(harbor.ID, rt.ID, "102")
	r3 := s.addRoom(hill.ID, rt.ID, "201")
	s.addRoom(hill.ID, rt.ID, "202")

	s.addBooking(harbor.ID, r1.ID, 2, bookingmodels.BookingCheckedIn)
	s.addBooking(harbor.ID, r2.ID, 1, bookingmodels.BookingCheckedOut)
	s.addBooking(hill.ID, r3.ID, 3, bookingmodels.BookingPending)
	s.addBooking(hill.ID, r3.ID, 5, bookingmodels.BookingCancelled)

	u, err := identitymodels.NewUser(id.UserID(uuid.New()), "Guest", "guest@example.com", "hash", id.RoleCustomer, nil, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.users.Create(s.ctx, u))

	s.Run("counts", func() {
		n, err := s.source.CountBranches(s.ctx)
		s.Require().NoError(err)
		s.Equal(3, n)
		n, err = s.source.CountBookings(s.ctx)
		s.Require().NoError(err)
		s.Equal(4, n)
		n, err = s.source.CountUsers(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, n)
	})

	s.Run("revenue covers checked-in and checked-out nights", func() {
		rev, err := s.source.Revenue(s.ctx)
		s.Require().NoError(err)
		s.Equal(id.Money(60000), rev)
	})

	s.Run("occupancy", func() {
		in, rooms, err := s.source.Occupancy(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, in)
		s.Equal(4, rooms)
	})

	s.Run("every branch is listed", func() {
		per, err := s.source.BookingsPerBranch(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(per, 3)
		s.Equal("Airport", per[0].BranchName)
		s.Equal(0, per[0].Bookings)
		s.Equal(2, per[1].Bookings)
		s.Equal(2, per[2].Bookings)
	})
}
