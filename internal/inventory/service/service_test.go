package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"hotelchain/internal/inventory/models"
	"hotelchain/internal/inventory/store/branch"
	"hotelchain/internal/inventory/store/room"
	"hotelchain/internal/inventory/store/roomtype"
	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
)

type fakeBookings struct {
	counts map[id.RoomID]int
	busy   map[id.RoomID]bool
}

func (f *fakeBookings) CountByRoom(_ context.Context, roomID id.RoomID) (int, error) {
	return f.counts[roomID], nil
}

func (f *fakeBookings) BusyRooms(_ context.Context, _ id.BranchID, _, _ time.Time, _ id.ReservationID) (map[id.RoomID]bool, error) {
	return f.busy, nil
}

type fakeStaff struct {
	counts map[id.BranchID]int
}

func (f *fakeStaff) CountStaff(_ context.Context, branchID id.BranchID) (int, error) {
	return f.counts[branchID], nil
}

type InventorySuite struct {
	suite.Suite
	bookings *fakeBookings
	staff    *fakeStaff
	service  *Service
	branch   *models.Branch
	single   *models.RoomType
}

func TestInventorySuite(t *testing.T) {
	suite.Run(t, new(InventorySuite))
}

func (s *InventorySuite) SetupTest() {
	ctx := context.Background()
	s.bookings = &fakeBookings{counts: map[id.RoomID]int{}, busy: map[id.RoomID]bool{}}
	s.staff = &fakeStaff{counts: map[id.BranchID]int{}}
	s.service = New(branch.NewInMemory(), roomtype.NewInMemory(), room.NewInMemory(), s.bookings, WithStaffCounter(s.staff))

	var err error
	s.branch, err = s.service.CreateBranch(ctx, "Harbor", "Lisbon")
	s.Require().NoError(err)
	s.Require().NoError(s.service.SeedRoomTypes(ctx))
	types, err := s.service.ListRoomTypes(ctx)
	s.Require().NoError(err)
	for _, t := range types {
		if t.Name == "Single" {
			s.single = t
		}
	}
	s.Require().NotNil(s.single)
}

func (s *InventorySuite) addRoom(number string) *models.Room {
	r, err := s.service.CreateRoom(context.Background(), RoomCommand{
		BranchID: s.branch.ID, RoomTypeID: s.single.ID, RoomNumber: number,
	})
	s.Require().NoError(err)
	return r
}

func (s *InventorySuite) TestSeedRoomTypesIsIdempotent() {
	s.Require().NoError(s.service.SeedRoomTypes(context.Background()))
	types, err := s.service.ListRoomTypes(context.Background())
	s.Require().NoError(err)
	s.Len(types, 3)
	s.Equal(2, s.single.MaxOccupancy)
}

func (s *InventorySuite) TestCreateRoomType() {
	_, err := s.service.CreateRoomType(context.Background(), RoomTypeCommand{Name: "single", BasePrice: 5000, MaxOccupancy: 1})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict), "names are unique ignoring case")

	_, err = s.service.CreateRoomType(context.Background(), RoomTypeCommand{Name: "Loft", BasePrice: 0, MaxOccupancy: 1})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *InventorySuite) TestCreateRoom() {
	r := s.addRoom("101")
	s.Equal(models.RoomAvailable, r.Status)

	_, err := s.service.CreateRoom(context.Background(), RoomCommand{
		BranchID: s.branch.ID, RoomTypeID: s.single.ID, RoomNumber: "101",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	_, err = s.service.CreateRoom(context.Background(), RoomCommand{
		BranchID: id.BranchID(uuid.New()), RoomTypeID: s.single.ID, RoomNumber: "102",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *InventorySuite) TestDeleteBranchBlockedByRooms() {
	ctx := context.Background()
	r := s.addRoom("101")

	err := s.service.DeleteBranch(ctx, s.branch.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	s.Require().NoError(s.service.DeleteRoom(ctx, r.ID))
	s.Require().NoError(s.service.DeleteBranch(ctx, s.branch.ID))
	exists, err := s.service.BranchExists(ctx, s.branch.ID)
	s.Require().NoError(err)
	s.False(exists)
}

func (s *InventorySuite) TestDeleteBranchBlockedByStaff() {
	ctx := context.Background()
	s.staff.counts[s.branch.ID] = 1

	err := s.service.DeleteBranch(ctx, s.branch.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	exists, err := s.service.BranchExists(ctx, s.branch.ID)
	s.Require().NoError(err)
	s.True(exists)

	s.staff.counts[s.branch.ID] = 0
	s.NoError(s.service.DeleteBranch(ctx, s.branch.ID))
}

func (s *InventorySuite) TestDeleteRoomBlockedByBookings() {
	r := s.addRoom("101")
	s.bookings.counts[r.ID] = 1
	err := s.service.DeleteRoom(context.Background(), r.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *InventorySuite) TestFindFreeRooms() {
	ctx := context.Background()
	r1 := s.addRoom("101")
	r2 := s.addRoom("102")
	r3 := s.addRoom("103")
	s.Require().NoError(s.service.SetRoomStatus(ctx, r3.ID, models.RoomMaintenance))
	s.bookings.busy[r1.ID] = true

	checkIn := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	free, err := s.service.FindFreeRooms(ctx, s.branch.ID, s.single.ID, checkIn, checkIn.AddDate(0, 0, 2), 5, id.ReservationID{})
	s.Require().NoError(err)
	s.Require().Len(free, 1)
	s.Equal(r2.ID, free[0].ID)
}

func (s *InventorySuite) TestAvailableRoomsJoinsNames() {
	ctx := context.Background()
	s.addRoom("101")
	occupied := s.addRoom("102")
	s.Require().NoError(s.service.SetRoomStatus(ctx, occupied.ID, models.RoomOccupied))

	rooms, err := s.service.AvailableRooms(ctx, s.branch.ID)
	s.Require().NoError(err)
	s.Require().Len(rooms, 1)
	s.Equal("Harbor", rooms[0].BranchName)
	s.Equal("Single", rooms[0].RoomTypeName)
	s.Equal(id.Money(10000), rooms[0].BasePrice)
}
