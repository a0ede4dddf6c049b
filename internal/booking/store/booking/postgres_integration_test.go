//go:build integration

package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"hotelchain/internal/booking/models"
	"hotelchain/internal/booking/store/booking"
	identitymodels "hotelchain/internal/identity/models"
	"hotelchain/internal/identity/store/user"
	inventorymodels "hotelchain/internal/inventory/models"
	"hotelchain/internal/inventory/store/branch"
	"hotelchain/internal/inventory/store/room"
	"hotelchain/internal/inventory/store/roomtype"
	id "hotelchain/pkg/domain"
	"hotelchain/pkg/platform/sentinel"
	"hotelchain/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg     *containers.PostgresContainer
	store  *booking.PostgresStore
	branch id.BranchID
	room   id.RoomID
	guest  id.UserID
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.GetManager().GetPostgres(s.T())
	s.store = booking.NewPostgres(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.pg.Truncate(ctx))
	now := time.Now()

	b, err := inventorymodels.NewBranch(id.BranchID(uuid.New()), "Harbour", "Colombo", now)
	s.Require().NoError(err)
	s.Require().NoError(branch.NewPostgres(s.pg.DB).Create(ctx, b))

	rt, err := inventorymodels.NewRoomType(id.RoomTypeID(uuid.New()), "Suite "+uuid.NewString()[:8], "", 25000, 2, now)
	s.Require().NoError(err)
	s.Require().NoError(roomtype.NewPostgres(s.pg.DB).Create(ctx, rt))

	r, err := inventorymodels.NewRoom(id.RoomID(uuid.New()), b.ID, rt.ID, "101", now)
	s.Require().NoError(err)
	s.Require().NoError(room.NewPostgres(s.pg.DB).Create(ctx, r))

	u, err := identitymodels.NewUser(id.UserID(uuid.New()), "Ada Guest", uuid.NewString()+"@example.com", "hash", id.RoleCustomer, nil, now)
	s.Require().NoError(err)
	s.Require().NoError(user.NewPostgres(s.pg.DB).Create(ctx, u))

	s.branch, s.room, s.guest = b.ID, r.ID, u.ID
}

func day(d int) time.Time {
	return time.Date(2026, 7, d, 0, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) add(in, out int, status models.BookingStatus) *models.Booking {
	b := &models.Booking{
		ID:        id.BookingID(uuid.New()),
		UserID:    s.guest,
		BranchID:  s.branch,
		RoomID:    s.room,
		Stay:      models.Stay{CheckIn: day(in), CheckOut: day(out)},
		Status:    status,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	s.Require().NoError(s.store.Create(context.Background(), b))
	return b
}

func (s *PostgresStoreSuite) TestRoundTripKeepsDates() {
	ctx := context.Background()
	b := s.add(10, 12, models.BookingPending)

	got, err := s.store.FindByID(ctx, b.ID)
	s.Require().NoError(err)
	s.True(got.Stay.CheckIn.Equal(day(10)))
	s.True(got.Stay.CheckOut.Equal(day(12)))
	s.Nil(got.ReservationID)

	_, err = s.store.FindByID(ctx, id.BookingID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestOverlapQueries() {
	ctx := context.Background()
	b := s.add(10, 12, models.BookingCheckedIn)
	s.add(20, 22, models.BookingCancelled)

	busy, err := s.store.BusyRooms(ctx, s.branch, day(11), day(13), id.ReservationID{})
	s.Require().NoError(err)
	s.True(busy[s.room])

	busy, err = s.store.BusyRooms(ctx, s.branch, day(12), day(14), id.ReservationID{})
	s.Require().NoError(err)
	s.False(busy[s.room], "check-out day is free for the next guest")

	n, err := s.store.RoomConflicts(ctx, s.room, models.Stay{CheckIn: day(9), CheckOut: day(11)}, id.BookingID{})
	s.Require().NoError(err)
	s.Equal(1, n)

	n, err = s.store.RoomConflicts(ctx, s.room, b.Stay, b.ID)
	s.Require().NoError(err)
	s.Zero(n)

	n, err = s.store.RoomConflicts(ctx, s.room, models.Stay{CheckIn: day(20), CheckOut: day(22)}, id.BookingID{})
	s.Require().NoError(err)
	s.Zero(n, "cancelled bookings do not hold the room")
}

func (s *PostgresStoreSuite) TestUpdateAndFilter() {
	ctx := context.Background()
	b := s.add(10, 12, models.BookingPending)
	s.Require().NoError(b.CheckIn(s.room, time.Now()))
	s.Require().NoError(s.store.Update(ctx, b))

	list, err := s.store.List(ctx, booking.Filter{BranchID: s.branch, Statuses: []models.BookingStatus{models.BookingCheckedIn}})
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(b.ID, list[0].ID)

	count, err := s.store.CountByRoom(ctx, s.room)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *PostgresStoreSuite) TestGuestWithStayCannotBeDeleted() {
	ctx := context.Background()
	b := s.add(10, 12, models.BookingCheckedIn)

	err := user.NewPostgres(s.pg.DB).Delete(ctx, s.guest)
	s.ErrorIs(err, sentinel.ErrConflict)

	got, err := s.store.FindByID(ctx, b.ID)
	s.Require().NoError(err)
	s.Equal(models.BookingCheckedIn, got.Status, "stay survives the refused delete")
}
