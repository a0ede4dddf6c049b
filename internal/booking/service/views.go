package service

import (
	"context"

	"hotelchain/internal/booking/models"
	inventorymodels "hotelchain/internal/inventory/models"
	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
)

// nameCache memoizes inventory lookups while a page is assembled.
type nameCache struct {
	rooms    RoomDirectory
	branches map[id.BranchID]*inventorymodels.Branch
	types    map[id.RoomTypeID]*inventorymodels.RoomType
	byRoom   map[id.RoomID]*inventorymodels.Room
}

func newNameCache(rooms RoomDirectory) *nameCache {
	return &nameCache{
		rooms:    rooms,
		branches: make(map[id.BranchID]*inventorymodels.Branch),
		types:    make(map[id.RoomTypeID]*inventorymodels.RoomType),
		byRoom:   make(map[id.RoomID]*inventorymodels.Room),
	}
}

func (c *nameCache) branch(ctx context.Context, branchID id.BranchID) (*inventorymodels.Branch, error) {
	if b, ok := c.branches[branchID]; ok {
		return b, nil
	}
	b, err := c.rooms.GetBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	c.branches[branchID] = b
	return b, nil
}

func (c *nameCache) roomType(ctx context.Context, typeID id.RoomTypeID) (*inventorymodels.RoomType, error) {
	if rt, ok := c.types[typeID]; ok {
		return rt, nil
	}
	rt, err := c.rooms.GetRoomType(ctx, typeID)
	if err != nil {
		return nil, err
	}
	c.types[typeID] = rt
	return rt, nil
}

func (c *nameCache) room(ctx context.Context, roomID id.RoomID) (*inventorymodels.Room, error) {
	if r, ok := c.byRoom[roomID]; ok {
		return r, nil
	}
	r, err := c.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	c.byRoom[roomID] = r
	return r, nil
}

// bookingViews joins bookings with guest, room and branch names and prices
// each stay at its room type's base rate, less any reservation prepayment.
func (s *Service) bookingViews(ctx context.Context, bookings []*models.Booking) ([]models.BookingView, error) {
	names := newNameCache(s.rooms)
	type contact struct{ name, email string }
	guests := make(map[id.UserID]contact)

	views := make([]models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		room, err := names.room(ctx, b.RoomID)
		if err != nil {
			return nil, err
		}
		rt, err := names.roomType(ctx, room.RoomTypeID)
		if err != nil {
			return nil, err
		}
		branch, err := names.branch(ctx, b.BranchID)
		if err != nil {
			return nil, err
		}
		guest, ok := guests[b.UserID]
		if !ok {
			u, err := s.guests.GetUser(ctx, b.UserID)
			switch {
			case err == nil:
				guest = contact{name: u.Name, email: u.Email}
			case !dErrors.HasCode(err, dErrors.CodeNotFound):
				return nil, err
			}
			guests[b.UserID] = guest
		}
		prepaid, err := s.prepaidRoomCharges(ctx, b, rt.BasePrice)
		if err != nil {
			return nil, err
		}
		views = append(views, models.BookingView{
			Booking:      b,
			GuestName:    guest.name,
			GuestEmail:   guest.email,
			RoomNumber:   room.RoomNumber,
			RoomTypeName: rt.Name,
			BranchName:   branch.Name,
			Quote:        models.Quote(rt.BasePrice, b.Stay.Nights(), 0).Less(prepaid),
		})
	}
	return views, nil
}
