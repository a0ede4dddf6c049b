package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"hotelchain/internal/inventory/models"
	"hotelchain/internal/inventory/store/room"
	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
	audit "hotelchain/pkg/platform/audit"
	"hotelchain/pkg/platform/sentinel"
	"hotelchain/pkg/requestcontext"
)

// RoomTypeCommand creates a room type.
type RoomTypeCommand struct {
	Name         string
	Description  string
	BasePrice    id.Money
	MaxOccupancy int
}

// RoomCommand creates or updates a room.
type RoomCommand struct {
	BranchID   id.BranchID
	RoomTypeID id.RoomTypeID
	RoomNumber string
	// Status is optional on create and defaults to available.
	Status models.RoomStatus
}

// DefaultRoomTypes are seeded into an empty chain.
var DefaultRoomTypes = []RoomTypeCommand{
	{Name: "Single", Description: "One bed, city view", BasePrice: 10000, MaxOccupancy: 2},
	{Name: "Double", Description: "Two beds, room for a family", BasePrice: 15000, MaxOccupancy: 4},
	{Name: "Suite", Description: "Separate living area", BasePrice: 25000, MaxOccupancy: 6},
}

func (s *Service) CreateRoomType(ctx context.Context, cmd RoomTypeCommand) (*models.RoomType, error) {
	rt, err := models.NewRoomType(id.RoomTypeID(uuid.New()), cmd.Name, cmd.Description, cmd.BasePrice, cmd.MaxOccupancy, requestcontext.Now(ctx))
	if err != nil {
		return nil, wrapStoreErr(err, "room type", "create room type")
	}
	if err := s.types.Create(ctx, rt); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "a room type with this name already exists")
		}
		return nil, wrapStoreErr(err, "room type", "create room type")
	}
	s.emit(ctx, audit.EventRoomTypeCreated, id.BranchID{}, rt.Name)
	return rt, nil
}

func (s *Service) ListRoomTypes(ctx context.Context) ([]*models.RoomType, error) {
	types, err := s.types.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list room types")
	}
	return types, nil
}

func (s *Service) GetRoomType(ctx context.Context, typeID id.RoomTypeID) (*models.RoomType, error) {
	rt, err := s.types.FindByID(ctx, typeID)
	if err != nil {
		return nil, wrapStoreErr(err, "room type", "load room type")
	}
	return rt, nil
}

// SeedRoomTypes creates the default room types when none exist.
func (s *Service) SeedRoomTypes(ctx context.Context) error {
	existing, err := s.ListRoomTypes(ctx)
	if err != nil || len(existing) > 0 {
		return err
	}
	for _, cmd := range DefaultRoomTypes {
		if _, err := s.CreateRoomType(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) checkRefs(ctx context.Context, cmd RoomCommand) error {
	if _, err := s.branches.FindByID(ctx, cmd.BranchID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeValidation, "branch does not exist")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load branch")
	}
	if _, err := s.types.FindByID(ctx, cmd.RoomTypeID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeValidation, "room type does not exist")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load room type")
	}
	return nil
}

func roomWriteErr(err error, action string) error {
	if errors.Is(err, sentinel.ErrAlreadyUsed) {
		return dErrors.New(dErrors.CodeConflict, "room number already exists in this branch")
	}
	return wrapStoreErr(err, "room", action)
}

// CreateRoom adds a room to a branch.
func (s *Service) CreateRoom(ctx context.Context, cmd RoomCommand) (*models.Room, error) {
	if err := s.checkRefs(ctx, cmd); err != nil {
		return nil, err
	}
	r, err := models.NewRoom(id.RoomID(uuid.New()), cmd.BranchID, cmd.RoomTypeID, cmd.RoomNumber, requestcontext.Now(ctx))
	if err != nil {
		return nil, roomWriteErr(err, "create room")
	}
	if cmd.Status != "" {
		r.Status = cmd.Status
	}
	if err := s.rooms.Create(ctx, r); err != nil {
		return nil, roomWriteErr(err, "create room")
	}
	s.emit(ctx, audit.EventRoomCreated, r.BranchID, r.RoomNumber)
	return r, nil
}

// UpdateRoom moves, renumbers or changes the status of a room.
func (s *Service) UpdateRoom(ctx context.Context, roomID id.RoomID, cmd RoomCommand) (*models.Room, error) {
	if err := s.checkRefs(ctx, cmd); err != nil {
		return nil, err
	}
	r, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, wrapStoreErr(err, "room", "load room")
	}
	if err := r.Assign(cmd.BranchID, cmd.RoomTypeID, cmd.RoomNumber, requestcontext.Now(ctx)); err != nil {
		return nil, roomWriteErr(err, "update room")
	}
	if cmd.Status != "" {
		r.Status = cmd.Status
	}
	if err := s.rooms.Update(ctx, r); err != nil {
		return nil, roomWriteErr(err, "update room")
	}
	s.emit(ctx, audit.EventRoomUpdated, r.BranchID, r.RoomNumber)
	return r, nil
}

// DeleteRoom removes a room no booking references.
func (s *Service) DeleteRoom(ctx context.Context, roomID id.RoomID) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		r, err := s.rooms.FindByID(ctx, roomID)
		if err != nil {
			return wrapStoreErr(err, "room", "load room")
		}
		if s.bookings != nil {
			n, err := s.bookings.CountByRoom(ctx, roomID)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count bookings")
			}
			if n > 0 {
				return dErrors.New(dErrors.CodeConflict, "cannot delete a room with existing bookings")
			}
		}
		if err := s.rooms.Delete(ctx, roomID); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "cannot delete a room with existing bookings")
			}
			return wrapStoreErr(err, "room", "delete room")
		}
		s.emit(ctx, audit.EventRoomDeleted, r.BranchID, r.RoomNumber)
		return nil
	})
}

func (s *Service) GetRoom(ctx context.Context, roomID id.RoomID) (*models.Room, error) {
	r, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, wrapStoreErr(err, "room", "load room")
	}
	return r, nil
}

// ListRooms returns rooms matching f joined with branch and type names.
func (s *Service) ListRooms(ctx context.Context, f room.Filter) ([]models.RoomView, error) {
	rooms, err := s.rooms.List(ctx, f)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list rooms")
	}
	return s.views(ctx, rooms)
}

// AvailableRooms lists rooms a walk-in guest can be put in right now.
func (s *Service) AvailableRooms(ctx context.Context, branchID id.BranchID) ([]models.RoomView, error) {
	return s.ListRooms(ctx, room.Filter{BranchID: branchID, Status: models.RoomAvailable})
}

// FindFreeRooms returns up to limit rooms of the type in the branch that are
// not under maintenance and have no active booking overlapping the stay.
// Bookings of exclude are ignored so a reservation can be re-planned.
func (s *Service) FindFreeRooms(ctx context.Context, branchID id.BranchID, typeID id.RoomTypeID, checkIn, checkOut time.Time, limit int, exclude id.ReservationID) ([]*models.Room, error) {
	candidates, err := s.rooms.List(ctx, room.Filter{
		BranchID:      branchID,
		RoomTypeID:    typeID,
		ExcludeStatus: models.RoomMaintenance,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list rooms")
	}
	busy := map[id.RoomID]bool{}
	if s.bookings != nil {
		busy, err = s.bookings.BusyRooms(ctx, branchID, checkIn, checkOut, exclude)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check room availability")
		}
	}
	free := make([]*models.Room, 0, limit)
	for _, r := range candidates {
		if busy[r.ID] {
			continue
		}
		free = append(free, r)
		if len(free) == limit {
			break
		}
	}
	return free, nil
}

// SetRoomStatus flips a room between available, occupied and maintenance.
func (s *Service) SetRoomStatus(ctx context.Context, roomID id.RoomID, status models.RoomStatus) error {
	r, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return wrapStoreErr(err, "room", "load room")
	}
	r.Status = status
	r.UpdatedAt = requestcontext.Now(ctx)
	if err := s.rooms.Update(ctx, r); err != nil {
		return wrapStoreErr(err, "room", "update room status")
	}
	return nil
}

func (s *Service) views(ctx context.Context, rooms []*models.Room) ([]models.RoomView, error) {
	branches, err := s.branches.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list branches")
	}
	types, err := s.types.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list room types")
	}
	branchNames := make(map[id.BranchID]string, len(branches))
	for _, b := range branches {
		branchNames[b.ID] = b.Name
	}
	typeByID := make(map[id.RoomTypeID]*models.RoomType, len(types))
	for _, t := range types {
		typeByID[t.ID] = t
	}
	out := make([]models.RoomView, 0, len(rooms))
	for _, r := range rooms {
		v := models.RoomView{Room: r, BranchName: branchNames[r.BranchID]}
		if t, ok := typeByID[r.RoomTypeID]; ok {
			v.RoomTypeName = t.Name
			v.BasePrice = t.BasePrice
		}
		out = append(out, v)
	}
	return out, nil
}
