package models

import (
	"strings"
	"time"

	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
)

// Branch is one hotel of the chain. Staff belong to exactly one branch.
type Branch struct {
	ID        id.BranchID
	Name      string
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBranch validates and builds a branch.
func NewBranch(branchID id.BranchID, name, location string, now time.Time) (*Branch, error) {
	b := &Branch{ID: branchID, CreatedAt: now}
	if err := b.Update(name, location, now); err != nil {
		return nil, err
	}
	return b, nil
}

// Update renames or relocates the branch.
func (b *Branch) Update(name, location string, now time.Time) error {
	name = strings.TrimSpace(name)
	location = strings.TrimSpace(location)
	if name == "" || len(name) > 128 {
		return dErrors.New(dErrors.CodeInvariantViolation, "branch name must be 1 to 128 characters")
	}
	if location == "" || len(location) > 255 {
		return dErrors.New(dErrors.CodeInvariantViolation, "branch location must be 1 to 255 characters")
	}
	b.Name = name
	b.Location = location
	b.UpdatedAt = now
	return nil
}

// RoomType is a chain-wide category with a nightly base price.
type RoomType struct {
	ID           id.RoomTypeID
	Name         string
	Description  string
	BasePrice    id.Money
	MaxOccupancy int
	CreatedAt    time.Time
}

// NewRoomType validates and builds a room type.
func NewRoomType(typeID id.RoomTypeID, name, description string, basePrice id.Money, maxOccupancy int, now time.Time) (*RoomType, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 64 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "room type name must be 1 to 64 characters")
	}
	if basePrice <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "base price must be greater than zero")
	}
	if maxOccupancy < 1 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "max occupancy must be at least 1")
	}
	return &RoomType{
		ID:           typeID,
		Name:         name,
		Description:  strings.TrimSpace(description),
		BasePrice:    basePrice,
		MaxOccupancy: maxOccupancy,
		CreatedAt:    now,
	}, nil
}

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
)

func (s RoomStatus) String() string { return string(s) }

// ParseRoomStatus accepts the three known statuses.
func ParseRoomStatus(s string) (RoomStatus, error) {
	switch RoomStatus(s) {
	case RoomAvailable, RoomOccupied, RoomMaintenance:
		return RoomStatus(s), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "room status must be available, occupied or maintenance")
	}
}

// Room is a physical room in a branch.
//
// Invariants:
//   - RoomNumber is unique within the branch
//   - Status is one of available, occupied, maintenance
type Room struct {
	ID         id.RoomID
	BranchID   id.BranchID
	RoomTypeID id.RoomTypeID
	RoomNumber string
	Status     RoomStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewRoom builds an available room.
func NewRoom(roomID id.RoomID, branchID id.BranchID, typeID id.RoomTypeID, number string, now time.Time) (*Room, error) {
	r := &Room{ID: roomID, Status: RoomAvailable, CreatedAt: now}
	if err := r.Assign(branchID, typeID, number, now); err != nil {
		return nil, err
	}
	return r, nil
}

// Assign moves the room to a branch, type and number.
func (r *Room) Assign(branchID id.BranchID, typeID id.RoomTypeID, number string, now time.Time) error {
	number = strings.TrimSpace(number)
	if number == "" || len(number) > 16 {
		return dErrors.New(dErrors.CodeInvariantViolation, "room number must be 1 to 16 characters")
	}
	if branchID.IsNil() || typeID.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, "room needs a branch and a room type")
	}
	r.BranchID = branchID
	r.RoomTypeID = typeID
	r.RoomNumber = number
	r.UpdatedAt = now
	return nil
}

// IsAvailable reports whether a guest can be put in the room right now.
func (r *Room) IsAvailable() bool {
	return r.Status == RoomAvailable
}

// RoomView joins a room with the names the pages display.
type RoomView struct {
	*Room
	BranchName   string
	RoomTypeName string
	BasePrice    id.Money
}
