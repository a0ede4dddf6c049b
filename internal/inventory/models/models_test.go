package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
)

func TestNewRoomType(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	typeID := id.RoomTypeID(uuid.New())

	rt, err := NewRoomType(typeID, "  Suite ", "sea view", 25000, 6, now)
	require.NoError(t, err)
	assert.Equal(t, "Suite", rt.Name)

	_, err = NewRoomType(typeID, "Suite", "", 0, 6, now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = NewRoomType(typeID, "Suite", "", 100, 0, now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestNewRoomDefaultsToAvailable(t *testing.T) {
	now := time.Now()
	r, err := NewRoom(id.RoomID(uuid.New()), id.BranchID(uuid.New()), id.RoomTypeID(uuid.New()), " 101 ", now)
	require.NoError(t, err)
	assert.Equal(t, RoomAvailable, r.Status)
	assert.Equal(t, "101", r.RoomNumber)
	assert.True(t, r.IsAvailable())

	_, err = NewRoom(id.RoomID(uuid.New()), id.BranchID{}, id.RoomTypeID(uuid.New()), "101", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestParseRoomStatus(t *testing.T) {
	for _, s := range []string{"available", "occupied", "maintenance"} {
		got, err := ParseRoomStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, got.String())
	}
	_, err := ParseRoomStatus("cleaning")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestBranchUpdateValidates(t *testing.T) {
	b, err := NewBranch(id.BranchID(uuid.New()), "Harbor", "Lisbon", time.Now())
	require.NoError(t, err)
	assert.Error(t, b.Update("", "Lisbon", time.Now()))
	assert.Equal(t, "Harbor", b.Name)
}
