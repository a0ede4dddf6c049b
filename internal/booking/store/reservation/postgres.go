package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hotelchain/internal/booking/models"
	"hotelchain/internal/platform/postgres"
	id "hotelchain/pkg/domain"
	"hotelchain/pkg/platform/sentinel"
	txcontext "hotelchain/pkg/platform/tx"
)

// PostgresStore persists reservations in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const reservationColumns = `id, user_id, branch_id, room_type_id, check_in, check_out, occupants,
	number_of_rooms, status, payment_status, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, r *models.Reservation) error {
	query := `INSERT INTO reservations (` + reservationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(r.ID), uuid.UUID(r.UserID), uuid.UUID(r.BranchID), uuid.UUID(r.RoomTypeID),
		r.Stay.CheckIn.Format(time.DateOnly), r.Stay.CheckOut.Format(time.DateOnly),
		r.Occupants, r.NumberOfRooms, string(r.Status), string(r.PaymentStatus), r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, reservationID id.ReservationID) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return scanReservation(txcontext.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(reservationID)))
}

func (s *PostgresStore) Update(ctx context.Context, r *models.Reservation) error {
	query := `
		UPDATE reservations
		SET branch_id = $2, room_type_id = $3, check_in = $4, check_out = $5, occupants = $6,
			number_of_rooms = $7, status = $8, payment_status = $9, updated_at = $10
		WHERE id = $1
	`
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(r.ID), uuid.UUID(r.BranchID), uuid.UUID(r.RoomTypeID),
		r.Stay.CheckIn.Format(time.DateOnly), r.Stay.CheckOut.Format(time.DateOnly),
		r.Occupants, r.NumberOfRooms, string(r.Status), string(r.PaymentStatus), r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	return postgres.RequireAffected(res)
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()
	var out []*models.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanReservation(row postgres.Scanner) (*models.Reservation, error) {
	var (
		r                               models.Reservation
		resID, userID, branchID, typeID uuid.UUID
		status, paymentStatus           string
	)
	err := row.Scan(&resID, &userID, &branchID, &typeID, &r.Stay.CheckIn, &r.Stay.CheckOut,
		&r.Occupants, &r.NumberOfRooms, &status, &paymentStatus, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan reservation: %w", err)
	}
	r.ID = id.ReservationID(resID)
	r.UserID = id.UserID(userID)
	r.BranchID = id.BranchID(branchID)
	r.RoomTypeID = id.RoomTypeID(typeID)
	r.Stay.CheckIn = models.Day(r.Stay.CheckIn)
	r.Stay.CheckOut = models.Day(r.Stay.CheckOut)
	r.Status = models.ReservationStatus(status)
	r.PaymentStatus = models.PaymentStatus(paymentStatus)
	return &r, nil
}
