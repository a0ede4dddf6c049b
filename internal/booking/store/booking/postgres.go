package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"hotelchain/internal/booking/models"
	"hotelchain/internal/platform/postgres"
	id "hotelchain/pkg/domain"
	"hotelchain/pkg/platform/sentinel"
	txcontext "hotelchain/pkg/platform/tx"
)

// PostgresStore persists bookings in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const bookingColumns = `id, reservation_id, user_id, branch_id, room_id, check_in, check_out, status, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, b *models.Booking) error {
	query := `INSERT INTO bookings (` + bookingColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(b.ID), reservationArg(b.ReservationID), uuid.UUID(b.UserID), uuid.UUID(b.BranchID),
		uuid.UUID(b.RoomID), b.Stay.CheckIn.Format(time.DateOnly), b.Stay.CheckOut.Format(time.DateOnly),
		string(b.Status), b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, bookingID id.BookingID) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(txcontext.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(bookingID)))
}

func (s *PostgresStore) Update(ctx context.Context, b *models.Booking) error {
	query := `
		UPDATE bookings
		SET room_id = $2, check_in = $3, check_out = $4, status = $5, updated_at = $6
		WHERE id = $1
	`
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(b.ID), uuid.UUID(b.RoomID), b.Stay.CheckIn.Format(time.DateOnly),
		b.Stay.CheckOut.Format(time.DateOnly), string(b.Status), b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	return postgres.RequireAffected(res)
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]*models.Booking, error) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, strings.Replace(clause, "?", "$"+strconv.Itoa(len(args)), 1))
	}
	if !f.BranchID.IsNil() {
		add("branch_id = ?", uuid.UUID(f.BranchID))
	}
	if !f.UserID.IsNil() {
		add("user_id = ?", uuid.UUID(f.UserID))
	}
	if !f.ReservationID.IsNil() {
		add("reservation_id = ?", uuid.UUID(f.ReservationID))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			statuses[i] = string(st)
		}
		add("status = ANY(?)", pq.Array(statuses))
	}
	if !f.CheckInOn.IsZero() {
		add("check_in = ?", models.Day(f.CheckInOn).Format(time.DateOnly))
	}
	if !f.CheckOutFrom.IsZero() {
		add("check_out >= ?", models.Day(f.CheckOutFrom).Format(time.DateOnly))
	}
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY check_in, created_at`

	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()
	var out []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountByRoom(ctx context.Context, roomID id.RoomID) (int, error) {
	var n int
	err := txcontext.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT count(*) FROM bookings WHERE room_id = $1`, uuid.UUID(roomID)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) BusyRooms(ctx context.Context, branchID id.BranchID, checkIn, checkOut time.Time, exclude id.ReservationID) (map[id.RoomID]bool, error) {
	query := `
		SELECT DISTINCT room_id FROM bookings
		WHERE branch_id = $1
		  AND status IN ('pending', 'checked_in')
		  AND check_in < $3 AND $2 < check_out
		  AND (reservation_id IS NULL OR reservation_id <> $4)
	`
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query, uuid.UUID(branchID),
		models.Day(checkIn).Format(time.DateOnly), models.Day(checkOut).Format(time.DateOnly), uuid.UUID(exclude))
	if err != nil {
		return nil, fmt.Errorf("query busy rooms: %w", err)
	}
	defer rows.Close()
	busy := make(map[id.RoomID]bool)
	for rows.Next() {
		var roomID uuid.UUID
		if err := rows.Scan(&roomID); err != nil {
			return nil, fmt.Errorf("scan busy room: %w", err)
		}
		busy[id.RoomID(roomID)] = true
	}
	return busy, rows.Err()
}

func (s *PostgresStore) RoomConflicts(ctx context.Context, roomID id.RoomID, stay models.Stay, exclude id.BookingID) (int, error) {
	query := `
		SELECT count(*) FROM bookings
		WHERE room_id = $1 AND id <> $4
		  AND status IN ('pending', 'checked_in')
		  AND check_in < $3 AND $2 < check_out
	`
	var n int
	err := txcontext.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(roomID),
		stay.CheckIn.Format(time.DateOnly), stay.CheckOut.Format(time.DateOnly), uuid.UUID(exclude)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count room conflicts: %w", err)
	}
	return n, nil
}

func reservationArg(r *id.ReservationID) uuid.NullUUID {
	if r == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*r), Valid: true}
}

func scanBooking(row postgres.Scanner) (*models.Booking, error) {
	var (
		b                                 models.Booking
		bookingID, userID, branch, roomID uuid.UUID
		reservationID                     uuid.NullUUID
		status                            string
	)
	err := row.Scan(&bookingID, &reservationID, &userID, &branch, &roomID,
		&b.Stay.CheckIn, &b.Stay.CheckOut, &status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan booking: %w", err)
	}
	b.ID = id.BookingID(bookingID)
	if reservationID.Valid {
		rid := id.ReservationID(reservationID.UUID)
		b.ReservationID = &rid
	}
	b.UserID = id.UserID(userID)
	b.BranchID = id.BranchID(branch)
	b.RoomID = id.RoomID(roomID)
	b.Stay.CheckIn = models.Day(b.Stay.CheckIn)
	b.Stay.CheckOut = models.Day(b.Stay.CheckOut)
	b.Status = models.BookingStatus(status)
	return &b, nil
}
