package room

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"hotelchain/internal/inventory/models"
	"hotelchain/internal/platform/postgres"
	id "hotelchain/pkg/domain"
	"hotelchain/pkg/platform/sentinel"
	txcontext "hotelchain/pkg/platform/tx"
)

// PostgresStore persists rooms in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const roomColumns = `id, branch_id, room_type_id, room_number, status, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, r *models.Room) error {
	query := `INSERT INTO rooms (` + roomColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(r.ID), uuid.UUID(r.BranchID), uuid.UUID(r.RoomTypeID), r.RoomNumber,
		string(r.Status), r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return mapWriteErr(err, "insert room")
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, roomID id.RoomID) (*models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`
	return scanRoom(txcontext.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(roomID)))
}

func (s *PostgresStore) Update(ctx context.Context, r *models.Room) error {
	query := `
		UPDATE rooms
		SET branch_id = $2, room_type_id = $3, room_number = $4, status = $5, updated_at = $6
		WHERE id = $1
	`
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(r.ID), uuid.UUID(r.BranchID), uuid.UUID(r.RoomTypeID), r.RoomNumber,
		string(r.Status), r.UpdatedAt)
	if err != nil {
		return mapWriteErr(err, "update room")
	}
	return postgres.RequireAffected(res)
}

func (s *PostgresStore) Delete(ctx context.Context, roomID id.RoomID) error {
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, uuid.UUID(roomID))
	if err != nil {
		return mapWriteErr(err, "delete room")
	}
	return postgres.RequireAffected(res)
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]*models.Room, error) {
	where, args := f.sql()
	query := `SELECT ` + roomColumns + ` FROM rooms` + where + ` ORDER BY branch_id, room_number`
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rooms: %w", err)
	}
	defer rows.Close()
	var out []*models.Room
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context, f Filter) (int, error) {
	where, args := f.sql()
	var n int
	if err := txcontext.Executor(ctx, s.db).QueryRowContext(ctx, `SELECT count(*) FROM rooms`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rooms: %w", err)
	}
	return n, nil
}

func (f Filter) sql() (string, []any) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, clause+" $"+strconv.Itoa(len(args)))
	}
	if !f.BranchID.IsNil() {
		add("branch_id =", uuid.UUID(f.BranchID))
	}
	if !f.RoomTypeID.IsNil() {
		add("room_type_id =", uuid.UUID(f.RoomTypeID))
	}
	if f.Status != "" {
		add("status =", string(f.Status))
	}
	if f.ExcludeStatus != "" {
		add("status <>", string(f.ExcludeStatus))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func mapWriteErr(err error, op string) error {
	switch {
	case postgres.IsUniqueViolation(err):
		return sentinel.ErrAlreadyUsed
	case postgres.IsForeignKeyViolation(err):
		return sentinel.ErrConflict
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func scanRoom(row postgres.Scanner) (*models.Room, error) {
	var (
		r        models.Room
		roomID   uuid.UUID
		branchID uuid.UUID
		typeID   uuid.UUID
		status   string
	)
	if err := row.Scan(&roomID, &branchID, &typeID, &r.RoomNumber, &status, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan room: %w", err)
	}
	r.ID = id.RoomID(roomID)
	r.BranchID = id.BranchID(branchID)
	r.RoomTypeID = id.RoomTypeID(typeID)
	r.Status = models.RoomStatus(status)
	return &r, nil
}
