package roomtype

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"hotelchain/internal/inventory/models"
	"hotelchain/internal/platform/postgres"
	id "hotelchain/pkg/domain"
	"hotelchain/pkg/platform/sentinel"
	txcontext "hotelchain/pkg/platform/tx"
)

// PostgresStore persists room types in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const typeColumns = `id, name, description, base_price_cents, max_occupancy, created_at`

func (s *PostgresStore) Create(ctx context.Context, rt *models.RoomType) error {
	query := `INSERT INTO room_types (` + typeColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(rt.ID), rt.Name, rt.Description, int64(rt.BasePrice), rt.MaxOccupancy, rt.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert room type: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, typeID id.RoomTypeID) (*models.RoomType, error) {
	query := `SELECT ` + typeColumns + ` FROM room_types WHERE id = $1`
	return scanType(txcontext.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(typeID)))
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.RoomType, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+typeColumns+` FROM room_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query room types: %w", err)
	}
	defer rows.Close()
	var out []*models.RoomType
	for rows.Next() {
		rt, err := scanType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func scanType(row postgres.Scanner) (*models.RoomType, error) {
	var (
		rt     models.RoomType
		typeID uuid.UUID
		cents  int64
	)
	if err := row.Scan(&typeID, &rt.Name, &rt.Description, &cents, &rt.MaxOccupancy, &rt.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan room type: %w", err)
	}
	rt.ID = id.RoomTypeID(typeID)
	rt.BasePrice = id.Money(cents)
	return &rt, nil
}
