// Package store reads the chain-wide report figures, either from the pgx
// reporting pool or from the in-memory stores of the other contexts.
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hotelchain/internal/reports/models"
	id "hotelchain/pkg/domain"
)

// PostgresSource runs report queries on a read-only pool, which may point at
// a replica.
type PostgresSource struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

func (s *PostgresSource) count(ctx context.Context, table string) (int, error) {
	var n int
	// table is one of the fixed names below, never user input.
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func (s *PostgresSource) CountBranches(ctx context.Context) (int, error) {
	return s.count(ctx, "branches")
}

func (s *PostgresSource) CountUsers(ctx context.Context) (int, error) {
	return s.count(ctx, "users")
}

func (s *PostgresSource) CountBookings(ctx context.Context) (int, error) {
	return s.count(ctx, "bookings")
}

// Revenue prices every checked-in and checked-out night at its type's base rate.
func (s *PostgresSource) Revenue(ctx context.Context) (id.Money, error) {
	var cents int64
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(rt.base_price_cents * (b.check_out - b.check_in)), 0)::BIGINT
		FROM bookings b
		JOIN rooms r ON r.id = b.room_id
		JOIN room_types rt ON rt.id = r.room_type_id
		WHERE b.status IN ('checked_in', 'checked_out')`).Scan(&cents)
	if err != nil {
		return 0, fmt.Errorf("sum revenue: %w", err)
	}
	return id.Money(cents), nil
}

func (s *PostgresSource) Occupancy(ctx context.Context) (checkedIn, rooms int, err error) {
	err = s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM bookings WHERE status = 'checked_in'),
			(SELECT COUNT(*) FROM rooms)`).Scan(&checkedIn, &rooms)
	if err != nil {
		return 0, 0, fmt.Errorf("count occupancy: %w", err)
	}
	return checkedIn, rooms, nil
}

// BookingsPerBranch lists every branch, including those without bookings.
func (s *PostgresSource) BookingsPerBranch(ctx context.Context) ([]models.BranchBookings, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT br.id, br.name, COUNT(b.id)
		FROM branches br
		LEFT JOIN bookings b ON b.branch_id = br.id
		GROUP BY br.id, br.name
		ORDER BY br.name`)
	if err != nil {
		return nil, fmt.Errorf("query bookings per branch: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.BranchBookings, error) {
		var (
			branchID uuid.UUID
			bb       models.BranchBookings
		)
		if err := row.Scan(&branchID, &bb.BranchName, &bb.Bookings); err != nil {
			return bb, err
		}
		bb.BranchID = id.BranchID(branchID)
		return bb, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan bookings per branch: %w", err)
	}
	return out, nil
}
