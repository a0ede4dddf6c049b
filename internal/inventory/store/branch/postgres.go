package branch

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

// PostgresStore persists branches in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const branchColumns = `id, name, location, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, b *models.Branch) error {
	query := `INSERT INTO branches (` + branchColumns + `) VALUES ($1, $2, $3, $4, $5)`
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(b.ID), b.Name, b.Location, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert branch: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, branchID id.BranchID) (*models.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE id = $1`
	row := txcontext.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(branchID))
	return scanBranch(row)
}

func (s *PostgresStore) Update(ctx context.Context, b *models.Branch) error {
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx,
		`UPDATE branches SET name = $2, location = $3, updated_at = $4 WHERE id = $1`,
		uuid.UUID(b.ID), b.Name, b.Location, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update branch: %w", err)
	}
	return postgres.RequireAffected(res)
}

// Delete removes the branch. Rows still referencing it surface as ErrConflict.
func (s *PostgresStore) Delete(ctx context.Context, branchID id.BranchID) error {
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx,
		`DELETE FROM branches WHERE id = $1`, uuid.UUID(branchID))
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("delete branch: %w", err)
	}
	return postgres.RequireAffected(res)
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Branch, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+branchColumns+` FROM branches ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query branches: %w", err)
	}
	defer rows.Close()
	var out []*models.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM branches`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count branches: %w", err)
	}
	return n, nil
}

func scanBranch(row postgres.Scanner) (*models.Branch, error) {
	var (
		b   models.Branch
		bid uuid.UUID
	)
	if err := row.Scan(&bid, &b.Name, &b.Location, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan branch: %w", err)
	}
	b.ID = id.BranchID(bid)
	return &b, nil
}
