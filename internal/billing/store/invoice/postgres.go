package invoice

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

	"hotelchain/internal/billing/models"
	"hotelchain/internal/platform/postgres"
	id "hotelchain/pkg/domain"
	"hotelchain/pkg/platform/sentinel"
	txcontext "hotelchain/pkg/platform/tx"
)

// PostgresStore persists invoices in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const invoiceColumns = `id, user_id, branch_id, reservation_id, booking_id, amount_cents,
	service_charges_cents, status, due_at, issued_at, paid_at`

func (s *PostgresStore) Create(ctx context.Context, inv *models.Invoice) error {
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(inv.ID), uuid.UUID(inv.UserID), uuid.UUID(inv.BranchID),
		nullUUID(inv.ReservationID), nullUUID(inv.BookingID),
		int64(inv.Amount), int64(inv.ServiceCharges), string(inv.Status),
		nullTime(inv.DueAt), inv.IssuedAt, nullTime(inv.PaidAt))
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, invoiceID id.InvoiceID) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return scanInvoice(txcontext.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(invoiceID)))
}

func (s *PostgresStore) Update(ctx context.Context, inv *models.Invoice) error {
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx,
		`UPDATE invoices SET status = $2, paid_at = $3 WHERE id = $1`,
		uuid.UUID(inv.ID), string(inv.Status), nullTime(inv.PaidAt))
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return postgres.RequireAffected(res)
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]*models.Invoice, error) {
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
	if !f.IssuedSince.IsZero() {
		add("issued_at >= ?", f.IssuedSince)
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY issued_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ` + strconv.Itoa(f.Limit)
	}

	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	defer rows.Close()
	var out []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Totals(ctx context.Context, branchID id.BranchID) (Totals, error) {
	query := `
		SELECT COALESCE(SUM(amount_cents), 0),
		       COALESCE(SUM(amount_cents) FILTER (WHERE status IN ('pending', 'overdue')), 0)
		FROM invoices
		WHERE branch_id = $1 AND status <> 'void'
	`
	var invoiced, outstanding int64
	err := txcontext.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(branchID)).Scan(&invoiced, &outstanding)
	if err != nil {
		return Totals{}, fmt.Errorf("sum invoices: %w", err)
	}
	return Totals{Invoiced: id.Money(invoiced), Outstanding: id.Money(outstanding)}, nil
}

func nullUUID[T ~[16]byte](v *T) uuid.NullUUID {
	if v == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*v), Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func scanInvoice(row postgres.Scanner) (*models.Invoice, error) {
	var (
		inv                       models.Invoice
		invoiceID, userID, branch uuid.UUID
		reservationID, bookingID  uuid.NullUUID
		amount, service           int64
		status                    string
		dueAt, paidAt             sql.NullTime
	)
	err := row.Scan(&invoiceID, &userID, &branch, &reservationID, &bookingID, &amount, &service,
		&status, &dueAt, &inv.IssuedAt, &paidAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	inv.ID = id.InvoiceID(invoiceID)
	inv.UserID = id.UserID(userID)
	inv.BranchID = id.BranchID(branch)
	if reservationID.Valid {
		rid := id.ReservationID(reservationID.UUID)
		inv.ReservationID = &rid
	}
	if bookingID.Valid {
		bid := id.BookingID(bookingID.UUID)
		inv.BookingID = &bid
	}
	inv.Amount = id.Money(amount)
	inv.ServiceCharges = id.Money(service)
	inv.Status = models.InvoiceStatus(status)
	if dueAt.Valid {
		inv.DueAt = &dueAt.Time
	}
	if paidAt.Valid {
		inv.PaidAt = &paidAt.Time
	}
	return &inv, nil
}
