package payment

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"hotelchain/internal/billing/models"
	"hotelchain/internal/platform/postgres"
	id "hotelchain/pkg/domain"
	txcontext "hotelchain/pkg/platform/tx"
)

// PostgresStore persists payments in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const paymentColumns = `id, user_id, branch_id, reservation_id, booking_id, invoice_id, amount_cents,
	method, card_last_four, cardholder_name, status, created_at`

func (s *PostgresStore) Create(ctx context.Context, p *models.Payment) error {
	query := `INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(p.ID), uuid.UUID(p.UserID), uuid.UUID(p.BranchID),
		nullUUID(p.ReservationID), nullUUID(p.BookingID), nullUUID(p.InvoiceID),
		int64(p.Amount), string(p.Method), p.CardLastFour, p.CardholderName,
		string(p.Status), p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, p *models.Payment) error {
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx,
		`UPDATE payments SET amount_cents = $2, status = $3 WHERE id = $1`,
		uuid.UUID(p.ID), int64(p.Amount), string(p.Status))
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return postgres.RequireAffected(res)
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]*models.Payment, error) {
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
	if !f.ReservationID.IsNil() {
		add("reservation_id = ?", uuid.UUID(f.ReservationID))
	}
	if f.Status != "" {
		add("status = ?", string(f.Status))
	}
	if !f.Since.IsZero() {
		add("created_at >= ?", f.Since)
	}
	query := `SELECT ` + paymentColumns + ` FROM payments`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ` + strconv.Itoa(f.Limit)
	}

	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()
	var out []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SumCompleted(ctx context.Context, branchID id.BranchID) (id.Money, error) {
	var total int64
	err := txcontext.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE branch_id = $1 AND status = 'completed'`,
		uuid.UUID(branchID)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum payments: %w", err)
	}
	return id.Money(total), nil
}

func nullUUID[T ~[16]byte](v *T) uuid.NullUUID {
	if v == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*v), Valid: true}
}

func scanPayment(row postgres.Scanner) (*models.Payment, error) {
	var (
		p                                   models.Payment
		paymentID, userID, branchID         uuid.UUID
		reservationID, bookingID, invoiceID uuid.NullUUID
		amount                              int64
		method, status                      string
	)
	err := row.Scan(&paymentID, &userID, &branchID, &reservationID, &bookingID, &invoiceID, &amount,
		&method, &p.CardLastFour, &p.CardholderName, &status, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	p.ID = id.PaymentID(paymentID)
	p.UserID = id.UserID(userID)
	p.BranchID = id.BranchID(branchID)
	if reservationID.Valid {
		v := id.ReservationID(reservationID.UUID)
		p.ReservationID = &v
	}
	if bookingID.Valid {
		v := id.BookingID(bookingID.UUID)
		p.BookingID = &v
	}
	if invoiceID.Valid {
		v := id.InvoiceID(invoiceID.UUID)
		p.InvoiceID = &v
	}
	p.Amount = id.Money(amount)
	p.Method = models.PaymentMethod(method)
	p.Status = models.PaymentStatus(status)
	return &p, nil
}
