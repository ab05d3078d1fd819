package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aquacore/aquacore/internal/platform/db"
	"github.com/aquacore/aquacore/internal/platform/httpx"
	"github.com/aquacore/aquacore/internal/shared"
)

// Repository abstracts invoice persistence.
type Repository interface {
	List(ctx context.Context, f ListFilter) ([]Invoice, int, error)
	Get(ctx context.Context, id uuid.UUID) (*Invoice, error)
	Create(ctx context.Context, inv *Invoice) error
	Update(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	RecordPayment(ctx context.Context, pay *Payment, paidAt time.Time) error
	CountAll(ctx context.Context) (int, error)
	SumAll(ctx context.Context) (float64, error)
	SumByStatus(ctx context.Context, statuses ...string) (float64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const invoiceColumns = `id, customer_id, amount, description, due_date, status, paid_at, created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.CustomerID, &inv.Amount, &inv.Description,
		&inv.DueDate, &inv.Status, &inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Invoice, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.CustomerID != nil {
		args = append(args, *f.CustomerID)
		where += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM invoices"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("invoices: count: %w", err)
	}

	args = append(args, f.Limit, shared.Offset(f.Page, f.Limit))
	query := "SELECT " + invoiceColumns + " FROM invoices" + where +
		fmt.Sprintf(" ORDER BY due_date DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("invoices: list: %w", err)
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("invoices: scan: %w", err)
		}
		out = append(out, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("invoices: rows: %w", err)
	}
	return out, total, nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := scanInvoice(r.pool.QueryRow(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("invoices: get: %w", err)
	}
	return inv, nil
}

func (r *repository) Create(ctx context.Context, inv *Invoice) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO invoices (id, customer_id, amount, description, due_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		inv.ID, inv.CustomerID, inv.Amount, inv.Description, inv.DueDate, inv.Status,
	).Scan(&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("invoices: create: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, inv *Invoice) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE invoices SET amount = $2, description = $3, due_date = $4,
			status = $5, paid_at = $6, updated_at = now()
		WHERE id = $1`,
		inv.ID, inv.Amount, inv.Description, inv.DueDate, inv.Status, inv.PaidAt)
	if err != nil {
		return fmt.Errorf("invoices: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("invoices: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// RecordPayment inserts the payment row and marks the invoice paid inside
// one transaction. The status flip is guarded so a concurrent payment that
// already marked the invoice paid rolls this one back with a conflict.
func (r *repository) RecordPayment(ctx context.Context, pay *Payment, paidAt time.Time) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO payments (id, invoice_id, amount, method, reference)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at`,
			pay.ID, pay.InvoiceID, pay.Amount, pay.Method, pay.Reference,
		).Scan(&pay.CreatedAt)
		if err != nil {
			return fmt.Errorf("invoices: insert payment: %w", err)
		}
		tag, err := tx.Exec(ctx, `
			UPDATE invoices SET status = $2, paid_at = $3, updated_at = now()
			WHERE id = $1 AND status <> $2`,
			pay.InvoiceID, StatusPaid, paidAt)
		if err != nil {
			return fmt.Errorf("invoices: mark paid: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return httpx.ErrConflict
		}
		return nil
	})
}

func (r *repository) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM invoices`).Scan(&n); err != nil {
		return 0, fmt.Errorf("invoices: count all: %w", err)
	}
	return n, nil
}

func (r *repository) SumAll(ctx context.Context) (float64, error) {
	var sum float64
	if err := r.pool.QueryRow(ctx, `SELECT COALESCE(sum(amount), 0) FROM invoices`).Scan(&sum); err != nil {
		return 0, fmt.Errorf("invoices: sum all: %w", err)
	}
	return sum, nil
}

func (r *repository) SumByStatus(ctx context.Context, statuses ...string) (float64, error) {
	var sum float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(sum(amount), 0) FROM invoices WHERE status = ANY($1)`, statuses,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("invoices: sum by status: %w", err)
	}
	return sum, nil
}
