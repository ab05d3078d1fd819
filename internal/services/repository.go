package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aquacore/aquacore/internal/platform/httpx"
	"github.com/aquacore/aquacore/internal/rbac"
	"github.com/aquacore/aquacore/internal/shared"
)

// Repository abstracts service request persistence.
type Repository interface {
	List(ctx context.Context, f ListFilter) ([]ServiceRequest, int, error)
	Get(ctx context.Context, id uuid.UUID) (*ServiceRequest, error)
	Create(ctx context.Context, sr *ServiceRequest) error
	LastNumber(ctx context.Context, scope time.Time) (string, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status rbac.ServiceStatus) error
	Assign(ctx context.Context, id, technicianID uuid.UUID, scheduled *time.Time, status rbac.ServiceStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const requestColumns = `id, service_no, customer_id, type, description, status, assigned_to, scheduled_date, created_at, updated_at`

func scanRequest(row pgx.Row) (*ServiceRequest, error) {
	var sr ServiceRequest
	err := row.Scan(&sr.ID, &sr.Number, &sr.CustomerID, &sr.Type, &sr.Description,
		&sr.Status, &sr.AssignedTo, &sr.ScheduledDate, &sr.CreatedAt, &sr.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sr, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]ServiceRequest, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.CustomerID != nil {
		args = append(args, *f.CustomerID)
		where += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	if f.AssignedTo != nil {
		args = append(args, *f.AssignedTo)
		where += fmt.Sprintf(" AND assigned_to = $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM service_requests"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("services: count: %w", err)
	}

	args = append(args, f.Limit, shared.Offset(f.Page, f.Limit))
	query := "SELECT " + requestColumns + " FROM service_requests" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("services: list: %w", err)
	}
	defer rows.Close()

	var out []ServiceRequest
	for rows.Next() {
		sr, err := scanRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("services: scan: %w", err)
		}
		out = append(out, *sr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("services: rows: %w", err)
	}
	return out, total, nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*ServiceRequest, error) {
	sr, err := scanRequest(r.pool.QueryRow(ctx,
		"SELECT "+requestColumns+" FROM service_requests WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("services: get: %w", err)
	}
	return sr, nil
}

func (r *repository) Create(ctx context.Context, sr *ServiceRequest) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO service_requests (id, service_no, customer_id, type, description, status, assigned_to, scheduled_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		sr.ID, sr.Number, sr.CustomerID, sr.Type, sr.Description, sr.Status, sr.AssignedTo, sr.ScheduledDate,
	).Scan(&sr.CreatedAt, &sr.UpdatedAt)
}

func (r *repository) LastNumber(ctx context.Context, scope time.Time) (string, error) {
	prefix := fmt.Sprintf("SRV%04d%02d", scope.Year(), int(scope.Month()))
	var last string
	err := r.pool.QueryRow(ctx,
		`SELECT service_no FROM service_requests WHERE service_no LIKE $1 || '%' ORDER BY service_no DESC LIMIT 1`,
		prefix,
	).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("services: last number: %w", err)
	}
	return last, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status rbac.ServiceStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE service_requests SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("services: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Assign(ctx context.Context, id, technicianID uuid.UUID, scheduled *time.Time, status rbac.ServiceStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE service_requests SET assigned_to = $2, scheduled_date = COALESCE($3, scheduled_date), status = $4, updated_at = now() WHERE id = $1`,
		id, technicianID, scheduled, status)
	if err != nil {
		return fmt.Errorf("services: assign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM service_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("services: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
