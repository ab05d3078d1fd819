package complaints

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

// Repository abstracts complaint persistence.
type Repository interface {
	List(ctx context.Context, f ListFilter) ([]Complaint, int, error)
	Get(ctx context.Context, id uuid.UUID) (*Complaint, error)
	Create(ctx context.Context, c *Complaint) error
	LastNumber(ctx context.Context, scope time.Time) (string, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status rbac.ComplaintStatus) error
	Assign(ctx context.Context, id, technicianID uuid.UUID, status rbac.ComplaintStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const complaintColumns = `id, complaint_no, customer_id, title, description, category, status, assigned_to, created_at, updated_at`

func scanComplaint(row pgx.Row) (*Complaint, error) {
	var c Complaint
	err := row.Scan(&c.ID, &c.Number, &c.CustomerID, &c.Title, &c.Description,
		&c.Category, &c.Status, &c.AssignedTo, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Complaint, int, error) {
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
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM complaints"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("complaints: count: %w", err)
	}

	args = append(args, f.Limit, shared.Offset(f.Page, f.Limit))
	query := "SELECT " + complaintColumns + " FROM complaints" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("complaints: list: %w", err)
	}
	defer rows.Close()

	var out []Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("complaints: scan: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("complaints: rows: %w", err)
	}
	return out, total, nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Complaint, error) {
	c, err := scanComplaint(r.pool.QueryRow(ctx,
		"SELECT "+complaintColumns+" FROM complaints WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("complaints: get: %w", err)
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, c *Complaint) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO complaints (id, complaint_no, customer_id, title, description, category, status, assigned_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		c.ID, c.Number, c.CustomerID, c.Title, c.Description, c.Category, c.Status, c.AssignedTo,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *repository) LastNumber(ctx context.Context, scope time.Time) (string, error) {
	prefix := fmt.Sprintf("CMP%04d%02d", scope.Year(), int(scope.Month()))
	var last string
	err := r.pool.QueryRow(ctx,
		`SELECT complaint_no FROM complaints WHERE complaint_no LIKE $1 || '%' ORDER BY complaint_no DESC LIMIT 1`,
		prefix,
	).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("complaints: last number: %w", err)
	}
	return last, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status rbac.ComplaintStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE complaints SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("complaints: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Assign(ctx context.Context, id, technicianID uuid.UUID, status rbac.ComplaintStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE complaints SET assigned_to = $2, status = $3, updated_at = now() WHERE id = $1`,
		id, technicianID, status)
	if err != nil {
		return fmt.Errorf("complaints: assign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("complaints: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
