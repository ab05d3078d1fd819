package distributions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aquacore/aquacore/internal/platform/httpx"
	"github.com/aquacore/aquacore/internal/shared"
)

// Repository abstracts trip persistence.
type Repository interface {
	List(ctx context.Context, f ListFilter) ([]Distribution, int, error)
	Get(ctx context.Context, id uuid.UUID) (*Distribution, error)
	Create(ctx context.Context, d *Distribution) error
	Update(ctx context.Context, d *Distribution) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const distributionColumns = `id, driver_name, vehicle_number, zone, scheduled_date, volume_litres, status, created_at, updated_at`

func scanDistribution(row pgx.Row) (*Distribution, error) {
	var d Distribution
	err := row.Scan(&d.ID, &d.DriverName, &d.VehicleNumber, &d.Zone,
		&d.ScheduledDate, &d.VolumeLitres, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Distribution, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.Zone != "" {
		args = append(args, f.Zone)
		where += fmt.Sprintf(" AND zone = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM distributions"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("distributions: count: %w", err)
	}

	args = append(args, f.Limit, shared.Offset(f.Page, f.Limit))
	query := "SELECT " + distributionColumns + " FROM distributions" + where +
		fmt.Sprintf(" ORDER BY scheduled_date DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("distributions: list: %w", err)
	}
	defer rows.Close()

	var out []Distribution
	for rows.Next() {
		d, err := scanDistribution(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("distributions: scan: %w", err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("distributions: rows: %w", err)
	}
	return out, total, nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Distribution, error) {
	d, err := scanDistribution(r.pool.QueryRow(ctx,
		"SELECT "+distributionColumns+" FROM distributions WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("distributions: get: %w", err)
	}
	return d, nil
}

func (r *repository) Create(ctx context.Context, d *Distribution) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO distributions (id, driver_name, vehicle_number, zone, scheduled_date, volume_litres, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		d.ID, d.DriverName, d.VehicleNumber, d.Zone, d.ScheduledDate, d.VolumeLitres, d.Status,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("distributions: create: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, d *Distribution) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE distributions SET driver_name = $2, vehicle_number = $3, zone = $4,
			scheduled_date = $5, volume_litres = $6, status = $7, updated_at = now()
		WHERE id = $1`,
		d.ID, d.DriverName, d.VehicleNumber, d.Zone, d.ScheduledDate, d.VolumeLitres, d.Status)
	if err != nil {
		return fmt.Errorf("distributions: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM distributions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("distributions: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
