// Package dashboard aggregates operational counters for back-office
// overview screens.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs the aggregate queries behind the overview stats.
type Repository interface {
	CountCustomers(ctx context.Context) (int, error)
	CountOpenComplaints(ctx context.Context) (int, error)
	CountPendingServices(ctx context.Context) (int, error)
	CountLowStockProducts(ctx context.Context) (int, error)
	MonthlyRevenue(ctx context.Context, month time.Time) (float64, error)
	CountScheduledDistributions(ctx context.Context) (int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) countRow(ctx context.Context, label, query string, args ...any) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("dashboard: %s: %w", label, err)
	}
	return n, nil
}

func (r *repository) CountCustomers(ctx context.Context) (int, error) {
	return r.countRow(ctx, "customers",
		`SELECT count(*) FROM customers WHERE status = 'active'`)
}

func (r *repository) CountOpenComplaints(ctx context.Context) (int, error) {
	return r.countRow(ctx, "open complaints",
		`SELECT count(*) FROM complaints WHERE status NOT IN ('resolved', 'closed')`)
}

func (r *repository) CountPendingServices(ctx context.Context) (int, error) {
	return r.countRow(ctx, "pending services",
		`SELECT count(*) FROM service_requests WHERE status IN ('pending', 'assigned')`)
}

func (r *repository) CountLowStockProducts(ctx context.Context) (int, error) {
	return r.countRow(ctx, "low stock products",
		`SELECT count(*) FROM products WHERE stock_quantity <= reorder_level`)
}

func (r *repository) MonthlyRevenue(ctx context.Context, month time.Time) (float64, error) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	var sum float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(sum(amount), 0) FROM payments
		WHERE created_at >= $1 AND created_at < $2`, start, end,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("dashboard: monthly revenue: %w", err)
	}
	return sum, nil
}

func (r *repository) CountScheduledDistributions(ctx context.Context) (int, error) {
	return r.countRow(ctx, "scheduled distributions",
		`SELECT count(*) FROM distributions WHERE status = 'scheduled'`)
}
