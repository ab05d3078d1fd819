package notifications

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

// Repository abstracts notification persistence. Create and
// UserIDForCustomer serve the background worker; the rest serve the API.
type Repository interface {
	List(ctx context.Context, f ListFilter) ([]Notification, int, error)
	Get(ctx context.Context, id uuid.UUID) (*Notification, error)
	Create(ctx context.Context, n *Notification) error
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	UserIDForCustomer(ctx context.Context, customerID uuid.UUID) (uuid.UUID, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const notificationColumns = `id, user_id, title, body, read, created_at`

func scanNotification(row pgx.Row) (*Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.Read, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Notification, int, error) {
	where := " WHERE user_id = $1"
	args := []any{f.UserID}
	if f.UnreadOnly {
		where += " AND read = false"
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM notifications"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("notifications: count: %w", err)
	}

	args = append(args, f.Limit, shared.Offset(f.Page, f.Limit))
	query := "SELECT " + notificationColumns + " FROM notifications" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("notifications: list: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("notifications: scan: %w", err)
		}
		out = append(out, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("notifications: rows: %w", err)
	}
	return out, total, nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Notification, error) {
	n, err := scanNotification(r.pool.QueryRow(ctx,
		"SELECT "+notificationColumns+" FROM notifications WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("notifications: get: %w", err)
	}
	return n, nil
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (id, user_id, title, body, read)
		VALUES ($1, $2, $3, $4, false)
		RETURNING created_at`,
		n.ID, n.UserID, n.Title, n.Body,
	).Scan(&n.CreatedAt)
	if err != nil {
		return fmt.Errorf("notifications: create: %w", err)
	}
	return nil
}

func (r *repository) MarkRead(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("notifications: mark read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read = true WHERE user_id = $1 AND read = false`, userID)
	if err != nil {
		return fmt.Errorf("notifications: mark all read: %w", err)
	}
	return nil
}

// UserIDForCustomer maps a customer account to the profile that owns it so
// customer-addressed events land in the right inbox.
func (r *repository) UserIDForCustomer(ctx context.Context, customerID uuid.UUID) (uuid.UUID, error) {
	var userID uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM profiles WHERE customer_id = $1`, customerID,
	).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, httpx.ErrNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("notifications: user for customer: %w", err)
	}
	return userID, nil
}
