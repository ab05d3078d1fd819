package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aquacore/aquacore/internal/platform/httpx"
	"github.com/aquacore/aquacore/internal/rbac"
)

// ProfileRepository loads profile records keyed by the identity provider's
// subject id.
type ProfileRepository interface {
	FindBySubject(ctx context.Context, subject string) (*rbac.Principal, error)
}

// Repository provides PostgreSQL backed profile lookup.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindBySubject loads the profile record for a verified identity. Returns
// httpx.ErrNotFound when no profile exists; any other error is an
// infrastructure failure.
func (r *Repository) FindBySubject(ctx context.Context, subject string) (*rbac.Principal, error) {
	var p rbac.Principal
	var role string
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, role, is_active, customer_id FROM profiles WHERE subject = $1`,
		subject,
	).Scan(&p.ID, &p.Email, &role, &p.Active, &p.CustomerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("auth: find profile: %w", err)
	}
	if !rbac.IsValidRole(role) {
		// A profile carrying an unknown role tag is a data defect; treat the
		// principal as unauthenticated rather than fabricating a role.
		return nil, httpx.ErrNotFound
	}
	p.Role = rbac.Role(role)
	return &p, nil
}
