package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/aquacore/aquacore/internal/platform/httpx"
	"github.com/aquacore/aquacore/internal/rbac"
)

// Service wraps account administration rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns profiles for administrative roles.
func (s *Service) List(ctx context.Context, p *rbac.Principal, f ListFilter) ([]User, int, error) {
	if err := rbac.Authorize(p, rbac.ResourceUser, rbac.ActionList, nil).Err(); err != nil {
		return nil, 0, err
	}
	if f.Role != "" && !rbac.IsValidRole(f.Role) {
		return nil, 0, httpx.Validationf("role is invalid")
	}
	return s.repo.List(ctx, f)
}

// Get returns one profile.
func (s *Service) Get(ctx context.Context, p *rbac.Principal, id uuid.UUID) (*User, error) {
	if err := rbac.Authorize(p, rbac.ResourceUser, rbac.ActionRead, nil).Err(); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// UpdateRole reassigns a profile's role. The new role must exist in the
// registry; an admin cannot demote their own account.
func (s *Service) UpdateRole(ctx context.Context, p *rbac.Principal, id uuid.UUID, role string) (*User, error) {
	if err := rbac.Authorize(p, rbac.ResourceUser, rbac.ActionUpdate, nil).Err(); err != nil {
		return nil, err
	}
	if !rbac.IsValidRole(role) {
		return nil, httpx.Validationf("role is invalid")
	}
	if p.ID == id {
		return nil, httpx.Validationf("cannot change own role")
	}
	if err := s.repo.UpdateRole(ctx, id, rbac.Role(role)); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// SetActive activates or deactivates a profile. Deactivated profiles fail
// authentication on their next request.
func (s *Service) SetActive(ctx context.Context, p *rbac.Principal, id uuid.UUID, active bool) (*User, error) {
	if err := rbac.Authorize(p, rbac.ResourceUser, rbac.ActionUpdate, nil).Err(); err != nil {
		return nil, err
	}
	if p.ID == id && !active {
		return nil, httpx.Validationf("cannot deactivate own account")
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}
