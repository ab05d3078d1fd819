package notifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/aquacore/aquacore/internal/rbac"
)

// Service wraps notification inbox rules. Every operation is owner-scoped;
// no role sees another user's inbox.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the principal's own notifications.
func (s *Service) List(ctx context.Context, p *rbac.Principal, f ListFilter) ([]Notification, int, error) {
	if err := rbac.Authorize(p, rbac.ResourceNotification, rbac.ActionList, nil).Err(); err != nil {
		return nil, 0, err
	}
	f.UserID = p.ID
	return s.repo.List(ctx, f)
}

// Get returns one notification after the owner check.
func (s *Service) Get(ctx context.Context, p *rbac.Principal, id uuid.UUID) (*Notification, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rbac.Authorize(p, rbac.ResourceNotification, rbac.ActionRead, n.target()).Err(); err != nil {
		return nil, err
	}
	return n, nil
}

// MarkRead flags one notification as read after the owner check.
func (s *Service) MarkRead(ctx context.Context, p *rbac.Principal, id uuid.UUID) (*Notification, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rbac.Authorize(p, rbac.ResourceNotification, rbac.ActionUpdate, n.target()).Err(); err != nil {
		return nil, err
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return nil, err
	}
	n.Read = true
	return n, nil
}

// MarkAllRead flags the principal's whole inbox as read.
func (s *Service) MarkAllRead(ctx context.Context, p *rbac.Principal) error {
	if err := rbac.Authorize(p, rbac.ResourceNotification, rbac.ActionUpdate, nil).Err(); err != nil {
		return err
	}
	return s.repo.MarkAllRead(ctx, p.ID)
}
