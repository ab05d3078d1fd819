package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aquacore/aquacore/internal/platform/httpx"
	"github.com/aquacore/aquacore/internal/rbac"
	"github.com/aquacore/aquacore/internal/sequence"
)

// EventPublisher fans lifecycle events out to the notification pipeline.
type EventPublisher interface {
	Publish(ctx context.Context, userID, customerID *uuid.UUID, title, body string) error
}

// Service wraps service-request business rules.
type Service struct {
	repo   Repository
	events EventPublisher
	now    func() time.Time
}

// NewService constructs a Service. events may be nil.
func NewService(repo Repository, events EventPublisher) *Service {
	return &Service{repo: repo, events: events, now: time.Now}
}

// CreateInput carries a validated create payload.
type CreateInput struct {
	CustomerID  uuid.UUID
	Type        string
	Description string
}

// List returns service requests visible to the principal with owner filters
// forced server-side.
func (s *Service) List(ctx context.Context, p *rbac.Principal, f ListFilter) ([]ServiceRequest, int, error) {
	if err := rbac.Authorize(p, rbac.ResourceService, rbac.ActionList, nil).Err(); err != nil {
		return nil, 0, err
	}
	switch p.Role {
	case rbac.RoleCustomer:
		f.CustomerID = p.CustomerID
		f.AssignedTo = nil
	case rbac.RoleTechnician:
		f.AssignedTo = &p.ID
		f.CustomerID = nil
	}
	if f.Status != "" && !rbac.IsValidServiceStatus(f.Status) {
		return nil, 0, httpx.Validationf("status is invalid")
	}
	return s.repo.List(ctx, f)
}

// Get returns one service request after an ownership-qualified read check.
func (s *Service) Get(ctx context.Context, p *rbac.Principal, id uuid.UUID) (*ServiceRequest, error) {
	sr, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rbac.Authorize(p, rbac.ResourceService, rbac.ActionRead, sr.target()).Err(); err != nil {
		return nil, err
	}
	return sr, nil
}

// Create registers a request with the next SRV number for the current
// month, retrying once when the storage constraint reports a conflict.
func (s *Service) Create(ctx context.Context, p *rbac.Principal, in CreateInput) (*ServiceRequest, error) {
	if err := rbac.Authorize(p, rbac.ResourceService, rbac.ActionCreate, nil).Err(); err != nil {
		return nil, err
	}
	if !IsValidType(in.Type) {
		return nil, httpx.Validationf("type is invalid")
	}
	if in.CustomerID == uuid.Nil {
		return nil, httpx.Validationf("customer_id is required")
	}
	if p.Role == rbac.RoleCustomer {
		if p.CustomerID == nil {
			return nil, httpx.ErrForbidden
		}
		in.CustomerID = *p.CustomerID
	}

	sr := &ServiceRequest{
		ID:          uuid.New(),
		CustomerID:  in.CustomerID,
		Type:        in.Type,
		Description: in.Description,
		Status:      rbac.ServicePending,
	}

	for attempt := 0; attempt < 2; attempt++ {
		now := s.now()
		last, err := s.repo.LastNumber(ctx, now)
		if err != nil {
			return nil, err
		}
		sr.Number, err = sequence.Next(last, sequence.PrefixService, now)
		if err != nil {
			return nil, fmt.Errorf("services: derive number: %w", err)
		}
		err = s.repo.Create(ctx, sr)
		if err == nil {
			s.publish(ctx, nil, &sr.CustomerID, "Service request registered",
				fmt.Sprintf("Service request %s has been registered.", sr.Number))
			return sr, nil
		}
		if !sequence.IsUniqueViolation(err) {
			return nil, fmt.Errorf("services: create: %w", err)
		}
	}
	return nil, httpx.ErrConflict
}

// Assign routes a request to a technician and moves it to assigned.
func (s *Service) Assign(ctx context.Context, p *rbac.Principal, id, technicianID uuid.UUID, scheduled *time.Time) (*ServiceRequest, error) {
	sr, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rbac.AuthorizeServiceStatus(p, sr.target(), rbac.ServiceAssigned).Err(); err != nil {
		return nil, err
	}
	if err := s.repo.Assign(ctx, id, technicianID, scheduled, rbac.ServiceAssigned); err != nil {
		return nil, err
	}
	s.publish(ctx, &technicianID, nil, "Service request assigned",
		fmt.Sprintf("Service request %s has been assigned to you.", sr.Number))
	return s.repo.Get(ctx, id)
}

// UpdateStatus applies a lifecycle transition after ownership and
// status-write checks.
func (s *Service) UpdateStatus(ctx context.Context, p *rbac.Principal, id uuid.UUID, status rbac.ServiceStatus) (*ServiceRequest, error) {
	sr, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rbac.AuthorizeServiceStatus(p, sr.target(), status).Err(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.publish(ctx, nil, &sr.CustomerID, "Service request updated",
		fmt.Sprintf("Service request %s is now %s.", sr.Number, status))
	return s.repo.Get(ctx, id)
}

// Delete removes a service request.
func (s *Service) Delete(ctx context.Context, p *rbac.Principal, id uuid.UUID) error {
	if err := rbac.Authorize(p, rbac.ResourceService, rbac.ActionDelete, nil).Err(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) publish(ctx context.Context, userID, customerID *uuid.UUID, title, body string) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, userID, customerID, title, body)
}
