package complaints

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

// Service wraps complaint business rules: authorization, owner filtering,
// document numbering and lifecycle transitions.
type Service struct {
	repo   Repository
	events EventPublisher
	now    func() time.Time
}

// NewService constructs a Service. events may be nil when no notification
// pipeline is wired (tests, CLI tooling).
func NewService(repo Repository, events EventPublisher) *Service {
	return &Service{repo: repo, events: events, now: time.Now}
}

// CreateInput carries a validated create payload.
type CreateInput struct {
	CustomerID  uuid.UUID
	Title       string
	Description string
	Category    string
}

// List returns complaints visible to the principal. Owner-scoped roles get
// their filter forced server-side regardless of client input.
func (s *Service) List(ctx context.Context, p *rbac.Principal, f ListFilter) ([]Complaint, int, error) {
	if err := rbac.Authorize(p, rbac.ResourceComplaint, rbac.ActionList, nil).Err(); err != nil {
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
	if f.Status != "" && !rbac.IsValidComplaintStatus(f.Status) {
		return nil, 0, httpx.Validationf("status is invalid")
	}
	return s.repo.List(ctx, f)
}

// Get returns one complaint after an ownership-qualified read check.
func (s *Service) Get(ctx context.Context, p *rbac.Principal, id uuid.UUID) (*Complaint, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rbac.Authorize(p, rbac.ResourceComplaint, rbac.ActionRead, c.target()).Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// Create registers a complaint with the next CMP number for the current
// month. On a storage uniqueness conflict the number is re-derived once;
// a second conflict surfaces as ErrConflict.
func (s *Service) Create(ctx context.Context, p *rbac.Principal, in CreateInput) (*Complaint, error) {
	if err := rbac.Authorize(p, rbac.ResourceComplaint, rbac.ActionCreate, nil).Err(); err != nil {
		return nil, err
	}
	if !IsValidCategory(in.Category) {
		return nil, httpx.Validationf("category is invalid")
	}
	if in.CustomerID == uuid.Nil {
		return nil, httpx.Validationf("customer_id is required")
	}
	if p.Role == rbac.RoleCustomer {
		// The owning customer is always the caller; the payload value is
		// not trusted.
		if p.CustomerID == nil {
			return nil, httpx.ErrForbidden
		}
		in.CustomerID = *p.CustomerID
	}

	c := &Complaint{
		ID:          uuid.New(),
		CustomerID:  in.CustomerID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Status:      rbac.ComplaintOpen,
	}

	for attempt := 0; attempt < 2; attempt++ {
		now := s.now()
		last, err := s.repo.LastNumber(ctx, now)
		if err != nil {
			return nil, err
		}
		c.Number, err = sequence.Next(last, sequence.PrefixComplaint, now)
		if err != nil {
			return nil, fmt.Errorf("complaints: derive number: %w", err)
		}
		err = s.repo.Create(ctx, c)
		if err == nil {
			s.publish(ctx, nil, &c.CustomerID, "Complaint registered",
				fmt.Sprintf("Complaint %s has been registered.", c.Number))
			return c, nil
		}
		if !sequence.IsUniqueViolation(err) {
			return nil, fmt.Errorf("complaints: create: %w", err)
		}
	}
	return nil, httpx.ErrConflict
}

// Assign routes a complaint to a technician and moves it to assigned.
func (s *Service) Assign(ctx context.Context, p *rbac.Principal, id, technicianID uuid.UUID) (*Complaint, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rbac.AuthorizeComplaintStatus(p, c.target(), rbac.ComplaintAssigned).Err(); err != nil {
		return nil, err
	}
	if err := s.repo.Assign(ctx, id, technicianID, rbac.ComplaintAssigned); err != nil {
		return nil, err
	}
	s.publish(ctx, &technicianID, nil, "Complaint assigned",
		fmt.Sprintf("Complaint %s has been assigned to you.", c.Number))
	return s.repo.Get(ctx, id)
}

// UpdateStatus applies a lifecycle transition after the ownership and
// status-write checks.
func (s *Service) UpdateStatus(ctx context.Context, p *rbac.Principal, id uuid.UUID, status rbac.ComplaintStatus) (*Complaint, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rbac.AuthorizeComplaintStatus(p, c.target(), status).Err(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.publish(ctx, nil, &c.CustomerID, "Complaint updated",
		fmt.Sprintf("Complaint %s is now %s.", c.Number, status))
	return s.repo.Get(ctx, id)
}

// Delete removes a complaint; only roles with a delete grant reach this.
func (s *Service) Delete(ctx context.Context, p *rbac.Principal, id uuid.UUID) error {
	if err := rbac.Authorize(p, rbac.ResourceComplaint, rbac.ActionDelete, nil).Err(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) publish(ctx context.Context, userID, customerID *uuid.UUID, title, body string) {
	if s.events == nil {
		return
	}
	// Delivery is best effort; the write already committed.
	_ = s.events.Publish(ctx, userID, customerID, title, body)
}
