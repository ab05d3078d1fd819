package customers

import (
	"context"

	"github.com/google/uuid"

	"github.com/aquacore/aquacore/internal/platform/httpx"
	"github.com/aquacore/aquacore/internal/rbac"
)

// Service wraps customer account business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries a validated create payload.
type CreateInput struct {
	Name        string
	Email       string
	Phone       string
	Address     string
	Zone        string
	MeterNumber string
}

// UpdateInput carries a validated update payload. Empty fields keep the
// stored value.
type UpdateInput struct {
	Name        string
	Email       string
	Phone       string
	Address     string
	Zone        string
	MeterNumber string
	Status      string
}

// List returns customer accounts for back-office roles.
func (s *Service) List(ctx context.Context, p *rbac.Principal, f ListFilter) ([]Customer, int, error) {
	if err := rbac.Authorize(p, rbac.ResourceCustomer, rbac.ActionList, nil).Err(); err != nil {
		return nil, 0, err
	}
	if f.Status != "" && !IsValidStatus(f.Status) {
		return nil, 0, httpx.Validationf("status is invalid")
	}
	return s.repo.List(ctx, f)
}

// Get returns one account. Customers may only read their own record.
func (s *Service) Get(ctx context.Context, p *rbac.Principal, id uuid.UUID) (*Customer, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	target := &rbac.Target{CustomerID: &c.ID}
	if err := rbac.Authorize(p, rbac.ResourceCustomer, rbac.ActionRead, target).Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// Create registers a new account in the active state.
func (s *Service) Create(ctx context.Context, p *rbac.Principal, in CreateInput) (*Customer, error) {
	if err := rbac.Authorize(p, rbac.ResourceCustomer, rbac.ActionCreate, nil).Err(); err != nil {
		return nil, err
	}
	c := &Customer{
		ID:          uuid.New(),
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Address:     in.Address,
		Zone:        in.Zone,
		MeterNumber: in.MeterNumber,
		Status:      StatusActive,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update overwrites account fields present in the input.
func (s *Service) Update(ctx context.Context, p *rbac.Principal, id uuid.UUID, in UpdateInput) (*Customer, error) {
	if err := rbac.Authorize(p, rbac.ResourceCustomer, rbac.ActionUpdate, nil).Err(); err != nil {
		return nil, err
	}
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		c.Name = in.Name
	}
	if in.Email != "" {
		c.Email = in.Email
	}
	if in.Phone != "" {
		c.Phone = in.Phone
	}
	if in.Address != "" {
		c.Address = in.Address
	}
	if in.Zone != "" {
		c.Zone = in.Zone
	}
	if in.MeterNumber != "" {
		c.MeterNumber = in.MeterNumber
	}
	if in.Status != "" {
		if !IsValidStatus(in.Status) {
			return nil, httpx.Validationf("status is invalid")
		}
		c.Status = in.Status
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, p *rbac.Principal, id uuid.UUID) error {
	if err := rbac.Authorize(p, rbac.ResourceCustomer, rbac.ActionDelete, nil).Err(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
