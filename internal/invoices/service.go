package invoices

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/aquacore/aquacore/internal/platform/httpx"
	"github.com/aquacore/aquacore/internal/rbac"
)

// Service wraps billing business rules.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateInput carries a validated create payload.
type CreateInput struct {
	CustomerID  uuid.UUID
	Amount      float64
	Description string
	DueDate     time.Time
}

// UpdateInput carries a validated update payload. Nil fields keep the
// stored value.
type UpdateInput struct {
	Amount      *float64
	Description string
	DueDate     *time.Time
	Status      string
}

// PaymentInput carries a validated payment payload.
type PaymentInput struct {
	Amount    float64
	Method    string
	Reference string
}

// List returns invoices visible to the principal with the owner filter
// forced server-side for the customer role.
func (s *Service) List(ctx context.Context, p *rbac.Principal, f ListFilter) ([]Invoice, int, error) {
	if err := rbac.Authorize(p, rbac.ResourceInvoice, rbac.ActionList, nil).Err(); err != nil {
		return nil, 0, err
	}
	if p.Role == rbac.RoleCustomer {
		f.CustomerID = p.CustomerID
	}
	if f.Status != "" && !IsValidStatus(f.Status) {
		return nil, 0, httpx.Validationf("status is invalid")
	}
	return s.repo.List(ctx, f)
}

// Get returns one invoice after an ownership-qualified read check.
func (s *Service) Get(ctx context.Context, p *rbac.Principal, id uuid.UUID) (*Invoice, error) {
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rbac.Authorize(p, rbac.ResourceInvoice, rbac.ActionRead, inv.target()).Err(); err != nil {
		return nil, err
	}
	return inv, nil
}

// Create issues an invoice in the unpaid state.
func (s *Service) Create(ctx context.Context, p *rbac.Principal, in CreateInput) (*Invoice, error) {
	if err := rbac.Authorize(p, rbac.ResourceInvoice, rbac.ActionCreate, nil).Err(); err != nil {
		return nil, err
	}
	if in.Amount <= 0 {
		return nil, httpx.Validationf("amount must be greater than zero")
	}
	inv := &Invoice{
		ID:          uuid.New(),
		CustomerID:  in.CustomerID,
		Amount:      in.Amount,
		Description: in.Description,
		DueDate:     in.DueDate,
		Status:      StatusUnpaid,
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Update overwrites invoice fields present in the input.
func (s *Service) Update(ctx context.Context, p *rbac.Principal, id uuid.UUID, in UpdateInput) (*Invoice, error) {
	if err := rbac.Authorize(p, rbac.ResourceInvoice, rbac.ActionUpdate, nil).Err(); err != nil {
		return nil, err
	}
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Amount != nil {
		if *in.Amount <= 0 {
			return nil, httpx.Validationf("amount must be greater than zero")
		}
		inv.Amount = *in.Amount
	}
	if in.Description != "" {
		inv.Description = in.Description
	}
	if in.DueDate != nil {
		inv.DueDate = *in.DueDate
	}
	if in.Status != "" {
		if !IsValidStatus(in.Status) {
			return nil, httpx.Validationf("status is invalid")
		}
		inv.Status = in.Status
	}
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Delete removes an invoice.
func (s *Service) Delete(ctx context.Context, p *rbac.Principal, id uuid.UUID) error {
	if err := rbac.Authorize(p, rbac.ResourceInvoice, rbac.ActionDelete, nil).Err(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// RecordPayment marks an invoice paid and stores the payment row. Paying an
// already-paid invoice is rejected.
func (s *Service) RecordPayment(ctx context.Context, p *rbac.Principal, id uuid.UUID, in PaymentInput) (*Payment, error) {
	if err := rbac.Authorize(p, rbac.ResourceInvoice, rbac.ActionUpdate, nil).Err(); err != nil {
		return nil, err
	}
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == StatusPaid {
		return nil, httpx.ErrConflict
	}
	if in.Amount <= 0 {
		return nil, httpx.Validationf("amount must be greater than zero")
	}
	if !IsValidMethod(in.Method) {
		return nil, httpx.Validationf("method is invalid")
	}
	pay := &Payment{
		ID:        uuid.New(),
		InvoiceID: inv.ID,
		Amount:    in.Amount,
		Method:    in.Method,
		Reference: in.Reference,
	}
	if err := s.repo.RecordPayment(ctx, pay, s.now()); err != nil {
		return nil, err
	}
	return pay, nil
}

// Stats aggregates billing totals through parallel queries. Any sub-query
// failure fails the whole request; partial figures are never returned.
func (s *Service) Stats(ctx context.Context, p *rbac.Principal) (*Stats, error) {
	if p == nil || !p.Active {
		return nil, httpx.ErrUnauthenticated
	}
	if rbac.GrantFor(p.Role, rbac.ResourceInvoice, rbac.ActionList) != rbac.EffectAllow {
		return nil, httpx.ErrForbidden
	}

	var st Stats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.CountAll(ctx)
		st.TotalInvoices = n
		return err
	})
	g.Go(func() error {
		sum, err := s.repo.SumAll(ctx)
		st.TotalBilled = sum
		return err
	})
	g.Go(func() error {
		sum, err := s.repo.SumByStatus(ctx, StatusPaid)
		st.Collected = sum
		return err
	})
	g.Go(func() error {
		sum, err := s.repo.SumByStatus(ctx, StatusUnpaid, StatusOverdue)
		st.Outstanding = sum
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &st, nil
}
