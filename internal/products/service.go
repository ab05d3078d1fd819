package products

import (
	"context"

	"github.com/google/uuid"

	"github.com/aquacore/aquacore/internal/platform/httpx"
	"github.com/aquacore/aquacore/internal/rbac"
)

// Service wraps product catalogue business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries a validated create payload.
type CreateInput struct {
	Name          string
	Category      string
	Description   string
	UnitPrice     float64
	StockQuantity int
	ReorderLevel  int
}

// UpdateInput carries a validated update payload. Nil fields keep the
// stored value.
type UpdateInput struct {
	Name          string
	Category      string
	Description   string
	UnitPrice     *float64
	StockQuantity *int
	ReorderLevel  *int
}

// List returns catalogue items.
func (s *Service) List(ctx context.Context, p *rbac.Principal, f ListFilter) ([]Product, int, error) {
	if err := rbac.Authorize(p, rbac.ResourceProduct, rbac.ActionList, nil).Err(); err != nil {
		return nil, 0, err
	}
	if f.Category != "" && !IsValidCategory(f.Category) {
		return nil, 0, httpx.Validationf("category is invalid")
	}
	return s.repo.List(ctx, f)
}

// Get returns one catalogue item.
func (s *Service) Get(ctx context.Context, p *rbac.Principal, id uuid.UUID) (*Product, error) {
	if err := rbac.Authorize(p, rbac.ResourceProduct, rbac.ActionRead, nil).Err(); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Create registers a catalogue item.
func (s *Service) Create(ctx context.Context, p *rbac.Principal, in CreateInput) (*Product, error) {
	if err := rbac.Authorize(p, rbac.ResourceProduct, rbac.ActionCreate, nil).Err(); err != nil {
		return nil, err
	}
	if !IsValidCategory(in.Category) {
		return nil, httpx.Validationf("category is invalid")
	}
	if in.UnitPrice < 0 {
		return nil, httpx.Validationf("unit_price must not be negative")
	}
	if in.StockQuantity < 0 {
		return nil, httpx.Validationf("stock_quantity must not be negative")
	}
	product := &Product{
		ID:            uuid.New(),
		Name:          in.Name,
		Category:      in.Category,
		Description:   in.Description,
		UnitPrice:     in.UnitPrice,
		StockQuantity: in.StockQuantity,
		ReorderLevel:  in.ReorderLevel,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update overwrites catalogue fields present in the input.
func (s *Service) Update(ctx context.Context, p *rbac.Principal, id uuid.UUID, in UpdateInput) (*Product, error) {
	if err := rbac.Authorize(p, rbac.ResourceProduct, rbac.ActionUpdate, nil).Err(); err != nil {
		return nil, err
	}
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		product.Name = in.Name
	}
	if in.Category != "" {
		if !IsValidCategory(in.Category) {
			return nil, httpx.Validationf("category is invalid")
		}
		product.Category = in.Category
	}
	if in.Description != "" {
		product.Description = in.Description
	}
	if in.UnitPrice != nil {
		if *in.UnitPrice < 0 {
			return nil, httpx.Validationf("unit_price must not be negative")
		}
		product.UnitPrice = *in.UnitPrice
	}
	if in.StockQuantity != nil {
		if *in.StockQuantity < 0 {
			return nil, httpx.Validationf("stock_quantity must not be negative")
		}
		product.StockQuantity = *in.StockQuantity
	}
	if in.ReorderLevel != nil {
		if *in.ReorderLevel < 0 {
			return nil, httpx.Validationf("reorder_level must not be negative")
		}
		product.ReorderLevel = *in.ReorderLevel
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a catalogue item.
func (s *Service) Delete(ctx context.Context, p *rbac.Principal, id uuid.UUID) error {
	if err := rbac.Authorize(p, rbac.ResourceProduct, rbac.ActionDelete, nil).Err(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
