package distributions

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aquacore/aquacore/internal/platform/httpx"
	"github.com/aquacore/aquacore/internal/rbac"
)

// Service wraps fleet trip business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries a validated create payload.
type CreateInput struct {
	DriverName    string
	VehicleNumber string
	Zone          string
	ScheduledDate time.Time
	VolumeLitres  int
}

// UpdateInput carries a validated update payload. Empty or nil fields keep
// the stored value.
type UpdateInput struct {
	DriverName    string
	VehicleNumber string
	Zone          string
	ScheduledDate *time.Time
	VolumeLitres  *int
	Status        string
}

// List returns fleet trips.
func (s *Service) List(ctx context.Context, p *rbac.Principal, f ListFilter) ([]Distribution, int, error) {
	if err := rbac.Authorize(p, rbac.ResourceDistribution, rbac.ActionList, nil).Err(); err != nil {
		return nil, 0, err
	}
	if f.Status != "" && !IsValidStatus(f.Status) {
		return nil, 0, httpx.Validationf("status is invalid")
	}
	return s.repo.List(ctx, f)
}

// Get returns one trip.
func (s *Service) Get(ctx context.Context, p *rbac.Principal, id uuid.UUID) (*Distribution, error) {
	if err := rbac.Authorize(p, rbac.ResourceDistribution, rbac.ActionRead, nil).Err(); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Create schedules a trip.
func (s *Service) Create(ctx context.Context, p *rbac.Principal, in CreateInput) (*Distribution, error) {
	if err := rbac.Authorize(p, rbac.ResourceDistribution, rbac.ActionCreate, nil).Err(); err != nil {
		return nil, err
	}
	if in.VolumeLitres <= 0 {
		return nil, httpx.Validationf("volume_litres must be greater than zero")
	}
	d := &Distribution{
		ID:            uuid.New(),
		DriverName:    in.DriverName,
		VehicleNumber: in.VehicleNumber,
		Zone:          in.Zone,
		ScheduledDate: in.ScheduledDate,
		VolumeLitres:  in.VolumeLitres,
		Status:        StatusScheduled,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Update overwrites trip fields present in the input. Status changes must
// follow the scheduled, dispatched, delivered order; delivered and
// cancelled are terminal.
func (s *Service) Update(ctx context.Context, p *rbac.Principal, id uuid.UUID, in UpdateInput) (*Distribution, error) {
	if err := rbac.Authorize(p, rbac.ResourceDistribution, rbac.ActionUpdate, nil).Err(); err != nil {
		return nil, err
	}
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.DriverName != "" {
		d.DriverName = in.DriverName
	}
	if in.VehicleNumber != "" {
		d.VehicleNumber = in.VehicleNumber
	}
	if in.Zone != "" {
		d.Zone = in.Zone
	}
	if in.ScheduledDate != nil {
		d.ScheduledDate = *in.ScheduledDate
	}
	if in.VolumeLitres != nil {
		if *in.VolumeLitres <= 0 {
			return nil, httpx.Validationf("volume_litres must be greater than zero")
		}
		d.VolumeLitres = *in.VolumeLitres
	}
	if in.Status != "" && in.Status != d.Status {
		if !IsValidStatus(in.Status) {
			return nil, httpx.Validationf("status is invalid")
		}
		if !CanTransition(d.Status, in.Status) {
			return nil, httpx.ErrInvalidTransition
		}
		d.Status = in.Status
	}
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes a trip.
func (s *Service) Delete(ctx context.Context, p *rbac.Principal, id uuid.UUID) error {
	if err := rbac.Authorize(p, rbac.ResourceDistribution, rbac.ActionDelete, nil).Err(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
