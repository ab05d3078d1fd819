package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquacore/aquacore/internal/platform/httpx"
	"github.com/aquacore/aquacore/internal/rbac"
)

type mockRepository struct {
	items       map[uuid.UUID]*ServiceRequest
	lastFilter  ListFilter
	lastNumber  string
	createFails int
}

func newMockRepository() *mockRepository {
	return &mockRepository{items: map[uuid.UUID]*ServiceRequest{}}
}

func (m *mockRepository) List(ctx context.Context, f ListFilter) ([]ServiceRequest, int, error) {
	m.lastFilter = f
	out := []ServiceRequest{}
	for _, sr := range m.items {
		out = append(out, *sr)
	}
	return out, len(out), nil
}

func (m *mockRepository) Get(ctx context.Context, id uuid.UUID) (*ServiceRequest, error) {
	sr, ok := m.items[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	clone := *sr
	return &clone, nil
}

func (m *mockRepository) Create(ctx context.Context, sr *ServiceRequest) error {
	if m.createFails > 0 {
		m.createFails--
		return &pgconn.PgError{Code: "23505"}
	}
	clone := *sr
	m.items[sr.ID] = &clone
	m.lastNumber = sr.Number
	return nil
}

func (m *mockRepository) LastNumber(ctx context.Context, scope time.Time) (string, error) {
	return m.lastNumber, nil
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status rbac.ServiceStatus) error {
	sr, ok := m.items[id]
	if !ok {
		return httpx.ErrNotFound
	}
	sr.Status = status
	return nil
}

func (m *mockRepository) Assign(ctx context.Context, id, technicianID uuid.UUID, scheduled *time.Time, status rbac.ServiceStatus) error {
	sr, ok := m.items[id]
	if !ok {
		return httpx.ErrNotFound
	}
	sr.AssignedTo = &technicianID
	if scheduled != nil {
		sr.ScheduledDate = scheduled
	}
	sr.Status = status
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func customerPrincipal() *rbac.Principal {
	cid := uuid.New()
	return &rbac.Principal{ID: uuid.New(), Role: rbac.RoleCustomer, Active: true, CustomerID: &cid}
}

func managerPrincipal() *rbac.Principal {
	return &rbac.Principal{ID: uuid.New(), Role: rbac.RoleServiceManager, Active: true}
}

func TestCreateUsesServicePrefixAndPendingStatus(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)
	svc.now = func() time.Time {
		return time.Date(2026, time.August, 5, 8, 0, 0, 0, time.UTC)
	}

	sr, err := svc.Create(context.Background(), customerPrincipal(), CreateInput{
		CustomerID:  uuid.New(),
		Type:        "repair",
		Description: "Meter leaking at the joint.",
	})
	require.NoError(t, err)
	assert.Equal(t, "SRV2026080001", sr.Number)
	assert.Equal(t, rbac.ServicePending, sr.Status)
}

func TestCreateRequiresCustomerID(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)
	_, err := svc.Create(context.Background(), customerPrincipal(), CreateInput{
		Type: "repair", Description: "Meter leaking at the joint.",
	})
	assert.True(t, errors.Is(err, httpx.ErrValidation))
	assert.Empty(t, repo.items)
}

func TestCreateRejectsUnknownType(t *testing.T) {
	svc := NewService(newMockRepository(), nil)
	_, err := svc.Create(context.Background(), customerPrincipal(), CreateInput{
		Type: "exorcism", Description: "d",
	})
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestListForcesOwnerFilters(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	customer := customerPrincipal()
	_, _, err := svc.List(context.Background(), customer, ListFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.CustomerID)
	assert.Equal(t, *customer.CustomerID, *repo.lastFilter.CustomerID)

	technician := &rbac.Principal{ID: uuid.New(), Role: rbac.RoleTechnician, Active: true}
	_, _, err = svc.List(context.Background(), technician, ListFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.AssignedTo)
	assert.Equal(t, technician.ID, *repo.lastFilter.AssignedTo)
}

func TestAssignSetsScheduleAndStatus(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	sr := &ServiceRequest{ID: uuid.New(), Number: "SRV2026080004", CustomerID: uuid.New(), Status: rbac.ServicePending}
	repo.items[sr.ID] = sr
	technicianID := uuid.New()
	scheduled := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	got, err := svc.Assign(context.Background(), managerPrincipal(), sr.ID, technicianID, &scheduled)
	require.NoError(t, err)
	assert.Equal(t, rbac.ServiceAssigned, got.Status)
	require.NotNil(t, got.ScheduledDate)
	assert.Equal(t, scheduled, *got.ScheduledDate)
}

func TestTechnicianCannotCancel(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	technician := &rbac.Principal{ID: uuid.New(), Role: rbac.RoleTechnician, Active: true}
	sr := &ServiceRequest{ID: uuid.New(), CustomerID: uuid.New(), Status: rbac.ServiceInProgress, AssignedTo: &technician.ID}
	repo.items[sr.ID] = sr

	_, err := svc.UpdateStatus(context.Background(), technician, sr.ID, rbac.ServiceCancelled)
	assert.True(t, errors.Is(err, httpx.ErrInvalidTransition))

	got, err := svc.UpdateStatus(context.Background(), technician, sr.ID, rbac.ServiceCompleted)
	require.NoError(t, err)
	assert.Equal(t, rbac.ServiceCompleted, got.Status)
}
