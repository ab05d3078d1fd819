package complaints

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
	items map[uuid.UUID]*Complaint

	lastFilter  ListFilter
	lastNumber  string
	createFails int
	createErr   error
}

func newMockRepository() *mockRepository {
	return &mockRepository{items: map[uuid.UUID]*Complaint{}}
}

func (m *mockRepository) List(ctx context.Context, f ListFilter) ([]Complaint, int, error) {
	m.lastFilter = f
	out := []Complaint{}
	for _, c := range m.items {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *mockRepository) Get(ctx context.Context, id uuid.UUID) (*Complaint, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (m *mockRepository) Create(ctx context.Context, c *Complaint) error {
	if m.createFails > 0 {
		m.createFails--
		if m.createErr != nil {
			return m.createErr
		}
		return &pgconn.PgError{Code: "23505"}
	}
	clone := *c
	m.items[c.ID] = &clone
	m.lastNumber = c.Number
	return nil
}

func (m *mockRepository) LastNumber(ctx context.Context, scope time.Time) (string, error) {
	return m.lastNumber, nil
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status rbac.ComplaintStatus) error {
	c, ok := m.items[id]
	if !ok {
		return httpx.ErrNotFound
	}
	c.Status = status
	return nil
}

func (m *mockRepository) Assign(ctx context.Context, id, technicianID uuid.UUID, status rbac.ComplaintStatus) error {
	c, ok := m.items[id]
	if !ok {
		return httpx.ErrNotFound
	}
	c.AssignedTo = &technicianID
	c.Status = status
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type recordingPublisher struct {
	published int
}

func (r *recordingPublisher) Publish(ctx context.Context, userID, customerID *uuid.UUID, title, body string) error {
	r.published++
	return nil
}

func customerPrincipal() *rbac.Principal {
	cid := uuid.New()
	return &rbac.Principal{ID: uuid.New(), Role: rbac.RoleCustomer, Active: true, CustomerID: &cid}
}

func managerPrincipal() *rbac.Principal {
	return &rbac.Principal{ID: uuid.New(), Role: rbac.RoleServiceManager, Active: true}
}

func fixedClock(s *Service) {
	s.now = func() time.Time {
		return time.Date(2026, time.August, 12, 9, 0, 0, 0, time.UTC)
	}
}

func TestListForcesCustomerFilter(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)
	p := customerPrincipal()

	intruder := uuid.New()
	_, _, err := svc.List(context.Background(), p, ListFilter{CustomerID: &intruder, Page: 1, Limit: 20})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.CustomerID)
	assert.Equal(t, *p.CustomerID, *repo.lastFilter.CustomerID)
	assert.Nil(t, repo.lastFilter.AssignedTo)
}

func TestListForcesTechnicianFilter(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)
	p := &rbac.Principal{ID: uuid.New(), Role: rbac.RoleTechnician, Active: true}

	_, _, err := svc.List(context.Background(), p, ListFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.AssignedTo)
	assert.Equal(t, p.ID, *repo.lastFilter.AssignedTo)
}

func TestListRejectsUnknownStatusFilter(t *testing.T) {
	svc := NewService(newMockRepository(), nil)
	_, _, err := svc.List(context.Background(), managerPrincipal(), ListFilter{Status: "reopened"})
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestListUnauthenticated(t *testing.T) {
	svc := NewService(newMockRepository(), nil)
	_, _, err := svc.List(context.Background(), nil, ListFilter{})
	assert.True(t, errors.Is(err, httpx.ErrUnauthenticated))
}

func TestCreateCustomerOwnsRecord(t *testing.T) {
	repo := newMockRepository()
	events := &recordingPublisher{}
	svc := NewService(repo, events)
	fixedClock(svc)
	p := customerPrincipal()

	// A customer-supplied customer_id is ignored in favour of their own.
	c, err := svc.Create(context.Background(), p, CreateInput{
		CustomerID:  uuid.New(),
		Title:       "No water since morning",
		Description: "Supply stopped around 6am.",
		Category:    "supply_interruption",
	})
	require.NoError(t, err)
	assert.Equal(t, *p.CustomerID, c.CustomerID)
	assert.Equal(t, rbac.ComplaintOpen, c.Status)
	assert.Equal(t, "CMP2026080001", c.Number)
	assert.Equal(t, 1, events.published)
}

func TestCreateStaffRequiresCustomerID(t *testing.T) {
	svc := NewService(newMockRepository(), nil)
	_, err := svc.Create(context.Background(), managerPrincipal(), CreateInput{
		Title:       "Logged by phone",
		Description: "Caller reports leakage.",
		Category:    "leakage",
	})
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestCreateCustomerRequiresCustomerID(t *testing.T) {
	// Customers must still send customer_id; the server overrides the value
	// with their own but an omitted field is a validation error, not an
	// implicit default.
	repo := newMockRepository()
	svc := NewService(repo, nil)
	_, err := svc.Create(context.Background(), customerPrincipal(), CreateInput{
		Title:       "No water since morning",
		Description: "Supply stopped around 6am.",
		Category:    "supply_interruption",
	})
	assert.True(t, errors.Is(err, httpx.ErrValidation))
	assert.Empty(t, repo.items)
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	svc := NewService(newMockRepository(), nil)
	_, err := svc.Create(context.Background(), customerPrincipal(), CreateInput{
		Title:       "x",
		Description: "y",
		Category:    "sewage",
	})
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestCreateTechnicianForbidden(t *testing.T) {
	svc := NewService(newMockRepository(), nil)
	p := &rbac.Principal{ID: uuid.New(), Role: rbac.RoleTechnician, Active: true}
	_, err := svc.Create(context.Background(), p, CreateInput{
		CustomerID: uuid.New(), Title: "t", Description: "d", Category: "other",
	})
	assert.True(t, errors.Is(err, httpx.ErrForbidden))
}

func TestCreateRetriesOnceOnConflict(t *testing.T) {
	repo := newMockRepository()
	repo.createFails = 1
	svc := NewService(repo, nil)
	fixedClock(svc)

	c, err := svc.Create(context.Background(), customerPrincipal(), CreateInput{
		CustomerID: uuid.New(), Title: "t", Description: "d", Category: "meter",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.Number)
}

func TestCreateGivesUpAfterSecondConflict(t *testing.T) {
	repo := newMockRepository()
	repo.createFails = 2
	svc := NewService(repo, nil)
	fixedClock(svc)

	_, err := svc.Create(context.Background(), customerPrincipal(), CreateInput{
		CustomerID: uuid.New(), Title: "t", Description: "d", Category: "meter",
	})
	assert.True(t, errors.Is(err, httpx.ErrConflict))
}

func TestCreateSurfacesNonConflictError(t *testing.T) {
	repo := newMockRepository()
	repo.createFails = 1
	repo.createErr = errors.New("connection reset")
	svc := NewService(repo, nil)
	fixedClock(svc)

	_, err := svc.Create(context.Background(), customerPrincipal(), CreateInput{
		CustomerID: uuid.New(), Title: "t", Description: "d", Category: "meter",
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, httpx.ErrConflict))
}

func TestGetEnforcesOwnership(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	owner := customerPrincipal()
	c := &Complaint{ID: uuid.New(), CustomerID: *owner.CustomerID, Status: rbac.ComplaintOpen}
	repo.items[c.ID] = c

	got, err := svc.Get(context.Background(), owner, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	stranger := customerPrincipal()
	_, err = svc.Get(context.Background(), stranger, c.ID)
	assert.True(t, errors.Is(err, httpx.ErrNotOwner))
}

func TestAssignMovesToAssigned(t *testing.T) {
	repo := newMockRepository()
	events := &recordingPublisher{}
	svc := NewService(repo, events)

	c := &Complaint{ID: uuid.New(), Number: "CMP2026080007", CustomerID: uuid.New(), Status: rbac.ComplaintOpen}
	repo.items[c.ID] = c
	technicianID := uuid.New()

	got, err := svc.Assign(context.Background(), managerPrincipal(), c.ID, technicianID)
	require.NoError(t, err)
	assert.Equal(t, rbac.ComplaintAssigned, got.Status)
	require.NotNil(t, got.AssignedTo)
	assert.Equal(t, technicianID, *got.AssignedTo)
	assert.Equal(t, 1, events.published)
}

func TestUpdateStatusTechnicianOnOwnComplaint(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	technician := &rbac.Principal{ID: uuid.New(), Role: rbac.RoleTechnician, Active: true}
	c := &Complaint{ID: uuid.New(), CustomerID: uuid.New(), Status: rbac.ComplaintAssigned, AssignedTo: &technician.ID}
	repo.items[c.ID] = c

	got, err := svc.UpdateStatus(context.Background(), technician, c.ID, rbac.ComplaintResolved)
	require.NoError(t, err)
	assert.Equal(t, rbac.ComplaintResolved, got.Status)
}

func TestUpdateStatusTechnicianOnForeignComplaint(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	technician := &rbac.Principal{ID: uuid.New(), Role: rbac.RoleTechnician, Active: true}
	other := uuid.New()
	c := &Complaint{ID: uuid.New(), CustomerID: uuid.New(), Status: rbac.ComplaintAssigned, AssignedTo: &other}
	repo.items[c.ID] = c

	_, err := svc.UpdateStatus(context.Background(), technician, c.ID, rbac.ComplaintResolved)
	assert.True(t, errors.Is(err, httpx.ErrNotOwner))
}

func TestUpdateStatusTechnicianRestrictedSet(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	technician := &rbac.Principal{ID: uuid.New(), Role: rbac.RoleTechnician, Active: true}
	c := &Complaint{ID: uuid.New(), CustomerID: uuid.New(), Status: rbac.ComplaintResolved, AssignedTo: &technician.ID}
	repo.items[c.ID] = c

	_, err := svc.UpdateStatus(context.Background(), technician, c.ID, rbac.ComplaintClosed)
	assert.True(t, errors.Is(err, httpx.ErrInvalidTransition))
}

func TestDeleteRequiresGrant(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)
	c := &Complaint{ID: uuid.New(), CustomerID: uuid.New()}
	repo.items[c.ID] = c

	err := svc.Delete(context.Background(), customerPrincipal(), c.ID)
	assert.True(t, errors.Is(err, httpx.ErrForbidden))

	admin := &rbac.Principal{ID: uuid.New(), Role: rbac.RoleAdmin, Active: true}
	require.NoError(t, svc.Delete(context.Background(), admin, c.ID))
	assert.Empty(t, repo.items)
}
