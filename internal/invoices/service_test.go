package invoices

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquacore/aquacore/internal/platform/httpx"
	"github.com/aquacore/aquacore/internal/rbac"
)

type mockRepository struct {
	items      map[uuid.UUID]*Invoice
	payments   []Payment
	lastFilter ListFilter

	countErr error
	sumErr   error

	// staleReads makes Get report every invoice as unpaid, mimicking a read
	// that raced ahead of another request's payment commit.
	staleReads bool
}

func newMockRepository() *mockRepository {
	return &mockRepository{items: map[uuid.UUID]*Invoice{}}
}

func (m *mockRepository) List(ctx context.Context, f ListFilter) ([]Invoice, int, error) {
	m.lastFilter = f
	out := []Invoice{}
	for _, inv := range m.items {
		out = append(out, *inv)
	}
	return out, len(out), nil
}

func (m *mockRepository) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, ok := m.items[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	clone := *inv
	if m.staleReads {
		clone.Status = StatusUnpaid
		clone.PaidAt = nil
	}
	return &clone, nil
}

func (m *mockRepository) Create(ctx context.Context, inv *Invoice) error {
	clone := *inv
	m.items[inv.ID] = &clone
	return nil
}

func (m *mockRepository) Update(ctx context.Context, inv *Invoice) error {
	if _, ok := m.items[inv.ID]; !ok {
		return httpx.ErrNotFound
	}
	clone := *inv
	m.items[inv.ID] = &clone
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockRepository) RecordPayment(ctx context.Context, pay *Payment, paidAt time.Time) error {
	inv, ok := m.items[pay.InvoiceID]
	if !ok {
		return httpx.ErrNotFound
	}
	// The real repository's guarded UPDATE flips status only while the
	// invoice is not yet paid; a lost race is a conflict.
	if inv.Status == StatusPaid {
		return httpx.ErrConflict
	}
	m.payments = append(m.payments, *pay)
	inv.Status = StatusPaid
	inv.PaidAt = &paidAt
	return nil
}

func (m *mockRepository) CountAll(ctx context.Context) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.items), nil
}

func (m *mockRepository) SumAll(ctx context.Context) (float64, error) {
	if m.sumErr != nil {
		return 0, m.sumErr
	}
	var sum float64
	for _, inv := range m.items {
		sum += inv.Amount
	}
	return sum, nil
}

func (m *mockRepository) SumByStatus(ctx context.Context, statuses ...string) (float64, error) {
	if m.sumErr != nil {
		return 0, m.sumErr
	}
	match := map[string]bool{}
	for _, s := range statuses {
		match[s] = true
	}
	var sum float64
	for _, inv := range m.items {
		if match[inv.Status] {
			sum += inv.Amount
		}
	}
	return sum, nil
}

func accountsPrincipal() *rbac.Principal {
	return &rbac.Principal{ID: uuid.New(), Role: rbac.RoleAccountsManager, Active: true}
}

func customerPrincipal() *rbac.Principal {
	cid := uuid.New()
	return &rbac.Principal{ID: uuid.New(), Role: rbac.RoleCustomer, Active: true, CustomerID: &cid}
}

func seedInvoice(repo *mockRepository, customerID uuid.UUID, amount float64, status string) *Invoice {
	inv := &Invoice{
		ID:         uuid.New(),
		CustomerID: customerID,
		Amount:     amount,
		DueDate:    time.Date(2026, time.September, 30, 0, 0, 0, 0, time.UTC),
		Status:     status,
	}
	repo.items[inv.ID] = inv
	return inv
}

func TestListForcesCustomerFilter(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	p := customerPrincipal()

	_, _, err := svc.List(context.Background(), p, ListFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.CustomerID)
	assert.Equal(t, *p.CustomerID, *repo.lastFilter.CustomerID)
}

func TestGetEnforcesOwnership(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	owner := customerPrincipal()
	inv := seedInvoice(repo, *owner.CustomerID, 120, StatusUnpaid)

	got, err := svc.Get(context.Background(), owner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, got.ID)

	_, err = svc.Get(context.Background(), customerPrincipal(), inv.ID)
	assert.True(t, errors.Is(err, httpx.ErrNotOwner))
}

func TestCreateRejectsNonPositiveAmount(t *testing.T) {
	svc := NewService(newMockRepository())
	_, err := svc.Create(context.Background(), accountsPrincipal(), CreateInput{
		CustomerID: uuid.New(), Amount: 0,
	})
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestCustomerCannotCreate(t *testing.T) {
	svc := NewService(newMockRepository())
	_, err := svc.Create(context.Background(), customerPrincipal(), CreateInput{
		CustomerID: uuid.New(), Amount: 50,
	})
	assert.True(t, errors.Is(err, httpx.ErrForbidden))
}

func TestRecordPayment(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	inv := seedInvoice(repo, uuid.New(), 250, StatusUnpaid)

	pay, err := svc.RecordPayment(context.Background(), accountsPrincipal(), inv.ID, PaymentInput{
		Amount: 250, Method: "bank_transfer", Reference: "TXN-1001",
	})
	require.NoError(t, err)
	assert.Equal(t, inv.ID, pay.InvoiceID)
	assert.Equal(t, StatusPaid, repo.items[inv.ID].Status)
	require.Len(t, repo.payments, 1)
}

func TestRecordPaymentOnPaidInvoiceConflicts(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	inv := seedInvoice(repo, uuid.New(), 250, StatusPaid)

	_, err := svc.RecordPayment(context.Background(), accountsPrincipal(), inv.ID, PaymentInput{
		Amount: 250, Method: "cash",
	})
	assert.True(t, errors.Is(err, httpx.ErrConflict))
}

func TestRecordPaymentLosingRaceConflicts(t *testing.T) {
	// Both requests read the invoice as unpaid; only the first status flip
	// lands, the second rolls back as a conflict with no payment row.
	repo := newMockRepository()
	repo.staleReads = true
	svc := NewService(repo)
	inv := seedInvoice(repo, uuid.New(), 250, StatusUnpaid)

	_, err := svc.RecordPayment(context.Background(), accountsPrincipal(), inv.ID, PaymentInput{
		Amount: 250, Method: "cash", Reference: "TXN-2001",
	})
	require.NoError(t, err)

	_, err = svc.RecordPayment(context.Background(), accountsPrincipal(), inv.ID, PaymentInput{
		Amount: 250, Method: "card", Reference: "TXN-2002",
	})
	assert.True(t, errors.Is(err, httpx.ErrConflict))
	assert.Len(t, repo.payments, 1)
}

func TestRecordPaymentRejectsUnknownMethod(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	inv := seedInvoice(repo, uuid.New(), 250, StatusUnpaid)

	_, err := svc.RecordPayment(context.Background(), accountsPrincipal(), inv.ID, PaymentInput{
		Amount: 250, Method: "barter",
	})
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestStatsAggregates(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	seedInvoice(repo, uuid.New(), 100, StatusPaid)
	seedInvoice(repo, uuid.New(), 200, StatusUnpaid)
	seedInvoice(repo, uuid.New(), 300, StatusOverdue)

	st, err := svc.Stats(context.Background(), accountsPrincipal())
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalInvoices)
	assert.Equal(t, 600.0, st.TotalBilled)
	assert.Equal(t, 100.0, st.Collected)
	assert.Equal(t, 500.0, st.Outstanding)
}

func TestStatsFailsWhole(t *testing.T) {
	repo := newMockRepository()
	repo.sumErr = errors.New("query timeout")
	svc := NewService(repo)
	seedInvoice(repo, uuid.New(), 100, StatusPaid)

	_, err := svc.Stats(context.Background(), accountsPrincipal())
	require.Error(t, err)
}

func TestStatsDeniedForOwnerScopedRole(t *testing.T) {
	svc := NewService(newMockRepository())
	_, err := svc.Stats(context.Background(), customerPrincipal())
	assert.True(t, errors.Is(err, httpx.ErrForbidden))
}
