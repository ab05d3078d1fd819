package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquacore/aquacore/internal/platform/httpx"
	"github.com/aquacore/aquacore/internal/rbac"
)

type mockRepository struct {
	customers     int
	complaints    int
	services      int
	lowStock      int
	revenue       float64
	distributions int

	calls atomic.Int32
	err   error
}

func (m *mockRepository) CountCustomers(ctx context.Context) (int, error) {
	m.calls.Add(1)
	return m.customers, m.err
}

func (m *mockRepository) CountOpenComplaints(ctx context.Context) (int, error) {
	m.calls.Add(1)
	return m.complaints, m.err
}

func (m *mockRepository) CountPendingServices(ctx context.Context) (int, error) {
	m.calls.Add(1)
	return m.services, m.err
}

func (m *mockRepository) CountLowStockProducts(ctx context.Context) (int, error) {
	m.calls.Add(1)
	return m.lowStock, m.err
}

func (m *mockRepository) MonthlyRevenue(ctx context.Context, month time.Time) (float64, error) {
	m.calls.Add(1)
	return m.revenue, m.err
}

func (m *mockRepository) CountScheduledDistributions(ctx context.Context) (int, error) {
	m.calls.Add(1)
	return m.distributions, m.err
}

func adminPrincipal() *rbac.Principal {
	return &rbac.Principal{ID: uuid.New(), Role: rbac.RoleAdmin, Active: true}
}

func TestStatsAggregates(t *testing.T) {
	repo := &mockRepository{customers: 42, complaints: 5, services: 3, lowStock: 2, revenue: 12500, distributions: 4}
	svc := NewService(repo, nil, nil)

	st, err := svc.Stats(context.Background(), adminPrincipal())
	require.NoError(t, err)
	assert.Equal(t, 42, st.ActiveCustomers)
	assert.Equal(t, 5, st.OpenComplaints)
	assert.Equal(t, 3, st.PendingServices)
	assert.Equal(t, 2, st.LowStockProducts)
	assert.Equal(t, 12500.0, st.MonthlyRevenue)
	assert.Equal(t, 4, st.ScheduledDistributions)
}

func TestStatsFailsWholeOnSubQueryError(t *testing.T) {
	repo := &mockRepository{err: errors.New("relation missing")}
	svc := NewService(repo, nil, nil)

	_, err := svc.Stats(context.Background(), adminPrincipal())
	require.Error(t, err)
}

func TestStatsRoleGate(t *testing.T) {
	svc := NewService(&mockRepository{}, nil, nil)

	deptHead := &rbac.Principal{ID: uuid.New(), Role: rbac.RoleDeptHead, Active: true}
	_, err := svc.Stats(context.Background(), deptHead)
	require.NoError(t, err)

	manager := &rbac.Principal{ID: uuid.New(), Role: rbac.RoleServiceManager, Active: true}
	_, err = svc.Stats(context.Background(), manager)
	assert.True(t, errors.Is(err, httpx.ErrForbidden))

	_, err = svc.Stats(context.Background(), nil)
	assert.True(t, errors.Is(err, httpx.ErrUnauthenticated))
}

func TestStatsServedFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	repo := &mockRepository{customers: 7}
	svc := NewService(repo, client, nil)

	first, err := svc.Stats(context.Background(), adminPrincipal())
	require.NoError(t, err)
	assert.Equal(t, int32(6), repo.calls.Load())

	// A warm cache answers without touching the repository, even if the
	// repository would now fail.
	repo.err = errors.New("db down")
	second, err := svc.Stats(context.Background(), adminPrincipal())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(6), repo.calls.Load())

	// Once the entry expires the queries run again.
	mr.FastForward(61 * time.Second)
	_, err = svc.Stats(context.Background(), adminPrincipal())
	require.Error(t, err)
}
