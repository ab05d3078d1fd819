package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/aquacore/aquacore/internal/platform/httpx"
	"github.com/aquacore/aquacore/internal/rbac"
)

const (
	cacheKey = "aquacore:dashboard:stats"
	cacheTTL = 60 * time.Second
)

// Stats is the aggregated overview snapshot.
type Stats struct {
	ActiveCustomers        int     `json:"active_customers"`
	OpenComplaints         int     `json:"open_complaints"`
	PendingServices        int     `json:"pending_services"`
	LowStockProducts       int     `json:"low_stock_products"`
	MonthlyRevenue         float64 `json:"monthly_revenue"`
	ScheduledDistributions int     `json:"scheduled_distributions"`
}

// Service computes the overview snapshot. The redis cache is best effort;
// the aggregate queries are not.
type Service struct {
	repo   Repository
	cache  *redis.Client
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a Service. cache may be nil.
func NewService(repo Repository, cache *redis.Client, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger, now: time.Now}
}

// Stats returns the overview snapshot for admin and department head roles.
// All sub-queries run in parallel and any failure fails the whole request;
// partial counts are never served.
func (s *Service) Stats(ctx context.Context, p *rbac.Principal) (*Stats, error) {
	if p == nil || !p.Active {
		return nil, httpx.ErrUnauthenticated
	}
	if p.Role != rbac.RoleAdmin && p.Role != rbac.RoleDeptHead {
		return nil, httpx.ErrForbidden
	}

	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	var st Stats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.CountCustomers(ctx)
		st.ActiveCustomers = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountOpenComplaints(ctx)
		st.OpenComplaints = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountPendingServices(ctx)
		st.PendingServices = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountLowStockProducts(ctx)
		st.LowStockProducts = n
		return err
	})
	g.Go(func() error {
		sum, err := s.repo.MonthlyRevenue(ctx, s.now())
		st.MonthlyRevenue = sum
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountScheduledDistributions(ctx)
		st.ScheduledDistributions = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.toCache(ctx, &st)
	return &st, nil
}

func (s *Service) fromCache(ctx context.Context) *Stats {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, cacheKey).Bytes()
	if err != nil {
		return nil
	}
	var st Stats
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil
	}
	return &st
}

func (s *Service) toCache(ctx context.Context, st *Stats) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey, raw, cacheTTL).Err(); err != nil && s.logger != nil {
		s.logger.Warn("dashboard cache write failed", slog.Any("error", err))
	}
}
