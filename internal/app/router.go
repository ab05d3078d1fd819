package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/aquacore/aquacore/internal/auth"
	"github.com/aquacore/aquacore/internal/complaints"
	"github.com/aquacore/aquacore/internal/customers"
	"github.com/aquacore/aquacore/internal/dashboard"
	"github.com/aquacore/aquacore/internal/distributions"
	"github.com/aquacore/aquacore/internal/invoices"
	"github.com/aquacore/aquacore/internal/notifications"
	"github.com/aquacore/aquacore/internal/observability"
	"github.com/aquacore/aquacore/internal/products"
	"github.com/aquacore/aquacore/internal/rbac"
	"github.com/aquacore/aquacore/internal/services"
	"github.com/aquacore/aquacore/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config
	Auth   *auth.Middleware

	RolesHandler         *rbac.Handler
	UsersHandler         *users.Handler
	CustomersHandler     *customers.Handler
	ComplaintsHandler    *complaints.Handler
	ServicesHandler      *services.Handler
	ProductsHandler      *products.Handler
	InvoicesHandler      *invoices.Handler
	DistributionsHandler *distributions.Handler
	NotificationsHandler *notifications.Handler
	DashboardHandler     *dashboard.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with AquaCore defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Auth:    params.Auth,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.Route("/roles", params.RolesHandler.MountRoutes)
		api.Route("/users", params.UsersHandler.MountRoutes)
		api.Route("/customers", params.CustomersHandler.MountRoutes)
		api.Route("/complaints", params.ComplaintsHandler.MountRoutes)
		api.Route("/services", params.ServicesHandler.MountRoutes)
		api.Route("/products", params.ProductsHandler.MountRoutes)
		api.Route("/invoices", params.InvoicesHandler.MountRoutes)
		api.Route("/distributions", params.DistributionsHandler.MountRoutes)
		api.Route("/notifications", params.NotificationsHandler.MountRoutes)
		api.Route("/dashboard", params.DashboardHandler.MountRoutes)
	})

	return r
}
