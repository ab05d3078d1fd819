package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/aquacore/aquacore/internal/app"
	"github.com/aquacore/aquacore/internal/auth"
	"github.com/aquacore/aquacore/internal/complaints"
	"github.com/aquacore/aquacore/internal/customers"
	"github.com/aquacore/aquacore/internal/dashboard"
	"github.com/aquacore/aquacore/internal/distributions"
	"github.com/aquacore/aquacore/internal/invoices"
	"github.com/aquacore/aquacore/internal/notifications"
	"github.com/aquacore/aquacore/internal/observability"
	"github.com/aquacore/aquacore/internal/platform/cache"
	"github.com/aquacore/aquacore/internal/platform/db"
	"github.com/aquacore/aquacore/internal/products"
	"github.com/aquacore/aquacore/internal/rbac"
	"github.com/aquacore/aquacore/internal/services"
	"github.com/aquacore/aquacore/internal/users"
	"github.com/aquacore/aquacore/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, dashboard cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	var verifiers []auth.Verifier
	if cfg.OIDCIssuer != "" {
		oidcVerifier, err := auth.NewOIDCVerifier(ctx, cfg.OIDCIssuer, cfg.OIDCClientID)
		if err != nil {
			logger.Error("init oidc verifier", slog.Any("error", err))
			os.Exit(1)
		}
		verifiers = append(verifiers, oidcVerifier)
	}
	if cfg.ServiceTokens != "" {
		staticVerifier, err := auth.NewStaticVerifier(cfg.ServiceTokens)
		if err != nil {
			logger.Error("parse service tokens", slog.Any("error", err))
			os.Exit(1)
		}
		verifiers = append(verifiers, staticVerifier)
	}

	resolver := auth.NewResolver(auth.NewRepository(pool), verifiers...)
	authMiddleware := &auth.Middleware{Resolver: resolver, Logger: logger}
	metrics := observability.NewMetrics()
	rbacMiddleware := rbac.Middleware{Logger: logger, Metrics: metrics}

	events := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := events.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	usersService := users.NewService(users.NewRepository(pool))
	customersService := customers.NewService(customers.NewRepository(pool))
	complaintsService := complaints.NewService(complaints.NewRepository(pool), events)
	servicesService := services.NewService(services.NewRepository(pool), events)
	productsService := products.NewService(products.NewRepository(pool))
	invoicesService := invoices.NewService(invoices.NewRepository(pool))
	distributionsService := distributions.NewService(distributions.NewRepository(pool))
	notificationsService := notifications.NewService(notifications.NewRepository(pool))
	dashboardService := dashboard.NewService(dashboard.NewRepository(pool), redisClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger: logger,
		Config: cfg,
		Auth:   authMiddleware,

		RolesHandler:         rbac.NewHandler(rbacMiddleware),
		UsersHandler:         users.NewHandler(logger, usersService, rbacMiddleware),
		CustomersHandler:     customers.NewHandler(logger, customersService, rbacMiddleware),
		ComplaintsHandler:    complaints.NewHandler(logger, complaintsService, rbacMiddleware),
		ServicesHandler:      services.NewHandler(logger, servicesService, rbacMiddleware),
		ProductsHandler:      products.NewHandler(logger, productsService, rbacMiddleware),
		InvoicesHandler:      invoices.NewHandler(logger, invoicesService, rbacMiddleware),
		DistributionsHandler: distributions.NewHandler(logger, distributionsService, rbacMiddleware),
		NotificationsHandler: notifications.NewHandler(logger, notificationsService, rbacMiddleware),
		DashboardHandler:     dashboard.NewHandler(logger, dashboardService, rbacMiddleware),

		Metrics: metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
