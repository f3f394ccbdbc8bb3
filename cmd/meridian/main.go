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

	"github.com/meridian-hms/meridian-hms/internal/app"
	"github.com/meridian-hms/meridian-hms/internal/audit"
	audithttp "github.com/meridian-hms/meridian-hms/internal/audit/http"
	"github.com/meridian-hms/meridian-hms/internal/auth"
	"github.com/meridian-hms/meridian-hms/internal/billing"
	"github.com/meridian-hms/meridian-hms/internal/crm"
	"github.com/meridian-hms/meridian-hms/internal/hotel"
	"github.com/meridian-hms/meridian-hms/internal/laundry"
	"github.com/meridian-hms/meridian-hms/internal/marketing"
	"github.com/meridian-hms/meridian-hms/internal/observability"
	"github.com/meridian-hms/meridian-hms/internal/platform/cache"
	"github.com/meridian-hms/meridian-hms/internal/platform/db"
	"github.com/meridian-hms/meridian-hms/internal/rbac"
	"github.com/meridian-hms/meridian-hms/internal/restaurant"
	"github.com/meridian-hms/meridian-hms/internal/reviews"
	"github.com/meridian-hms/meridian-hms/internal/roles"
	"github.com/meridian-hms/meridian-hms/internal/shared"
	"github.com/meridian-hms/meridian-hms/internal/staff"
	"github.com/meridian-hms/meridian-hms/internal/users"
	"github.com/meridian-hms/meridian-hms/jobs"
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
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "meridian_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	metrics := observability.NewMetrics()

	auditRepo := audit.NewRepository(pool)
	recorder := audit.NewRecorder(auditRepo, logger, metrics.AuditFailures())

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo, recorder)
	usersHandler := users.NewHandler(logger, usersService)

	authService := auth.NewService(usersRepo, auth.NewSessionRepo(pool))
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	rolesRepo := roles.NewRepository(pool)
	rolesService := roles.NewService(rolesRepo, recorder)
	rolesHandler := roles.NewHandler(logger, rolesService)

	rbacService := rbac.NewService(rbac.NewRepository(pool), logger)
	rbacMiddleware := rbac.Middleware{Service: rbacService, Logger: logger}
	permissionsHandler := rbac.NewHandler(logger, rbacService)

	auditService := audit.NewService(auditRepo, usersRepo)
	auditHandler := audithttp.NewHandler(logger, auditService)

	hotelService := hotel.NewService(hotel.NewRepository(pool), recorder)
	hotelHandler := hotel.NewHandler(logger, hotelService)

	restaurantService := restaurant.NewService(restaurant.NewRepository(pool), recorder)
	restaurantHandler := restaurant.NewHandler(logger, restaurantService)

	laundryService := laundry.NewService(laundry.NewRepository(pool), recorder)
	laundryHandler := laundry.NewHandler(logger, laundryService)

	reviewsService := reviews.NewService(reviews.NewRepository(pool), recorder)
	reviewsHandler := reviews.NewHandler(logger, reviewsService)

	marketingService := marketing.NewService(marketing.NewRepository(pool), recorder)
	marketingHandler := marketing.NewHandler(logger, marketingService)

	staffService := staff.NewService(staff.NewRepository(pool), recorder)
	staffHandler := staff.NewHandler(logger, staffService)

	billingService := billing.NewService(billing.NewRepository(pool), hotelService, recorder)
	billingHandler := billing.NewHandler(logger, billingService)

	crmService := crm.NewService(crm.NewRepository(pool), recorder)
	crmHandler := crm.NewHandler(logger, crmService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		CSRFManager:        csrfManager,
		Auth:               authService,
		AuthHandler:        authHandler,
		UsersHandler:       usersHandler,
		RolesHandler:       rolesHandler,
		PermissionsHandler: permissionsHandler,
		AuditHandler:       auditHandler,
		HotelHandler:       hotelHandler,
		RestaurantHandler:  restaurantHandler,
		LaundryHandler:     laundryHandler,
		ReviewsHandler:     reviewsHandler,
		MarketingHandler:   marketingHandler,
		StaffHandler:       staffHandler,
		BillingHandler:     billingHandler,
		CRMHandler:         crmHandler,
		JobHandler:         jobHandler,
		RBACMiddleware:     rbacMiddleware,
		Metrics:            metrics,
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
