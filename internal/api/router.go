package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"

	"github.com/certverify-labs/certverify/internal/api/docs"
	"github.com/certverify-labs/certverify/internal/api/handler"
	"github.com/certverify-labs/certverify/internal/api/middleware"
	"github.com/certverify-labs/certverify/internal/auth"
	"github.com/certverify-labs/certverify/internal/backend"
	"github.com/certverify-labs/certverify/internal/browse"
	"github.com/certverify-labs/certverify/internal/cache"
	"github.com/certverify-labs/certverify/internal/config"
	"github.com/certverify-labs/certverify/internal/dashboard"
	"github.com/certverify-labs/certverify/internal/history"
	"github.com/certverify-labs/certverify/internal/verify"
	"github.com/certverify-labs/certverify/internal/ws"
)

type Dependencies struct {
	Config       *config.Config
	Backend      backend.Backend
	AuthService  *auth.Service
	JWTService   *auth.JWTService
	SessionStore *auth.SessionStore
	DB           *pgxpool.Pool
}

type Router struct {
	app             *fiber.App
	logger          *slog.Logger
	deps            *Dependencies
	rateLimiter     *middleware.RateLimiter
	wsHub           *ws.Hub
	refresher       *dashboard.Refresher
	cancelRefresher context.CancelFunc
	cancelCleanup   context.CancelFunc
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "CertVerify Gateway",
		BodyLimit:    30 * 1024 * 1024,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Swagger documentation (no auth required)
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints (no auth required)
	var pinger handler.Pinger
	if r.deps != nil && r.deps.DB != nil {
		pinger = r.deps.DB
	}
	healthHandler := handler.NewHealthHandler(pinger)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// Only configure the full API if dependencies were provided
	if r.deps == nil {
		return
	}

	// WebSocket hub
	r.wsHub = ws.NewHub()
	go r.wsHub.Run()

	// Periodically refreshed dashboard snapshot, cached and pushed to
	// connected clients
	var snapshotStore dashboard.Store
	var pgCache *cache.PGCache
	if r.deps.DB != nil {
		pgCache = cache.NewPGCache(r.deps.DB)
		snapshotStore = pgCache
	}
	dashboardService := dashboard.NewService(r.deps.Backend, r.logger)
	r.refresher = dashboard.NewRefresher(
		dashboardService,
		snapshotStore,
		r.wsHub,
		r.deps.Config.DashboardRefresh,
		r.logger,
	)
	refresherCtx, cancelRefresher := context.WithCancel(context.Background())
	r.cancelRefresher = cancelRefresher
	go r.refresher.Run(refresherCtx)

	// Expired cache entry cleanup
	if pgCache != nil {
		cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
		r.cancelCleanup = cancelCleanup
		go r.runCacheCleanup(cleanupCtx, pgCache)
	}

	// Public auth routes
	authHandler := handler.NewAuthHandler(r.deps.AuthService, r.logger)
	authGroup := r.app.Group("/v1/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/signup", authHandler.Signup)

	// API v1 group with JWT authentication
	v1 := r.app.Group("/v1")
	v1.Use(middleware.Auth(middleware.AuthDependencies{
		JWTService: r.deps.JWTService,
		Logger:     r.logger,
	}))

	// Rate limiting (per user) - must come after auth to have user context
	r.rateLimiter = middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	v1.Use(r.rateLimiter.Handler())

	// Drop the stored backend session whenever the backend answers 401
	if r.deps.SessionStore != nil {
		v1.Use(middleware.SessionGuard(r.deps.SessionStore, r.logger))
	}

	// History service
	var historyService *history.Service
	if r.deps.DB != nil {
		historyRepo := history.NewRepository(r.deps.DB)
		historyService = history.NewService(historyRepo, r.deps.Config.HistoryLimit, r.logger)
	}

	// Certificate submission and browsing
	submitter := verify.NewSubmitter(r.deps.Backend, verify.SlogNotifier{Logger: r.logger})
	sorter := browse.NewSorter(r.deps.Config.Locale)
	certHandler := handler.NewCertificateHandler(
		r.deps.Backend,
		submitter,
		historyService,
		sorter,
		r.wsHub,
		r.logger,
	)

	v1.Post("/certificates/upload", certHandler.Upload)
	v1.Post("/certificates/upload/batch", certHandler.UploadBatch)
	v1.Post("/certificates/verify", certHandler.Verify)
	v1.Post("/certificates/verify/batch", certHandler.VerifyBatch)
	v1.Post("/certificates/verify/hash", certHandler.VerifyHash)
	v1.Get("/certificates", certHandler.List)
	v1.Delete("/certificates/:number", middleware.RequireAdmin(), certHandler.Delete)
	v1.Get("/certificates/:number/history", certHandler.History)
	v1.Get("/certificates/:id/download", certHandler.Download)
	v1.Post("/certificates/download/bulk", certHandler.DownloadBulk)

	// Per-user verification history
	if historyService != nil {
		historyHandler := handler.NewHistoryHandler(historyService, r.logger)
		v1.Get("/history", historyHandler.List)
		v1.Delete("/history", historyHandler.Clear)
	}

	// Dashboard
	dashboardHandler := handler.NewDashboardHandler(r.refresher, r.logger)
	v1.Get("/dashboard", dashboardHandler.Get)
	v1.Post("/dashboard/refresh", dashboardHandler.Refresh)

	// Ledger (read-only; validation restricted to admins)
	ledgerHandler := handler.NewLedgerHandler(r.deps.Backend, r.logger)
	v1.Get("/ledger/entries", ledgerHandler.Entries)
	v1.Get("/ledger/integrity", ledgerHandler.Integrity)
	v1.Post("/ledger/validate", middleware.RequireAdmin(), ledgerHandler.Validate)

	// WebSocket endpoint
	v1.Get("/ws", ws.UpgradeMiddleware(), ws.Handler(r.wsHub))
}

func (r *Router) runCacheCleanup(ctx context.Context, pgCache *cache.PGCache) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := pgCache.CleanupExpired(ctx)
			if err != nil {
				r.logger.Warn("cache cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				r.logger.Debug("cache cleanup", slog.Int64("removed", removed))
			}
		}
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	if r.cancelRefresher != nil {
		r.cancelRefresher()
	}

	if r.cancelCleanup != nil {
		r.cancelCleanup()
	}

	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	return r.app.Shutdown()
}
