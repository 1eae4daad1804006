package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/certverify-labs/certverify/internal/api"
	"github.com/certverify-labs/certverify/internal/auth"
	"github.com/certverify-labs/certverify/internal/cache"
	"github.com/certverify-labs/certverify/internal/config"
	"github.com/certverify-labs/certverify/internal/database"
	"github.com/certverify-labs/certverify/internal/verify"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env in development; ignore when absent
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting CertVerify gateway",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run pending migrations before opening the pool
	if err := runMigrations(cfg, logger); err != nil {
		return err
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	defer cancelPing()
	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Session with the verification backend, persisted across restarts
	pgCache := cache.NewPGCache(pool)
	sessionStore := auth.NewSessionStore(pgCache, cfg.SessionTTL, logger)
	if err := sessionStore.Hydrate(ctx); err != nil {
		logger.Warn("failed to hydrate backend session", "error", err)
	}

	backendClient, err := verify.NewBackend(cfg, sessionStore.Token)
	if err != nil {
		return fmt.Errorf("failed to create verification backend: %w", err)
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret, "certverify", cfg.JWTExpiry)
	authService := auth.NewService(newAuthBackend(cfg), jwtService, logger)

	router := api.NewRouter(logger, &api.Dependencies{
		Config:       cfg,
		Backend:      backendClient,
		AuthService:  authService,
		JWTService:   jwtService,
		SessionStore: sessionStore,
		DB:           pool,
	})
	router.Setup()

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}

func newAuthBackend(cfg *config.Config) auth.Backend {
	if cfg.AuthMode == "remote" {
		return auth.NewRemoteBackend(cfg.BackendURL, cfg.BackendTimeout)
	}
	return auth.NewStubBackend()
}

func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	migrator, err := database.NewMigrator(db, "certverify")
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()

	if err := migrator.Up(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("database migrations applied")
	return nil
}
