// Package main is the entry point for the Paryatan server. It loads
// configuration, establishes database, Redis, and object storage
// connections, runs migrations, wires together all plugins, and starts
// the HTTP server.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mptourism/paryatan/internal/app"
	"github.com/mptourism/paryatan/internal/config"
	"github.com/mptourism/paryatan/internal/database"
	"github.com/mptourism/paryatan/internal/plugins/auth"
	"github.com/mptourism/paryatan/internal/storage"
)

func main() {
	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	// Configure structured logging based on environment.
	setupLogging(cfg)

	slog.Info("starting Paryatan",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
	)

	// --- Connect to MariaDB ---
	db, err := database.NewMariaDB(cfg.Database)
	if err != nil {
		slog.Error("failed to connect to MariaDB", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to MariaDB")

	// --- Run Migrations ---
	if err := database.RunMigrations(db, "internal/database/migrations"); err != nil {
		slog.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Connect to Redis ---
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Error("failed to connect to Redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer rdb.Close()
	slog.Info("connected to Redis")

	// --- Connect to MinIO ---
	blobs, err := storage.NewMinioStore(cfg.Storage)
	if err != nil {
		slog.Error("failed to connect to MinIO", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("connected to MinIO", slog.String("bucket", cfg.Storage.Bucket))

	// --- Create Application ---
	application := app.New(cfg, db, rdb, blobs)
	app.RegisterRoutes(application)

	// First-boot admin so a fresh deployment can be logged into.
	bootstrapAdmin(db, rdb, cfg)

	// --- Graceful Shutdown ---
	// Listen for interrupt/term signals to drain connections cleanly.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down server...")

		// Give in-flight requests 10 seconds to complete.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := application.Echo.Shutdown(ctx); err != nil {
			slog.Error("server forced shutdown", slog.Any("error", err))
		}
	}()

	// --- Start Server ---
	if err := application.Start(); err != nil {
		// Echo returns http.ErrServerClosed on graceful shutdown, which is expected.
		slog.Info("server stopped", slog.Any("reason", err))
	}
}

// bootstrapAdmin provisions the initial global admin account when the
// admins table is empty and BOOTSTRAP_ADMIN_EMAIL/PASSWORD are set. A
// no-op on every subsequent boot.
func bootstrapAdmin(db *sql.DB, rdb *redis.Client, cfg *config.Config) {
	email := os.Getenv("BOOTSTRAP_ADMIN_EMAIL")
	password := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		slog.Error("bootstrap admin check failed", slog.Any("error", err))
		return
	}
	if count > 0 {
		return
	}

	svc := auth.NewAuthService(auth.NewAdminRepository(db), rdb, cfg.Auth.SessionTTL)
	admin, err := svc.CreateAccount(ctx, auth.CreateAccountInput{
		Name:     "Administrator",
		Email:    email,
		Password: password,
		Role:     auth.RoleAdmin,
	})
	if err != nil {
		slog.Error("bootstrap admin creation failed", slog.Any("error", err))
		return
	}
	slog.Info("bootstrap admin created", slog.String("admin_id", admin.ID))
}

// setupLogging configures the global slog logger based on the environment.
// Development uses text format for readability. Production uses JSON for
// structured log aggregation.
func setupLogging(cfg *config.Config) {
	var handler slog.Handler

	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	slog.SetDefault(slog.New(handler))
}
