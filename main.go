package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaraaapps/aaraa.app/config"
	"github.com/aaraaapps/aaraa.app/handler"
	"github.com/aaraaapps/aaraa.app/middleware"
	"github.com/aaraaapps/aaraa.app/pkg/logger"
	"github.com/aaraaapps/aaraa.app/service"
	"github.com/gin-gonic/gin"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}

	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	slog.Info("configuration loaded", "environment", cfg.Server.Environment)

	ctx := context.Background()

	store, database, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	objects, err := service.NewObjectStorage(&cfg.Storage)
	if err != nil {
		slog.Error("failed to initialize object storage", "error", err)
		os.Exit(1)
	}
	// Uploads re-check the bucket on every request, so a failure here is only logged
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if exists, err := objects.BucketExists(checkCtx); err != nil || !exists {
		slog.Warn("bucket not reachable at startup", "bucket", objects.Bucket(), "exists", exists, "error", err)
	}
	cancel()

	a := &app{
		cfg:           cfg,
		store:         store,
		database:      database,
		objects:       objects,
		assistant:     service.NewAssistant(newGenerator(ctx, cfg), cfg.Assistant.FallbackInsight),
		notifications: service.NewNotificationCenter(0),
		drafts:        service.NewWizardRegistry(time.Duration(cfg.Wizard.DraftTTLMinutes) * time.Minute),
		revoked:       middleware.NewRevocations(),
	}
	slog.Info("assistant configured", "enabled", a.assistant.Enabled(), "model", cfg.Assistant.Model)

	gin.SetMode(gin.ReleaseMode)
	router := newRouter(a)
	slog.Info("serving static files", "directory", cfg.Server.StaticDir)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port, "bucket", objects.Bucket())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return
	}

	slog.Info("server exited gracefully")
}

// openStore connects to Postgres when a database URL is configured and
// falls back to the in-memory store otherwise.
func openStore(ctx context.Context, cfg *config.Config) (service.Store, handler.Pinger, error) {
	if cfg.Database.URL == "" {
		slog.Warn("no database configured, using in-memory store")
		return service.NewMemoryStore(cfg.Employees, &cfg.Store), nil, nil
	}

	pg, err := service.NewPostgresStore(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.SeedEmployees(ctx, cfg.Employees); err != nil {
		pg.Close()
		return nil, nil, fmt.Errorf("seed employees: %w", err)
	}
	return pg, pg, nil
}

// newGenerator returns nil, disabling the assistant, when no key is set
func newGenerator(ctx context.Context, cfg *config.Config) service.Generator {
	if cfg.Assistant.APIKey == "" {
		return nil
	}
	gen, err := service.NewGenAIGenerator(ctx, &cfg.Assistant)
	if err != nil {
		slog.Warn("assistant disabled", "error", err)
		return nil
	}
	return gen
}
