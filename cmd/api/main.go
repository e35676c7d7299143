package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saturnino-fabrica-de-software/vigia/internal/api"
	"github.com/saturnino-fabrica-de-software/vigia/internal/audit"
	"github.com/saturnino-fabrica-de-software/vigia/internal/config"
	"github.com/saturnino-fabrica-de-software/vigia/internal/face"
	"github.com/saturnino-fabrica-de-software/vigia/internal/monitor"
	"github.com/saturnino-fabrica-de-software/vigia/internal/repository"
	"github.com/saturnino-fabrica-de-software/vigia/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting Vigia API",
		slog.String("environment", cfg.Environment),
		slog.String("face_provider", cfg.FaceProvider),
		slog.Int("port", cfg.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	auditLogger := audit.NewSlogLogger(logger)

	// Face model provider
	provider, err := face.NewFaceProvider(ctx, cfg, auditLogger)
	if err != nil {
		return fmt.Errorf("failed to create face provider: %w", err)
	}

	// Optional archive layer
	var (
		pool     *pgxpool.Pool
		archiver monitor.Archiver
	)
	if cfg.ArchiveEnabled() {
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to create database pool: %w", err)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}

		archiver = repository.NewArchive(pool)
		logger.Info("session archive enabled")
	} else {
		logger.Info("session archive disabled, sessions run in memory only")
	}

	// WebSocket hub and session manager
	hub := ws.NewHub()
	manager := monitor.NewManager(monitor.Config{
		HeadMovementDuration:    cfg.HeadMovementDuration,
		EyeDownDuration:         cfg.EyeDownDuration,
		DetectionFrameThreshold: cfg.DetectionFrameThreshold,
		FaceInterval:            cfg.FaceInterval,
		ObjectInterval:          cfg.ObjectInterval,
		AudioInterval:           cfg.AudioInterval,
		AudioEventDebounce:      cfg.AudioEventDebounce,
	}, monitor.ManagerDeps{
		Provider:    provider,
		Broadcaster: hub,
		Archiver:    archiver,
		Audit:       auditLogger,
		Logger:      logger,
	})

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		Manager: manager,
		Hub:     hub,
		APIKey:  cfg.APIKey,
		DB:      pool,
	})
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
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
