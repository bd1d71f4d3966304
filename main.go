package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	appLogger "github.com/FACorreiaa/go-car-catalog/app/logger"
	"github.com/FACorreiaa/go-car-catalog/app/observability/metrics"
	"github.com/FACorreiaa/go-car-catalog/app/tracer"
	"github.com/FACorreiaa/go-car-catalog/config"
	"github.com/FACorreiaa/go-car-catalog/internal/container"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := appLogger.SetupLogger(cfg.Mode, os.Stdout)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cancel, &cfg, logger); err != nil {
		logger.Error("Application exited with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Application shut down complete.")
}

func run(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, logger *slog.Logger) error {
	telemetry, err := tracer.InitTracingAndMetrics(ctx, cfg.Observability.ServiceName, cfg.Observability.OTLPEndpoint, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("Telemetry shutdown failed", slog.Any("error", err))
		}
	}()
	metrics.InitAppMetrics()

	c, err := container.NewContainer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}
	defer c.Close()

	if !c.WaitForDB(ctx) {
		return errors.New("database not ready after waiting")
	}
	if err := c.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	handler := otelhttp.NewHandler(c.Router(telemetry.MetricsHandler), cfg.Observability.ServiceName)

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server",
			slog.String("address", serverAddress),
			slog.String("driver", cfg.Repositories.Driver),
		)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server graceful shutdown failed: %w", err)
	}
	logger.Info("HTTP server gracefully stopped")
	return nil
}
