package container

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-car-catalog/app/db"
	"github.com/FACorreiaa/go-car-catalog/config"
	"github.com/FACorreiaa/go-car-catalog/internal/api/auth"
	"github.com/FACorreiaa/go-car-catalog/internal/api/car"
	"github.com/FACorreiaa/go-car-catalog/internal/router"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	// Pool is nil when the memory driver is selected.
	Pool          *pgxpool.Pool
	ConnectionURL string

	AuthRepo    auth.AuthRepo
	CarRepo     car.CarRepo
	Tokens      *auth.TokenManager
	AuthService auth.AuthService
	CarService  car.CarService
	AuthHandler *auth.AuthHandler
	CarHandler  *car.CarHandler
}

// NewContainer opens the configured store and wires services and handlers on top of it.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	switch cfg.Repositories.Driver {
	case config.DriverPostgres:
		dbConfig, err := database.NewDatabaseConfig(cfg, logger)
		if err != nil {
			logger.Error("Failed to generate database config", slog.Any("error", err))
			return nil, err
		}
		pool, err := database.Init(ctx, dbConfig.ConnectionURL, logger)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.Any("error", err))
			return nil, err
		}
		c.Pool = pool
		c.ConnectionURL = dbConfig.ConnectionURL
		c.AuthRepo = auth.NewPostgresAuthRepo(pool, logger)
		c.CarRepo = car.NewPostgresCarRepo(pool, logger)
	case config.DriverMemory:
		logger.Warn("Using in-memory repositories; data is lost on restart")
		c.AuthRepo = auth.NewMemoryAuthRepo()
		c.CarRepo = car.NewMemoryCarRepo()
	default:
		return nil, fmt.Errorf("unknown repositories driver %q", cfg.Repositories.Driver)
	}

	c.Tokens = auth.NewTokenManager(cfg.JWT)
	authService := auth.NewAuthService(c.AuthRepo, c.Tokens, logger)
	carService := car.NewCarService(c.CarRepo, logger)
	c.AuthService = authService
	c.CarService = carService
	c.AuthHandler = auth.NewAuthHandler(authService, logger)
	c.CarHandler = car.NewCarHandler(carService, logger)

	return c, nil
}

// Router builds the HTTP handler for this container. metricsHandler may be nil.
func (c *Container) Router(metricsHandler http.Handler) chi.Router {
	rc := &router.Config{
		Logger:                 c.Logger,
		AuthHandler:            c.AuthHandler,
		CarHandler:             c.CarHandler,
		AuthenticateMiddleware: auth.Authenticate(c.Logger, c.Tokens),
		AllowedOrigins:         c.Config.Server.AllowedOrigins,
		AuthRequestsPerMinute:  c.Config.RateLimit.AuthRequestsPerMinute,
		RequestTimeout:         c.Config.Server.Timeout,
		MetricsHandler:         metricsHandler,
	}
	if c.Pool != nil {
		rc.HealthChecker = c.Pool
	}
	return router.SetupRouter(rc)
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready. Always true without a database.
func (c *Container) WaitForDB(ctx context.Context) bool {
	if c.Pool == nil {
		return true
	}
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}

// RunMigrations applies pending migrations. A no-op without a database.
func (c *Container) RunMigrations() error {
	if c.Pool == nil {
		return nil
	}
	return database.RunMigrations(c.ConnectionURL, c.Logger)
}
