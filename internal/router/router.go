package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	database "github.com/FACorreiaa/go-car-catalog/app/db"
	appLogger "github.com/FACorreiaa/go-car-catalog/app/logger"
	appMiddleware "github.com/FACorreiaa/go-car-catalog/app/middleware"
	_ "github.com/FACorreiaa/go-car-catalog/docs"
	"github.com/FACorreiaa/go-car-catalog/internal/api"
	"github.com/FACorreiaa/go-car-catalog/internal/api/auth"
	"github.com/FACorreiaa/go-car-catalog/internal/api/car"
)

const MsgTooManyRequests = "too many requests, try again later"

// Config contains dependencies needed for the router setup
type Config struct {
	Logger                 *slog.Logger
	AuthHandler            *auth.AuthHandler
	CarHandler             *car.CarHandler
	AuthenticateMiddleware func(http.Handler) http.Handler
	AllowedOrigins         []string
	// AuthRequestsPerMinute limits register and login per client IP; zero disables it.
	AuthRequestsPerMinute int
	RequestTimeout        time.Duration
	MetricsHandler        http.Handler
	// HealthChecker is nil when no database backs the API.
	HealthChecker database.Pinger
}

// SetupRouter builds the whole HTTP surface including server-wide middleware.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(cfg.Logger))
	r.Use(appMiddleware.Recoverer(cfg.Logger))
	r.Use(middleware.StripSlashes)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.Compress(5, "application/json"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(appMiddleware.NotFound)
	r.MethodNotAllowed(appMiddleware.NotFound)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	r.Get("/healthz", healthz(cfg.Logger, cfg.HealthChecker))
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if cfg.AuthRequestsPerMinute > 0 {
					r.Use(httprate.Limit(cfg.AuthRequestsPerMinute, time.Minute,
						httprate.WithKeyFuncs(httprate.KeyByRealIP),
						httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
							api.ErrorResponse(w, r, http.StatusTooManyRequests, MsgTooManyRequests)
						}),
					))
				}
				r.Post("/register", cfg.AuthHandler.Register)
				r.Post("/login", cfg.AuthHandler.Login)
			})

			r.With(cfg.AuthenticateMiddleware).Get("/me", cfg.AuthHandler.Me)
		})

		r.Route("/cars", func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)
			r.Get("/", cfg.CarHandler.ListCars)
			r.Post("/", cfg.CarHandler.CreateCar)
			r.Get("/{id}", cfg.CarHandler.GetCar)
			r.Put("/{id}", cfg.CarHandler.UpdateCar)
			r.Delete("/{id}", cfg.CarHandler.DeleteCar)
		})
	})

	return r
}

type healthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func healthz(logger *slog.Logger, pinger database.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pinger == nil {
			api.SuccessResponse(w, r, http.StatusOK, healthStatus{Status: "ok", Database: "none"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pinger.Ping(ctx); err != nil {
			logger.WarnContext(ctx, "Health check failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		api.SuccessResponse(w, r, http.StatusOK, healthStatus{Status: "ok", Database: "up"})
	}
}
