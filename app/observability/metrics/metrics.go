package metrics

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	AuthRequestsTotal      metric.Int64Counter
	AuthDurationSeconds    metric.Float64Histogram
	CarOperationsTotal     metric.Int64Counter
	DbQueryDurationSeconds metric.Float64Histogram
	DbQueryErrorsTotal     metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments once from the global MeterProvider.
// Instruments created before the provider is installed are forwarded to it by otel.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("car-catalog")
		var err error
		m := &AppMetrics{}

		m.AuthRequestsTotal, err = meter.Int64Counter(
			"auth_requests_total",
			metric.WithDescription("Total number of register and login attempts"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create auth_requests_total: %v", err)
		}

		m.AuthDurationSeconds, err = meter.Float64Histogram(
			"auth_duration_seconds",
			metric.WithDescription("Duration of register and login operations in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create auth_duration_seconds: %v", err)
		}

		m.CarOperationsTotal, err = meter.Int64Counter(
			"car_operations_total",
			metric.WithDescription("Total number of catalog operations"),
			metric.WithUnit("{operation}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create car_operations_total: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the global AppMetrics, initializing it on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}

// Outcome labels an operation result for counters.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordAuth counts one auth operation and its latency.
func (m *AppMetrics) RecordAuth(ctx context.Context, operation string, start time.Time, err error) {
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", Outcome(err)),
	)
	m.AuthRequestsTotal.Add(ctx, 1, attrs)
	m.AuthDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
}

// RecordCarOperation counts one catalog operation.
func (m *AppMetrics) RecordCarOperation(ctx context.Context, operation string, err error) {
	m.CarOperationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", Outcome(err)),
	))
}

// RecordQuery records a database round trip.
func (m *AppMetrics) RecordQuery(ctx context.Context, table, operation string, start time.Time, err error) {
	attrs := metric.WithAttributes(
		attribute.String("db.sql.table", table),
		attribute.String("db.operation", operation),
	)
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}
