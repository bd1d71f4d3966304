package car

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	database "github.com/FACorreiaa/go-car-catalog/app/db"
	"github.com/FACorreiaa/go-car-catalog/app/observability/metrics"
	"github.com/FACorreiaa/go-car-catalog/internal/types"
)

var _ CarRepo = (*PostgresCarRepo)(nil)

// CarRepo is the catalog store. VINs are passed in already normalized.
type CarRepo interface {
	List(ctx context.Context, params types.ListCarsParams) ([]types.Car, int64, error)
	GetByID(ctx context.Context, id int64) (*types.Car, error)
	GetByVIN(ctx context.Context, vin string) (*types.Car, error)
	Create(ctx context.Context, car types.Car) (*types.Car, error)
	Update(ctx context.Context, id int64, car types.Car) (*types.Car, error)
	Delete(ctx context.Context, id int64) error
}

type PostgresCarRepo struct {
	logger *slog.Logger
	pgpool database.Pool
}

func NewPostgresCarRepo(pgpool database.Pool, logger *slog.Logger) *PostgresCarRepo {
	return &PostgresCarRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const carColumns = `id, brand, model, year, price, mileage, color, vin, created_at`

func scanCar(row pgx.Row) (*types.Car, error) {
	var c types.Car
	if err := row.Scan(&c.ID, &c.Brand, &c.Model, &c.Year, &c.Price, &c.Mileage, &c.Color, &c.VIN, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append([]attribute.KeyValue{
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "cars"),
	}, attrs...)
	return otel.Tracer("CarRepo").Start(ctx, name, trace.WithAttributes(attrs...))
}

// escapeLike makes search text match literally inside a LIKE pattern.
var escapeLike = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// listFilter returns the WHERE clause and its arguments for a search term.
func listFilter(search string) (string, []any) {
	if search == "" {
		return "", nil
	}
	pattern := "%" + escapeLike.Replace(search) + "%"
	return " WHERE brand ILIKE $1 OR model ILIKE $1 OR vin ILIKE $1", []any{pattern}
}

// List fetches one page and the total match count concurrently.
func (r *PostgresCarRepo) List(ctx context.Context, params types.ListCarsParams) ([]types.Car, int64, error) {
	ctx, span := startSpan(ctx, "List",
		attribute.Int("page", params.Page),
		attribute.Int("limit", params.Limit),
		attribute.String("sort_by", params.SortBy),
		attribute.String("sort_order", params.SortOrder),
	)
	defer span.End()
	l := r.logger.With(slog.String("method", "List"))

	column, ok := SortColumns[params.SortBy]
	if !ok {
		column = SortColumns[DefaultSortBy]
	}
	direction := "DESC"
	if params.SortOrder == "asc" {
		direction = "ASC"
	}

	where, args := listFilter(params.Search)
	n := len(args)
	pageQuery := fmt.Sprintf("SELECT %s FROM cars%s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d",
		carColumns, where, column, direction, direction, n+1, n+2)
	pageArgs := append(append([]any{}, args...), params.Limit, Offset(params))
	countQuery := "SELECT COUNT(*) FROM cars" + where

	var (
		cars  []types.Car
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		start := time.Now()
		rows, err := r.pgpool.Query(gctx, pageQuery, pageArgs...)
		if err != nil {
			metrics.Get().RecordQuery(gctx, "cars", "SELECT", start, err)
			return fmt.Errorf("error querying cars: %w", err)
		}
		defer rows.Close()

		page := make([]types.Car, 0, params.Limit)
		for rows.Next() {
			c, err := scanCar(rows)
			if err != nil {
				return fmt.Errorf("error scanning car row: %w", err)
			}
			page = append(page, *c)
		}
		err = rows.Err()
		metrics.Get().RecordQuery(gctx, "cars", "SELECT", start, err)
		if err != nil {
			return fmt.Errorf("error iterating car rows: %w", err)
		}
		cars = page
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		err := r.pgpool.QueryRow(gctx, countQuery, args...).Scan(&total)
		metrics.Get().RecordQuery(gctx, "cars", "COUNT", start, err)
		if err != nil {
			return fmt.Errorf("error counting cars: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		l.ErrorContext(ctx, "Failed to list cars", slog.Any("error", err))
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("cars.count", len(cars)), attribute.Int64("cars.total", total))
	span.SetStatus(codes.Ok, "cars listed")
	return cars, total, nil
}

// GetByID returns ErrNotFound when the id is unknown.
func (r *PostgresCarRepo) GetByID(ctx context.Context, id int64) (*types.Car, error) {
	ctx, span := startSpan(ctx, "GetByID", attribute.Int64("car.id", id))
	defer span.End()

	return r.getOne(ctx, span, "SELECT "+carColumns+" FROM cars WHERE id = $1", id)
}

// GetByVIN returns ErrNotFound when no car carries vin.
func (r *PostgresCarRepo) GetByVIN(ctx context.Context, vin string) (*types.Car, error) {
	ctx, span := startSpan(ctx, "GetByVIN")
	defer span.End()

	return r.getOne(ctx, span, "SELECT "+carColumns+" FROM cars WHERE vin = $1", vin)
}

func (r *PostgresCarRepo) getOne(ctx context.Context, span trace.Span, query string, arg any) (*types.Car, error) {
	start := time.Now()
	car, err := scanCar(r.pgpool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.Get().RecordQuery(ctx, "cars", "SELECT", start, nil)
		span.SetStatus(codes.Ok, "car not found")
		return nil, types.ErrNotFound
	}
	metrics.Get().RecordQuery(ctx, "cars", "SELECT", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		r.logger.ErrorContext(ctx, "Failed to fetch car", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching car: %w", err)
	}
	span.SetStatus(codes.Ok, "car found")
	return car, nil
}

// Create inserts a car. A VIN already present yields ErrConflict.
func (r *PostgresCarRepo) Create(ctx context.Context, car types.Car) (*types.Car, error) {
	ctx, span := startSpan(ctx, "Create")
	defer span.End()

	start := time.Now()
	created, err := scanCar(r.pgpool.QueryRow(ctx,
		`INSERT INTO cars (brand, model, year, price, mileage, color, vin)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+carColumns,
		car.Brand, car.Model, car.Year, car.Price, car.Mileage, car.Color, car.VIN))
	metrics.Get().RecordQuery(ctx, "cars", "INSERT", start, err)
	if err != nil {
		if database.IsUniqueViolation(err) {
			span.SetStatus(codes.Error, "duplicate vin")
			return nil, types.ErrConflict
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		r.logger.ErrorContext(ctx, "Failed to insert car", slog.Any("error", err))
		return nil, fmt.Errorf("error creating car: %w", err)
	}

	span.SetAttributes(attribute.Int64("car.id", created.ID))
	span.SetStatus(codes.Ok, "car created")
	return created, nil
}

// Update replaces every mutable field of car id.
func (r *PostgresCarRepo) Update(ctx context.Context, id int64, car types.Car) (*types.Car, error) {
	ctx, span := startSpan(ctx, "Update", attribute.Int64("car.id", id))
	defer span.End()

	start := time.Now()
	updated, err := scanCar(r.pgpool.QueryRow(ctx,
		`UPDATE cars SET brand = $1, model = $2, year = $3, price = $4, mileage = $5, color = $6, vin = $7
		 WHERE id = $8
		 RETURNING `+carColumns,
		car.Brand, car.Model, car.Year, car.Price, car.Mileage, car.Color, car.VIN, id))
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.Get().RecordQuery(ctx, "cars", "UPDATE", start, nil)
		span.SetStatus(codes.Error, "car not found")
		return nil, types.ErrNotFound
	}
	metrics.Get().RecordQuery(ctx, "cars", "UPDATE", start, err)
	if err != nil {
		if database.IsUniqueViolation(err) {
			span.SetStatus(codes.Error, "duplicate vin")
			return nil, types.ErrConflict
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB update failed")
		r.logger.ErrorContext(ctx, "Failed to update car", slog.Any("error", err), slog.Int64("carID", id))
		return nil, fmt.Errorf("error updating car: %w", err)
	}

	span.SetStatus(codes.Ok, "car updated")
	return updated, nil
}

// Delete removes car id, or returns ErrNotFound.
func (r *PostgresCarRepo) Delete(ctx context.Context, id int64) error {
	ctx, span := startSpan(ctx, "Delete", attribute.Int64("car.id", id))
	defer span.End()

	start := time.Now()
	tag, err := r.pgpool.Exec(ctx, "DELETE FROM cars WHERE id = $1", id)
	metrics.Get().RecordQuery(ctx, "cars", "DELETE", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB delete failed")
		r.logger.ErrorContext(ctx, "Failed to delete car", slog.Any("error", err), slog.Int64("carID", id))
		return fmt.Errorf("error deleting car: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "car not found")
		return types.ErrNotFound
	}

	span.SetStatus(codes.Ok, "car deleted")
	return nil
}
