package car

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-car-catalog/app/observability/metrics"
	"github.com/FACorreiaa/go-car-catalog/internal/types"
)

var _ CarService = (*CarServiceImpl)(nil)

type CarService interface {
	List(ctx context.Context, params types.ListCarsParams) (*types.CarPage, error)
	Get(ctx context.Context, id int64) (*types.Car, error)
	Create(ctx context.Context, input types.CarInput) (*types.Car, error)
	Update(ctx context.Context, id int64, input types.CarInput) (*types.Car, error)
	Delete(ctx context.Context, id int64) (*types.DeleteCarResponse, error)
}

type CarServiceImpl struct {
	logger *slog.Logger
	repo   CarRepo
	now    func() time.Time
}

func NewCarService(repo CarRepo, logger *slog.Logger) *CarServiceImpl {
	return &CarServiceImpl{
		logger: logger,
		repo:   repo,
		now:    time.Now,
	}
}

func (s *CarServiceImpl) List(ctx context.Context, params types.ListCarsParams) (page *types.CarPage, err error) {
	params = NormalizeListParams(params)
	ctx, span := otel.Tracer("CarService").Start(ctx, "List", trace.WithAttributes(
		attribute.Int("page", params.Page),
		attribute.Int("limit", params.Limit),
		attribute.Bool("search", params.Search != ""),
	))
	defer span.End()
	defer func() { metrics.Get().RecordCarOperation(ctx, "list", err) }()

	cars, total, err := s.repo.List(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	if cars == nil {
		cars = []types.Car{}
	}

	span.SetAttributes(attribute.Int64("cars.total", total))
	span.SetStatus(codes.Ok, "cars listed")
	return &types.CarPage{
		Cars: cars,
		Pagination: types.Pagination{
			Page:       params.Page,
			Limit:      params.Limit,
			Total:      total,
			TotalPages: TotalPages(total, params.Limit),
		},
	}, nil
}

func (s *CarServiceImpl) Get(ctx context.Context, id int64) (car *types.Car, err error) {
	ctx, span := otel.Tracer("CarService").Start(ctx, "Get", trace.WithAttributes(attribute.Int64("car.id", id)))
	defer span.End()
	defer func() { metrics.Get().RecordCarOperation(ctx, "get", err) }()

	car, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(span, err, "failed to fetch car")
	}
	span.SetStatus(codes.Ok, "car found")
	return car, nil
}

func (s *CarServiceImpl) Create(ctx context.Context, input types.CarInput) (car *types.Car, err error) {
	ctx, span := otel.Tracer("CarService").Start(ctx, "Create")
	defer span.End()
	defer func() { metrics.Get().RecordCarOperation(ctx, "create", err) }()
	l := s.logger.With(slog.String("method", "Create"))

	candidate, err := ValidateCarInput(input, s.now())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if _, err := s.repo.GetByVIN(ctx, candidate.VIN); err == nil {
		span.SetStatus(codes.Error, "vin taken")
		return nil, types.NewConflictError(MsgVINTaken)
	} else if !errors.Is(err, types.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "vin lookup failed")
		return nil, fmt.Errorf("failed to check vin: %w", err)
	}

	car, err = s.repo.Create(ctx, candidate)
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			span.SetStatus(codes.Error, "vin taken")
			return nil, types.NewConflictError(MsgVINTaken)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		return nil, fmt.Errorf("failed to create car: %w", err)
	}

	span.SetAttributes(attribute.Int64("car.id", car.ID))
	span.SetStatus(codes.Ok, "car created")
	l.InfoContext(ctx, "Car created", slog.Int64("carID", car.ID))
	return car, nil
}

// Update replaces every field of car id. Existence is checked before the payload.
func (s *CarServiceImpl) Update(ctx context.Context, id int64, input types.CarInput) (car *types.Car, err error) {
	ctx, span := otel.Tracer("CarService").Start(ctx, "Update", trace.WithAttributes(attribute.Int64("car.id", id)))
	defer span.End()
	defer func() { metrics.Get().RecordCarOperation(ctx, "update", err) }()
	l := s.logger.With(slog.String("method", "Update"))

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, s.translate(span, err, "failed to fetch car")
	}

	candidate, err := ValidateCarInput(input, s.now())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	owner, err := s.repo.GetByVIN(ctx, candidate.VIN)
	switch {
	case err == nil && owner.ID != id:
		span.SetStatus(codes.Error, "vin taken")
		return nil, types.NewConflictError(MsgVINTakenOther)
	case err != nil && !errors.Is(err, types.ErrNotFound):
		span.RecordError(err)
		span.SetStatus(codes.Error, "vin lookup failed")
		return nil, fmt.Errorf("failed to check vin: %w", err)
	}

	car, err = s.repo.Update(ctx, id, candidate)
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			span.SetStatus(codes.Error, "vin taken")
			return nil, types.NewConflictError(MsgVINTakenOther)
		}
		return nil, s.translate(span, err, "failed to update car")
	}

	span.SetStatus(codes.Ok, "car updated")
	l.InfoContext(ctx, "Car updated", slog.Int64("carID", id))
	return car, nil
}

func (s *CarServiceImpl) Delete(ctx context.Context, id int64) (resp *types.DeleteCarResponse, err error) {
	ctx, span := otel.Tracer("CarService").Start(ctx, "Delete", trace.WithAttributes(attribute.Int64("car.id", id)))
	defer span.End()
	defer func() { metrics.Get().RecordCarOperation(ctx, "delete", err) }()

	if err = s.repo.Delete(ctx, id); err != nil {
		return nil, s.translate(span, err, "failed to delete car")
	}

	span.SetStatus(codes.Ok, "car deleted")
	s.logger.InfoContext(ctx, "Car deleted", slog.Int64("carID", id))
	return &types.DeleteCarResponse{Message: MsgCarDeleted}, nil
}

// translate turns a store miss into the client-facing not-found error and wraps anything else.
func (s *CarServiceImpl) translate(span trace.Span, err error, action string) error {
	if errors.Is(err, types.ErrNotFound) {
		span.SetStatus(codes.Error, "car not found")
		return types.NewNotFoundError(MsgCarNotFound)
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, action)
	return fmt.Errorf("%s: %w", action, err)
}
