package car

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-car-catalog/internal/api"
	"github.com/FACorreiaa/go-car-catalog/internal/types"
)

type CarHandler struct {
	carService CarService
	logger     *slog.Logger
}

func NewCarHandler(carService CarService, logger *slog.Logger) *CarHandler {
	return &CarHandler{
		carService: carService,
		logger:     logger,
	}
}

// carID reads {id}. Anything that is not a positive integer names no car.
func carID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// ListCars godoc
// @Summary      List cars
// @Description  Paginated, searchable and sortable car listing.
// @Tags         cars
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "Page number"      default(1)
// @Param        limit      query     int     false  "Page size (1-100)" default(10)
// @Param        search     query     string  false  "Substring of brand, model or VIN"
// @Param        sortBy     query     string  false  "Sort field" Enums(id, brand, model, year, price, mileage, color, vin, createdAt)
// @Param        sortOrder  query     string  false  "Sort direction" Enums(asc, desc)
// @Success      200        {object}  types.Response{data=[]types.Car}
// @Failure      401        {object}  types.Response
// @Router       /api/cars [get]
func (h *CarHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CarHandler").Start(r.Context(), "ListCars", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/cars"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListCars"))

	params := ParseListParams(r.URL.Query())
	page, err := h.carService.List(ctx, params)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		api.HandleServiceError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "cars listed")
	api.PaginatedResponse(w, r, page.Cars, page.Pagination)
}

// GetCar godoc
// @Summary      Get a car
// @Tags         cars
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Car ID"
// @Success      200  {object}  types.Response{data=types.Car}
// @Failure      401  {object}  types.Response
// @Failure      404  {object}  types.Response
// @Router       /api/cars/{id} [get]
func (h *CarHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CarHandler").Start(r.Context(), "GetCar", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/cars/{id}"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetCar"))

	id, ok := carID(r)
	if !ok {
		span.SetStatus(codes.Error, "invalid id")
		api.ErrorResponse(w, r, http.StatusNotFound, MsgCarNotFound)
		return
	}
	span.SetAttributes(attribute.Int64("car.id", id))

	car, err := h.carService.Get(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		api.HandleServiceError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "car found")
	api.SuccessResponse(w, r, http.StatusOK, car)
}

// CreateCar godoc
// @Summary      Create a car
// @Tags         cars
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      types.CarInput  true  "Car"
// @Success      201   {object}  types.Response{data=types.Car}
// @Failure      400   {object}  types.Response
// @Failure      401   {object}  types.Response
// @Router       /api/cars [post]
func (h *CarHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CarHandler").Start(r.Context(), "CreateCar", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/cars"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateCar"))

	var input types.CarInput
	if err := api.DecodeJSONBody(w, r, &input); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "bad payload")
		api.ErrorResponse(w, r, http.StatusBadRequest, api.MsgInvalidPayload)
		return
	}

	car, err := h.carService.Create(ctx, input)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		api.HandleServiceError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "car created")
	api.SuccessResponse(w, r, http.StatusCreated, car)
}

// UpdateCar godoc
// @Summary      Replace a car
// @Description  Full replace: every field is required.
// @Tags         cars
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Car ID"
// @Param        body  body      types.CarInput  true  "Car"
// @Success      200   {object}  types.Response{data=types.Car}
// @Failure      400   {object}  types.Response
// @Failure      401   {object}  types.Response
// @Failure      404   {object}  types.Response
// @Router       /api/cars/{id} [put]
func (h *CarHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CarHandler").Start(r.Context(), "UpdateCar", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/cars/{id}"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "UpdateCar"))

	id, ok := carID(r)
	if !ok {
		span.SetStatus(codes.Error, "invalid id")
		api.ErrorResponse(w, r, http.StatusNotFound, MsgCarNotFound)
		return
	}
	span.SetAttributes(attribute.Int64("car.id", id))

	var input types.CarInput
	if err := api.DecodeJSONBody(w, r, &input); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "bad payload")
		api.ErrorResponse(w, r, http.StatusBadRequest, api.MsgInvalidPayload)
		return
	}

	car, err := h.carService.Update(ctx, id, input)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		api.HandleServiceError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "car updated")
	api.SuccessResponse(w, r, http.StatusOK, car)
}

// DeleteCar godoc
// @Summary      Delete a car
// @Tags         cars
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Car ID"
// @Success      200  {object}  types.Response{data=types.DeleteCarResponse}
// @Failure      401  {object}  types.Response
// @Failure      404  {object}  types.Response
// @Router       /api/cars/{id} [delete]
func (h *CarHandler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CarHandler").Start(r.Context(), "DeleteCar", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/cars/{id}"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "DeleteCar"))

	id, ok := carID(r)
	if !ok {
		span.SetStatus(codes.Error, "invalid id")
		api.ErrorResponse(w, r, http.StatusNotFound, MsgCarNotFound)
		return
	}
	span.SetAttributes(attribute.Int64("car.id", id))

	resp, err := h.carService.Delete(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		api.HandleServiceError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "car deleted")
	api.SuccessResponse(w, r, http.StatusOK, resp)
}
