package auth

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-car-catalog/internal/api"
	"github.com/FACorreiaa/go-car-catalog/internal/types"
)

type AuthHandler struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      types.RegisterRequest  true  "Registration payload"
// @Success      201   {object}  types.Response{data=types.AuthResponse}
// @Failure      400   {object}  types.Response
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Register", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/auth/register"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "Register"))

	var req types.RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "bad payload")
		api.ErrorResponse(w, r, http.StatusBadRequest, api.MsgInvalidPayload)
		return
	}

	resp, err := h.authService.Register(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		api.HandleServiceError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "registered")
	api.SuccessResponse(w, r, http.StatusCreated, resp)
}

// Login godoc
// @Summary      Log in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      types.LoginRequest  true  "Credentials"
// @Success      200   {object}  types.Response{data=types.AuthResponse}
// @Failure      400   {object}  types.Response
// @Failure      401   {object}  types.Response
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Login", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/auth/login"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "Login"))

	var req types.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "bad payload")
		api.ErrorResponse(w, r, http.StatusBadRequest, api.MsgInvalidPayload)
		return
	}

	resp, err := h.authService.Login(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		api.HandleServiceError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "logged in")
	api.SuccessResponse(w, r, http.StatusOK, resp)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  types.Response{data=types.MeResponse}
// @Failure      401  {object}  types.Response
// @Failure      404  {object}  types.Response
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Me", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/auth/me"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "Me"))

	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, api.MsgAuthRequired)
		return
	}
	span.SetAttributes(semconv.EnduserIDKey.Int64(userID))

	user, err := h.authService.GetUser(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		api.HandleServiceError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "user resolved")
	api.SuccessResponse(w, r, http.StatusOK, types.MeResponse{User: user})
}
