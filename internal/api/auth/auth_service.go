package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-car-catalog/app/observability/metrics"
	"github.com/FACorreiaa/go-car-catalog/internal/types"
)

const (
	MsgCredentialsRequired = "email and password are required"
	MsgPasswordTooShort    = "password must be at least 6 characters"
	MsgPasswordTooLong     = "password must be at most 72 bytes"
	MsgEmailTaken          = "user with this email already exists"
	MsgInvalidCredentials  = "invalid email or password"
	MsgUserNotFound        = "user not found"

	minPasswordLength = 6
	// bcrypt rejects longer input.
	maxPasswordBytes = 72
)

var _ AuthService = (*AuthServiceImpl)(nil)

type AuthService interface {
	Register(ctx context.Context, req types.RegisterRequest) (*types.AuthResponse, error)
	Login(ctx context.Context, req types.LoginRequest) (*types.AuthResponse, error)
	VerifyToken(ctx context.Context, token string) (*types.Claims, error)
	GetUser(ctx context.Context, userID int64) (*types.User, error)
}

type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	tokens *TokenManager
}

func NewAuthService(repo AuthRepo, tokens *TokenManager, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		tokens: tokens,
	}
}

// dummyHash is compared against when the email is unknown so both login failures cost one bcrypt round.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("car-catalog-placeholder"), bcrypt.DefaultCost)
	return h
})

// Register creates an account and returns it with a fresh token.
func (s *AuthServiceImpl) Register(ctx context.Context, req types.RegisterRequest) (resp *types.AuthResponse, err error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register")
	defer span.End()
	l := s.logger.With(slog.String("method", "Register"))

	start := time.Now()
	defer func() { metrics.Get().RecordAuth(ctx, "register", start, err) }()

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		span.SetStatus(codes.Error, "missing credentials")
		return nil, types.NewValidationError(MsgCredentialsRequired)
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		span.SetStatus(codes.Error, "password too short")
		return nil, types.NewValidationError(MsgPasswordTooShort)
	}
	if len(req.Password) > maxPasswordBytes {
		span.SetStatus(codes.Error, "password too long")
		return nil, types.NewValidationError(MsgPasswordTooLong)
	}

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		span.SetStatus(codes.Error, "email taken")
		return nil, types.NewConflictError(MsgEmailTaken)
	} else if !errors.Is(err, types.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "hash failed")
		l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	name := normalizeName(req.Name)
	user, err := s.repo.CreateUser(ctx, email, string(hashed), name)
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			span.SetStatus(codes.Error, "email taken")
			return nil, types.NewConflictError(MsgEmailTaken)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "token issue failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	span.SetStatus(codes.Ok, "user registered")
	l.InfoContext(ctx, "User registered", slog.Int64("userID", user.ID))
	return &types.AuthResponse{User: user, Token: token}, nil
}

// Login checks credentials. Unknown email and wrong password fail with the same error.
func (s *AuthServiceImpl) Login(ctx context.Context, req types.LoginRequest) (resp *types.AuthResponse, err error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()
	l := s.logger.With(slog.String("method", "Login"))

	start := time.Now()
	defer func() { metrics.Get().RecordAuth(ctx, "login", start, err) }()

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		span.SetStatus(codes.Error, "missing credentials")
		return nil, types.NewValidationError(MsgCredentialsRequired)
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(req.Password))
			span.SetStatus(codes.Error, "invalid credentials")
			l.DebugContext(ctx, "Login rejected")
			return nil, types.NewAuthError(MsgInvalidCredentials)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		span.SetStatus(codes.Error, "invalid credentials")
		l.DebugContext(ctx, "Login rejected")
		return nil, types.NewAuthError(MsgInvalidCredentials)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "token issue failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	span.SetStatus(codes.Ok, "user logged in")
	l.InfoContext(ctx, "User logged in", slog.Int64("userID", user.ID))
	return &types.AuthResponse{User: user, Token: token}, nil
}

func (s *AuthServiceImpl) VerifyToken(ctx context.Context, token string) (*types.Claims, error) {
	_, span := otel.Tracer("AuthService").Start(ctx, "VerifyToken")
	defer span.End()

	claims, err := s.tokens.Verify(token)
	if err != nil {
		span.SetStatus(codes.Error, "invalid token")
		return nil, types.NewAuthError(ErrInvalidToken.Error())
	}
	span.SetStatus(codes.Ok, "token valid")
	return claims, nil
}

// GetUser re-reads the account so a token outliving its user stops resolving.
func (s *AuthServiceImpl) GetUser(ctx context.Context, userID int64) (*types.User, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "GetUser")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", userID))

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "user not found")
			return nil, types.NewNotFoundError(MsgUserNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	span.SetStatus(codes.Ok, "user found")
	return user, nil
}

func normalizeName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
