package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-car-catalog/app/db"
	"github.com/FACorreiaa/go-car-catalog/app/observability/metrics"
	"github.com/FACorreiaa/go-car-catalog/internal/types"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo is the credential store. Emails are matched exactly as stored.
type AuthRepo interface {
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	GetUserByID(ctx context.Context, id int64) (*types.User, error)
	CreateUser(ctx context.Context, email, passwordHash string, name *string) (*types.User, error)
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool database.Pool
}

func NewPostgresAuthRepo(pgpool database.Pool, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const userColumns = `id, email, password_hash, name, created_at`

func scanUser(row pgx.Row) (*types.User, error) {
	var u types.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail returns ErrNotFound when no account uses email.
func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetUserByEmail", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	start := time.Now()
	user, err := scanUser(r.pgpool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email))
	metrics.Get().RecordQuery(ctx, "users", "SELECT", start, ignoreNoRows(err))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "user not found")
			return nil, types.ErrNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		r.logger.ErrorContext(ctx, "Failed to query user by email", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching user by email: %w", err)
	}

	span.SetStatus(codes.Ok, "user found")
	return user, nil
}

// GetUserByID returns ErrNotFound when the id is unknown.
func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, id int64) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetUserByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
		attribute.Int64("user.id", id),
	))
	defer span.End()

	start := time.Now()
	user, err := scanUser(r.pgpool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
	metrics.Get().RecordQuery(ctx, "users", "SELECT", start, ignoreNoRows(err))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "user not found")
			return nil, types.ErrNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		r.logger.ErrorContext(ctx, "Failed to query user by id", slog.Any("error", err), slog.Int64("userID", id))
		return nil, fmt.Errorf("error fetching user by id: %w", err)
	}

	span.SetStatus(codes.Ok, "user found")
	return user, nil
}

// CreateUser inserts a new account. A duplicate email yields ErrConflict.
func (r *PostgresAuthRepo) CreateUser(ctx context.Context, email, passwordHash string, name *string) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "CreateUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	start := time.Now()
	user, err := scanUser(r.pgpool.QueryRow(ctx,
		"INSERT INTO users (email, password_hash, name) VALUES ($1, $2, $3) RETURNING "+userColumns,
		email, passwordHash, name))
	metrics.Get().RecordQuery(ctx, "users", "INSERT", start, err)
	if err != nil {
		if database.IsUniqueViolation(err) {
			span.SetStatus(codes.Error, "duplicate email")
			return nil, types.ErrConflict
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		r.logger.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	span.SetStatus(codes.Ok, "user created")
	return user, nil
}

func ignoreNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}
