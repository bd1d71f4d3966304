package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/FACorreiaa/go-car-catalog/internal/api"
	"github.com/FACorreiaa/go-car-catalog/internal/types"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
	ClaimsKey contextKey = "claims"
)

// Authenticate rejects requests without a valid bearer token and stores the claims in the context.
func Authenticate(logger *slog.Logger, verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				l.DebugContext(ctx, "Missing Authorization header")
				api.ErrorResponse(w, r, http.StatusUnauthorized, api.MsgAuthRequired)
				return
			}

			scheme, tokenString, found := strings.Cut(authHeader, " ")
			tokenString = strings.TrimSpace(tokenString)
			if !found || !strings.EqualFold(scheme, "bearer") || tokenString == "" {
				l.DebugContext(ctx, "Invalid Authorization header format")
				api.ErrorResponse(w, r, http.StatusUnauthorized, api.MsgAuthRequired)
				return
			}

			claims, err := verifier.Verify(tokenString)
			if err != nil {
				l.WarnContext(ctx, "Token validation failed", slog.Any("error", err))
				api.ErrorResponse(w, r, http.StatusUnauthorized, api.MsgInvalidToken)
				return
			}

			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, ClaimsKey, claims)
			l.DebugContext(ctx, "Authentication successful", slog.Int64("userID", claims.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok && userID != 0
}

func GetClaimsFromContext(ctx context.Context) (*types.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*types.Claims)
	return claims, ok
}

// WithUserID returns a context carrying userID as if Authenticate had run.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}
