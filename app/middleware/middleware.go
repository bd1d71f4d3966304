package appMiddleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/FACorreiaa/go-car-catalog/internal/api"
)

// NotFound answers unmatched routes and unmatched methods alike.
func NotFound(w http.ResponseWriter, r *http.Request) {
	api.ErrorResponse(w, r, http.StatusNotFound, api.MsgRouteNotFound)
}

// Recoverer turns a panic into a 500 envelope and logs the stack.
func Recoverer(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "Recovered from panic",
					slog.Any("panic", rec),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)
				if r.Header.Get("Connection") != "Upgrade" {
					api.ErrorResponse(w, r, http.StatusInternalServerError, api.MsgInternalError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
