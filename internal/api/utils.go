package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/FACorreiaa/go-car-catalog/internal/types"
)

const (
	MsgInternalError  = "internal server error"
	MsgRouteNotFound  = "route not found"
	MsgAuthRequired   = "authentication required"
	MsgInvalidToken   = "invalid or expired token"
	MsgInvalidPayload = "invalid request payload"
)

// ErrorResponse writes a failure envelope.
func ErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	WriteJSONResponse(w, r, status, types.Response{
		Success: false,
		Error:   message,
	})
}

// SuccessResponse writes a success envelope around data.
func SuccessResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	WriteJSONResponse(w, r, status, types.Response{
		Success: true,
		Data:    data,
	})
}

// PaginatedResponse writes a success envelope with pagination metadata.
func PaginatedResponse(w http.ResponseWriter, r *http.Request, data any, pagination types.Pagination) {
	WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success:    true,
		Data:       data,
		Pagination: &pagination,
	})
}

// HandleServiceError maps a service error onto the envelope. Domain errors expose their
// message; anything else is logged and reported as a generic internal error.
func HandleServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var domainErr *types.DomainError
	message := ""
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}

	switch {
	case errors.Is(err, types.ErrValidation), errors.Is(err, types.ErrConflict):
		ErrorResponse(w, r, http.StatusBadRequest, orDefault(message, err.Error()))
	case errors.Is(err, types.ErrUnauthenticated):
		ErrorResponse(w, r, http.StatusUnauthorized, orDefault(message, MsgAuthRequired))
	case errors.Is(err, types.ErrNotFound):
		ErrorResponse(w, r, http.StatusNotFound, orDefault(message, "not found"))
	default:
		logger.ErrorContext(r.Context(), "Unhandled service error",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		ErrorResponse(w, r, http.StatusInternalServerError, MsgInternalError)
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// WriteJSONResponse encodes the data to JSON and writes the response header and body.
func WriteJSONResponse(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	js, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to marshal JSON response",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"` + MsgInternalError + `"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(js); err != nil {
		// Status already sent.
		slog.ErrorContext(r.Context(), "Failed to write response body",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	}
}

// DecodeJSONBody reads and decodes a JSON request body safely.
// Unknown keys are ignored so clients may echo back full records.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")

		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q (wanted %s)", unmarshalTypeError.Field, unmarshalTypeError.Type)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")

		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)

		case errors.As(err, &invalidUnmarshalError):
			panic(fmt.Errorf("developer error: invalid argument passed to json.Unmarshal: %w", err))

		default:
			return fmt.Errorf("error decoding JSON body: %w", err)
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}
