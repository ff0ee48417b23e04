package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/mohamedEMHA/scarmo/internal/domain"
)

// maxRequestBodySize bounds every JSON request body.
const maxRequestBodySize = 1 << 20 // 1MB

type ErrorResponse struct {
	Detail string `json:"detail"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, &ErrorResponse{Detail: detail})
}

// requestError is a malformed or incomplete request body. It always maps
// to 422.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func missingField(field string) error {
	return &requestError{msg: field + ": field required"}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &requestError{msg: "request body is empty"}
		}
		return &requestError{msg: fmt.Sprintf("invalid JSON body: %v", err)}
	}
	return nil
}

// statusFor maps a service error to an HTTP status. validation is the status
// used for domain validation failures, which differs between endpoints.
func statusFor(err error, validation int) int {
	var (
		reqErr     *requestError
		validErr   *domain.ValidationError
		upErr      *domain.UpstreamError
		storageErr *domain.StorageError
	)
	switch {
	case errors.As(err, &reqErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &validErr):
		return validation
	case errors.As(err, &upErr):
		return upErr.HTTPStatus()
	case errors.As(err, &storageErr):
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// writeError logs the failure with the request id and route, then writes
// {"detail": ...}.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, err error) {
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(r.Context(), level, "request failed",
		"request_id", middleware.GetReqID(r.Context()),
		"route", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err)
	respondError(w, status, detail(err))
}

func detail(err error) string {
	var upErr *domain.UpstreamError
	if errors.As(err, &upErr) && upErr.Message != "" {
		return upErr.Message
	}
	return err.Error()
}
