package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mohamedEMHA/scarmo/internal/domain"
)

type CatalogService interface {
	ListProducts(ctx context.Context) (json.RawMessage, error)
	GetProduct(ctx context.Context, id int64) (json.RawMessage, error)
}

type CatalogHandler struct {
	svc     CatalogService
	timeout time.Duration
	logger  *slog.Logger
}

func NewCatalogHandler(svc CatalogService, timeout time.Duration, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		svc:     svc,
		timeout: timeout,
		logger:  logger,
	}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	body, err := h.svc.ListProducts(ctx)
	if err != nil {
		writeError(w, r, h.logger, statusFor(err, http.StatusUnprocessableEntity), err)
		return
	}

	respondRaw(w, http.StatusOK, body)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, h.logger, http.StatusUnprocessableEntity, domain.NewValidationError("id", "must be an integer"))
		return
	}

	body, err := h.svc.GetProduct(ctx, id)
	if err != nil {
		writeError(w, r, h.logger, statusFor(err, http.StatusUnprocessableEntity), err)
		return
	}

	respondRaw(w, http.StatusOK, body)
}

// respondRaw writes a provider payload without re-encoding it.
func respondRaw(w http.ResponseWriter, status int, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
