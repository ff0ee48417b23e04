package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mohamedEMHA/scarmo/internal/domain"
)

type CheckoutService interface {
	CreateCheckoutSession(ctx context.Context, req *domain.CheckoutSessionRequest) (*domain.CheckoutSessionResponse, error)
}

type CheckoutHandler struct {
	svc     CheckoutService
	timeout time.Duration
	logger  *slog.Logger
}

func NewCheckoutHandler(svc CheckoutService, timeout time.Duration, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		svc:     svc,
		timeout: timeout,
		logger:  logger,
	}
}

// CreateSession answers 422 for a body that cannot be read as a checkout
// request and 400 for every failure after that, processor errors included.
func (h *CheckoutHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req domain.CheckoutSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, http.StatusUnprocessableEntity, err)
		return
	}
	if req.Items == nil {
		writeError(w, r, h.logger, http.StatusUnprocessableEntity, missingField("items"))
		return
	}

	resp, err := h.svc.CreateCheckoutSession(ctx, &req)
	if err != nil {
		writeError(w, r, h.logger, http.StatusBadRequest, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
