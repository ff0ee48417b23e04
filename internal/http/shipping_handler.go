package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mohamedEMHA/scarmo/internal/domain"
)

type ShippingService interface {
	QuoteShippingRates(ctx context.Context, req *domain.ShippingRatesRequest) (*domain.ShippingRatesResponse, error)
}

type ShippingHandler struct {
	svc     ShippingService
	timeout time.Duration
	logger  *slog.Logger
}

func NewShippingHandler(svc ShippingService, timeout time.Duration, logger *slog.Logger) *ShippingHandler {
	return &ShippingHandler{
		svc:     svc,
		timeout: timeout,
		logger:  logger,
	}
}

func (h *ShippingHandler) QuoteRates(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req domain.ShippingRatesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, http.StatusUnprocessableEntity, err)
		return
	}
	if req.Recipient == nil {
		writeError(w, r, h.logger, http.StatusUnprocessableEntity, missingField("recipient"))
		return
	}

	resp, err := h.svc.QuoteShippingRates(ctx, &req)
	if err != nil {
		writeError(w, r, h.logger, http.StatusBadRequest, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
