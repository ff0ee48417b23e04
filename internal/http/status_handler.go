package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mohamedEMHA/scarmo/internal/domain"
)

type StatusService interface {
	CreateStatusCheck(ctx context.Context, clientName string) (*domain.StatusCheck, error)
	ListStatusChecks(ctx context.Context) ([]domain.StatusCheck, error)
}

type StatusHandler struct {
	svc     StatusService
	timeout time.Duration
	logger  *slog.Logger
}

func NewStatusHandler(svc StatusService, timeout time.Duration, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{
		svc:     svc,
		timeout: timeout,
		logger:  logger,
	}
}

func (h *StatusHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req domain.StatusCheckCreate
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, http.StatusUnprocessableEntity, err)
		return
	}
	if req.ClientName == nil {
		writeError(w, r, h.logger, http.StatusUnprocessableEntity, missingField("client_name"))
		return
	}

	check, err := h.svc.CreateStatusCheck(ctx, *req.ClientName)
	if err != nil {
		writeError(w, r, h.logger, statusFor(err, http.StatusUnprocessableEntity), err)
		return
	}

	respondJSON(w, http.StatusOK, check)
}

func (h *StatusHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	checks, err := h.svc.ListStatusChecks(ctx)
	if err != nil {
		writeError(w, r, h.logger, statusFor(err, http.StatusUnprocessableEntity), err)
		return
	}
	if checks == nil {
		checks = []domain.StatusCheck{}
	}

	respondJSON(w, http.StatusOK, checks)
}
