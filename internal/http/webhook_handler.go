package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/mohamedEMHA/scarmo/internal/domain"
	"github.com/mohamedEMHA/scarmo/internal/service"
)

// maxWebhookBodySize matches the processor's documented payload ceiling.
const maxWebhookBodySize = 65536

type EventParser interface {
	ParseEvent(payload []byte, signature string) (*domain.PaymentEvent, error)
}

type EventHandler interface {
	HandleEvent(ctx context.Context, ev *domain.PaymentEvent) error
}

type WebhookHandler struct {
	parser  EventParser
	events  EventHandler
	timeout time.Duration
	logger  *slog.Logger
}

func NewWebhookHandler(parser EventParser, events EventHandler, timeout time.Duration, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		parser:  parser,
		events:  events,
		timeout: timeout,
		logger:  logger,
	}
}

// Receive verifies the signature and processes the event. Once verified the
// event is always acknowledged; processing failures are logged and the
// processor's redelivery retries them.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodySize))
	if err != nil {
		writeError(w, r, h.logger, http.StatusBadRequest, webhookError(err))
		return
	}

	ev, err := h.parser.ParseEvent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		writeError(w, r, h.logger, http.StatusBadRequest, webhookError(err))
		return
	}

	// Order submission must not be cut short by the sender hanging up.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.timeout)
	defer cancel()

	if err := h.events.HandleEvent(ctx, ev); err != nil {
		if service.IsDuplicate(err) {
			h.logger.InfoContext(ctx, "duplicate webhook event acknowledged", "event_id", ev.ID)
		} else {
			h.logger.ErrorContext(ctx, "webhook processing failed",
				"request_id", middleware.GetReqID(r.Context()),
				"event_id", ev.ID,
				"type", ev.Type,
				"error", err)
		}
	}

	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}

type webhookErr struct{ err error }

func (e webhookErr) Error() string { return "Webhook Error: " + e.err.Error() }

func (e webhookErr) Unwrap() error { return e.err }

func webhookError(err error) error { return webhookErr{err: err} }
