package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/mohamedEMHA/scarmo/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockStatusService struct {
	created []string
	checks  []domain.StatusCheck
	err     error
}

func (m *mockStatusService) CreateStatusCheck(_ context.Context, name string) (*domain.StatusCheck, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = append(m.created, name)
	return &domain.StatusCheck{
		ID:         "2f1d6a9e-1111-4c1a-9d7e-000000000001",
		ClientName: name,
		Timestamp:  time.Date(2024, 3, 4, 5, 6, 7, 8000000, time.UTC),
	}, nil
}

func (m *mockStatusService) ListStatusChecks(context.Context) ([]domain.StatusCheck, error) {
	return m.checks, m.err
}

type mockCheckoutService struct {
	req  *domain.CheckoutSessionRequest
	resp *domain.CheckoutSessionResponse
	err  error
}

func (m *mockCheckoutService) CreateCheckoutSession(_ context.Context, req *domain.CheckoutSessionRequest) (*domain.CheckoutSessionResponse, error) {
	m.req = req
	return m.resp, m.err
}

type mockCatalogService struct {
	payload json.RawMessage
	err     error
	gotID   int64
}

func (m *mockCatalogService) ListProducts(context.Context) (json.RawMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.payload, nil
}

func (m *mockCatalogService) GetProduct(_ context.Context, id int64) (json.RawMessage, error) {
	m.gotID = id
	if id <= 0 {
		return nil, domain.NewValidationError("id", "must be a positive integer")
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.payload, nil
}

type mockShippingService struct {
	err error
}

func (m *mockShippingService) QuoteShippingRates(context.Context, *domain.ShippingRatesRequest) (*domain.ShippingRatesResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.ShippingRatesResponse{Success: true, Rates: domain.FlatShippingRates()}, nil
}

var errBadSignature = errors.New("webhook has invalid signature")

type mockEventParser struct {
	event *domain.PaymentEvent
}

func (m *mockEventParser) ParseEvent(payload []byte, signature string) (*domain.PaymentEvent, error) {
	if signature != "valid" {
		return nil, errBadSignature
	}
	return m.event, nil
}

type mockEventHandler struct {
	mu     sync.Mutex
	events []*domain.PaymentEvent
	ctxErr error
	err    error
}

func (m *mockEventHandler) HandleEvent(ctx context.Context, ev *domain.PaymentEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	m.ctxErr = ctx.Err()
	return m.err
}
