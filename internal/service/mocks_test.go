package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/mohamedEMHA/scarmo/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockStatusRepository keeps status checks in insertion order.
type mockStatusRepository struct {
	m      sync.Mutex
	checks []domain.StatusCheck
	err    error
}

func (m *mockStatusRepository) Insert(_ context.Context, c *domain.StatusCheck) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.checks = append(m.checks, *c)
	return nil
}

func (m *mockStatusRepository) List(_ context.Context, limit int64) ([]domain.StatusCheck, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.StatusCheck, 0, len(m.checks))
	for i, c := range m.checks {
		if int64(i) >= limit {
			break
		}
		out = append(out, c)
	}
	return out, nil
}

// mockProcessor captures the params of the last session request.
type mockProcessor struct {
	params  domain.SessionParams
	session *domain.CheckoutSession
	err     error
	calls   int
}

func (m *mockProcessor) CreateCheckoutSession(_ context.Context, params domain.SessionParams) (*domain.CheckoutSession, error) {
	m.calls++
	m.params = params
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

// mockCatalog blocks every call until release is closed, when set.
type mockCatalog struct {
	calls   atomic.Int32
	release chan struct{}
	payload json.RawMessage
	err     error
}

func (m *mockCatalog) ListProducts(ctx context.Context) (json.RawMessage, error) {
	return m.fetch(ctx)
}

func (m *mockCatalog) GetProduct(ctx context.Context, _ int64) (json.RawMessage, error) {
	return m.fetch(ctx)
}

func (m *mockCatalog) fetch(ctx context.Context) (json.RawMessage, error) {
	m.calls.Add(1)
	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.payload, nil
}

type mockSubmitter struct {
	order  *domain.FulfillmentOrder
	result *domain.SubmittedOrder
	err    error
	calls  int
}

func (m *mockSubmitter) CreateOrder(_ context.Context, order domain.FulfillmentOrder) (*domain.SubmittedOrder, error) {
	m.calls++
	m.order = &order
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockLedger struct {
	claimed  map[string]bool
	released []string
	err      error
}

func newMockLedger() *mockLedger {
	return &mockLedger{claimed: make(map[string]bool)}
}

func (m *mockLedger) Claim(_ context.Context, id string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.claimed[id] {
		return false, nil
	}
	m.claimed[id] = true
	return true, nil
}

func (m *mockLedger) Release(_ context.Context, id string) error {
	m.released = append(m.released, id)
	delete(m.claimed, id)
	return nil
}

type mockPublisher struct {
	events []domain.OrderEvent
	err    error
}

func (m *mockPublisher) PublishOrderEvent(_ context.Context, ev domain.OrderEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, ev)
	return nil
}
