package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mohamedEMHA/scarmo/internal/cache"
	"github.com/mohamedEMHA/scarmo/internal/domain"
)

// OrderSubmitter places orders with the fulfillment provider.
type OrderSubmitter interface {
	CreateOrder(ctx context.Context, order domain.FulfillmentOrder) (*domain.SubmittedOrder, error)
}

type OrderPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

// FulfillmentService turns paid checkout sessions into fulfillment orders.
type FulfillmentService struct {
	orders OrderSubmitter
	ledger cache.EventLedger
	events OrderPublisher
	logger *slog.Logger
	now    func() time.Time
}

func NewFulfillmentService(orders OrderSubmitter, ledger cache.EventLedger, events OrderPublisher, logger *slog.Logger) *FulfillmentService {
	return &FulfillmentService{
		orders: orders,
		ledger: ledger,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// HandleEvent processes one verified payment event. Events other than a
// completed checkout are ignored. A redelivered event returns ErrDuplicateEvent.
func (s *FulfillmentService) HandleEvent(ctx context.Context, ev *domain.PaymentEvent) error {
	if ev.Type != domain.EventCheckoutSessionCompleted || ev.Session == nil {
		s.logger.DebugContext(ctx, "ignoring payment event", "event_id", ev.ID, "type", ev.Type)
		return nil
	}

	claimed, err := s.ledger.Claim(ctx, ev.ID)
	if err != nil {
		// Proceed without de-duplication.
		s.logger.WarnContext(ctx, "event ledger unavailable", "event_id", ev.ID, "error", err)
		claimed = true
	}
	if !claimed {
		return ErrDuplicateEvent
	}

	submitted, order, err := s.submit(ctx, ev.Session)
	if err != nil {
		if relErr := s.ledger.Release(ctx, ev.ID); relErr != nil {
			s.logger.WarnContext(ctx, "failed to release event", "event_id", ev.ID, "error", relErr)
		}
		return err
	}

	s.logger.InfoContext(ctx, "order created successfully",
		"fulfillment_order_id", submitted.ID, "checkout_session_id", ev.Session.ID)

	event := domain.OrderEvent{
		Event:              domain.EventOrderSubmitted,
		CheckoutSessionID:  ev.Session.ID,
		FulfillmentOrderID: submitted.ID,
		Items:              order.Items,
		Total:              order.RetailCosts.Total,
		Currency:           order.RetailCosts.Currency,
		OccurredAt:         s.now().UTC(),
	}
	if err := s.events.PublishOrderEvent(ctx, event); err != nil {
		// The order is already placed; the event is best effort.
		s.logger.ErrorContext(ctx, "failed to publish order event",
			"checkout_session_id", ev.Session.ID, "error", err)
	}
	return nil
}

func (s *FulfillmentService) submit(ctx context.Context, session *domain.CompletedSession) (*domain.SubmittedOrder, domain.FulfillmentOrder, error) {
	order, err := BuildFulfillmentOrder(session)
	if err != nil {
		return nil, order, err
	}
	submitted, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		return nil, order, fmt.Errorf("submit fulfillment order for %s: %w", session.ID, err)
	}
	return submitted, order, nil
}

// BuildFulfillmentOrder maps a paid session to the provider's order format.
// Items and customer contact details come from the metadata written at
// checkout time.
func BuildFulfillmentOrder(session *domain.CompletedSession) (domain.FulfillmentOrder, error) {
	if session.ShippingAddr == nil {
		return domain.FulfillmentOrder{}, domain.ErrMissingAddress
	}

	var items []domain.SessionItem
	if err := json.Unmarshal([]byte(session.Metadata["items"]), &items); err != nil {
		return domain.FulfillmentOrder{}, fmt.Errorf("%w: items: %v", ErrSessionMetadata, err)
	}
	if len(items) == 0 {
		return domain.FulfillmentOrder{}, fmt.Errorf("%w: no items", ErrSessionMetadata)
	}

	var customer domain.Customer
	if raw := session.Metadata["customer"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &customer); err != nil {
			return domain.FulfillmentOrder{}, fmt.Errorf("%w: customer: %v", ErrSessionMetadata, err)
		}
	}

	email := session.CustomerEmail
	if email == "" {
		email = customer.Email
	}

	addr := session.ShippingAddr
	orderItems := make([]domain.OrderItem, len(items))
	for i, it := range items {
		orderItems[i] = domain.OrderItem{SyncVariantID: it.VariantID, Quantity: it.Quantity}
	}

	return domain.FulfillmentOrder{
		Recipient: domain.Recipient{
			Name:        session.ShippingName,
			Address1:    addr.Line1,
			Address2:    addr.Line2,
			City:        addr.City,
			StateCode:   addr.State,
			CountryCode: addr.Country,
			Zip:         addr.PostalCode,
			Phone:       customer.Phone,
			Email:       email,
		},
		Items: orderItems,
		RetailCosts: domain.RetailCosts{
			Currency: strings.ToUpper(session.Currency),
			Subtotal: domain.FormatMinorUnits(session.AmountSubtotal),
			Shipping: domain.FormatMinorUnits(session.AmountShipping),
			Tax:      domain.FormatMinorUnits(session.AmountTax),
			Total:    domain.FormatMinorUnits(session.AmountTotal),
		},
	}, nil
}

// IsDuplicate reports whether err means the event was already handled.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateEvent)
}
