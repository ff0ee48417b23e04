package payment

import (
	"encoding/json"
	"fmt"

	"github.com/mohamedEMHA/scarmo/internal/domain"
	"github.com/stripe/stripe-go/v76/webhook"
)

// WebhookVerifier checks webhook signatures and decodes the events the
// storefront reacts to.
type WebhookVerifier struct {
	secret string
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret}
}

type shippingDetails struct {
	Name    string          `json:"name"`
	Address *domain.Address `json:"address"`
}

type sessionPayload struct {
	ID              string            `json:"id"`
	Metadata        map[string]string `json:"metadata"`
	Currency        string            `json:"currency"`
	AmountSubtotal  int64             `json:"amount_subtotal"`
	AmountTotal     int64             `json:"amount_total"`
	ShippingDetails *shippingDetails  `json:"shipping_details"`
	// Newer API versions report the address here instead.
	CollectedInformation *struct {
		ShippingDetails *shippingDetails `json:"shipping_details"`
	} `json:"collected_information"`
	CustomerDetails *struct {
		Email string `json:"email"`
	} `json:"customer_details"`
	ShippingCost *struct {
		AmountSubtotal int64 `json:"amount_subtotal"`
	} `json:"shipping_cost"`
	TotalDetails *struct {
		AmountTax int64 `json:"amount_tax"`
	} `json:"total_details"`
}

func (v *WebhookVerifier) ParseEvent(payload []byte, signature string) (*domain.PaymentEvent, error) {
	// The session is decoded from the raw payload, so events rendered for any
	// account API version are accepted.
	event, err := webhook.ConstructEventWithOptions(payload, signature, v.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, err
	}

	out := &domain.PaymentEvent{ID: event.ID, Type: string(event.Type)}
	if out.Type != domain.EventCheckoutSessionCompleted || event.Data == nil {
		return out, nil
	}

	var s sessionPayload
	if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	out.Session = s.toDomain()
	return out, nil
}

func (s *sessionPayload) toDomain() *domain.CompletedSession {
	cs := &domain.CompletedSession{
		ID:             s.ID,
		Metadata:       s.Metadata,
		Currency:       s.Currency,
		AmountSubtotal: s.AmountSubtotal,
		AmountTotal:    s.AmountTotal,
	}

	sd := s.ShippingDetails
	if sd == nil && s.CollectedInformation != nil {
		sd = s.CollectedInformation.ShippingDetails
	}
	if sd != nil {
		cs.ShippingName = sd.Name
		cs.ShippingAddr = sd.Address
	}
	if s.CustomerDetails != nil {
		cs.CustomerEmail = s.CustomerDetails.Email
	}
	if s.ShippingCost != nil {
		cs.AmountShipping = s.ShippingCost.AmountSubtotal
	}
	if s.TotalDetails != nil {
		cs.AmountTax = s.TotalDetails.AmountTax
	}
	return cs
}
