package domain

import "time"

type OrderItem struct {
	SyncVariantID int64 `json:"sync_variant_id"`
	Quantity      int64 `json:"quantity"`
}

type RetailCosts struct {
	Currency string `json:"currency"`
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

// FulfillmentOrder is the order submitted to the print-on-demand provider.
type FulfillmentOrder struct {
	Recipient   Recipient   `json:"recipient"`
	Items       []OrderItem `json:"items"`
	RetailCosts RetailCosts `json:"retail_costs"`
}

type SubmittedOrder struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

const EventOrderSubmitted = "order.submitted"

type OrderEvent struct {
	Event              string      `json:"event"`
	CheckoutSessionID  string      `json:"checkout_session_id"`
	FulfillmentOrderID int64       `json:"fulfillment_order_id"`
	Items              []OrderItem `json:"items"`
	Total              string      `json:"total"`
	Currency           string      `json:"currency"`
	OccurredAt         time.Time   `json:"occurred_at"`
}

// SessionItem is the compact cart line stored in checkout session metadata.
type SessionItem struct {
	VariantID int64 `json:"variantId"`
	Quantity  int64 `json:"quantity"`
	ProductID int64 `json:"productId"`
}
