package domain

// LineItem is one entry of a hosted checkout session, priced in minor units.
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
	Image      string
	Metadata   map[string]string
}

type SessionParams struct {
	LineItems        []LineItem
	Currency         string
	SuccessURL       string
	CancelURL        string
	CustomerEmail    string
	AllowedCountries []string
	Metadata         map[string]string
}

type CheckoutSession struct {
	ID  string
	URL string
}

const EventCheckoutSessionCompleted = "checkout.session.completed"

// PaymentEvent is a verified notification from the payment processor. Session
// is only set for checkout.session.completed events.
type PaymentEvent struct {
	ID      string
	Type    string
	Session *CompletedSession
}

type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// CompletedSession is the subset of a paid checkout session needed to place
// the fulfillment order. Amounts are in minor units.
type CompletedSession struct {
	ID             string
	Metadata       map[string]string
	ShippingName   string
	ShippingAddr   *Address
	CustomerEmail  string
	Currency       string
	AmountSubtotal int64
	AmountShipping int64
	AmountTax      int64
	AmountTotal    int64
}
