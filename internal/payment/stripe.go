package payment

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mohamedEMHA/scarmo/internal/domain"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	provider = "stripe"

	// PlaceholderSecretKey keeps the client constructible when no key is configured;
	// every call made with it is rejected by the processor.
	PlaceholderSecretKey = "sk_test_placeholder"
)

type Config struct {
	SecretKey string
	// APIURL overrides the processor endpoint; empty means the public API.
	APIURL  string
	Timeout time.Duration
}

// StripeProcessor creates hosted checkout sessions.
type StripeProcessor struct {
	api *client.API
}

func NewStripeProcessor(cfg Config) *StripeProcessor {
	if cfg.SecretKey == "" {
		cfg.SecretKey = PlaceholderSecretKey
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}

	backendCfg := &stripe.BackendConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.APIURL != "" {
		backendCfg.URL = stripe.String(cfg.APIURL)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg)

	return &StripeProcessor{
		api: client.New(cfg.SecretKey, &stripe.Backends{API: backend, Uploads: backend}),
	}
}

func (p *StripeProcessor) CreateCheckoutSession(ctx context.Context, in domain.SessionParams) (*domain.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(in.SuccessURL),
		CancelURL:          stripe.String(in.CancelURL),
	}
	params.Context = ctx

	if in.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(in.CustomerEmail)
	}
	if len(in.AllowedCountries) > 0 {
		params.ShippingAddressCollection = &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(in.AllowedCountries),
		}
	}
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}

	for _, li := range in.LineItems {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name:     stripe.String(li.Name),
			Metadata: li.Metadata,
		}
		if li.Image != "" {
			product.Images = stripe.StringSlice([]string{li.Image})
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(in.Currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(li.UnitAmount),
			},
			Quantity: stripe.Int64(li.Quantity),
		})
	}

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, toUpstreamError(err)
	}
	return &domain.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func toUpstreamError(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		return &domain.UpstreamError{
			Provider:   provider,
			StatusCode: se.HTTPStatusCode,
			Message:    se.Msg,
		}
	}
	return &domain.UpstreamError{Provider: provider, Err: err}
}
