package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mohamedEMHA/scarmo/internal/domain"
)

// PaymentProcessor creates hosted checkout sessions.
type PaymentProcessor interface {
	CreateCheckoutSession(ctx context.Context, params domain.SessionParams) (*domain.CheckoutSession, error)
}

var ShippingCountries = []string{"US", "CA", "GB", "AU", "DE", "FR", "ES", "IT"}

type CheckoutConfig struct {
	SuccessURL       string
	CancelURL        string
	Currency         string
	AllowedCountries []string
}

// NewCheckoutConfig derives the redirect URLs from the storefront base URL.
// {CHECKOUT_SESSION_ID} is substituted by the processor.
func NewCheckoutConfig(frontendURL string) CheckoutConfig {
	base := strings.TrimRight(frontendURL, "/")
	return CheckoutConfig{
		SuccessURL:       base + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:        base + "/",
		Currency:         "usd",
		AllowedCountries: ShippingCountries,
	}
}

type CheckoutService struct {
	processor PaymentProcessor
	cfg       CheckoutConfig
	timeout   time.Duration
	logger    *slog.Logger
}

func NewCheckoutService(processor PaymentProcessor, cfg CheckoutConfig, timeout time.Duration, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		processor: processor,
		cfg:       cfg,
		timeout:   timeout,
		logger:    logger,
	}
}

func (s *CheckoutService) CreateCheckoutSession(ctx context.Context, req *domain.CheckoutSessionRequest) (*domain.CheckoutSessionResponse, error) {
	params, total, err := s.buildSessionParams(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	session, err := s.processor.CreateCheckoutSession(ctx, params)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "checkout session created",
		"session_id", session.ID,
		"line_items", len(params.LineItems),
		"amount_total", total)

	return &domain.CheckoutSessionResponse{
		Success:   true,
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}

// buildSessionParams prices the cart and returns the processor request along
// with the amount, in minor units, the customer will be charged.
func (s *CheckoutService) buildSessionParams(req *domain.CheckoutSessionRequest) (domain.SessionParams, int64, error) {
	totals, err := domain.PriceCart(req.Items)
	if err != nil {
		return domain.SessionParams{}, 0, err
	}

	lineItems := make([]domain.LineItem, 0, len(totals.Lines)+1)
	sessionItems := make([]domain.SessionItem, 0, len(totals.Lines))
	for _, line := range totals.Lines {
		lineItems = append(lineItems, domain.LineItem{
			Name:       line.Item.Name,
			UnitAmount: line.UnitAmount,
			Quantity:   line.Item.Quantity,
			Image:      line.Item.Image,
			Metadata: map[string]string{
				"printful_variant_id": strconv.FormatInt(line.Item.VariantID, 10),
				"printful_product_id": strconv.FormatInt(line.Item.ProductID, 10),
			},
		})
		sessionItems = append(sessionItems, domain.SessionItem{
			VariantID: line.Item.VariantID,
			Quantity:  line.Item.Quantity,
			ProductID: line.Item.ProductID,
		})
	}

	total := totals.Total
	shippingMethod := ""
	if ship := req.Shipping; ship != nil && strings.TrimSpace(ship.Rate) != "" {
		rate, err := domain.ParseAmount("shipping.rate", ship.Rate)
		if err != nil {
			return domain.SessionParams{}, 0, err
		}
		amount := domain.ToMinorUnits(rate)
		if total > math.MaxInt64-amount {
			return domain.SessionParams{}, 0, domain.NewValidationError("shipping.rate", "cart total overflows")
		}
		lineItems = append(lineItems, domain.LineItem{
			Name:       "Shipping - " + ship.Name,
			UnitAmount: amount,
			Quantity:   1,
		})
		total += amount
		shippingMethod = ship.ID
	}

	itemsJSON, err := json.Marshal(sessionItems)
	if err != nil {
		return domain.SessionParams{}, 0, fmt.Errorf("encode session items: %w", err)
	}
	customer := domain.Customer{}
	if req.Customer != nil {
		customer = *req.Customer
	}
	customerJSON, err := json.Marshal(customer)
	if err != nil {
		return domain.SessionParams{}, 0, fmt.Errorf("encode customer: %w", err)
	}

	return domain.SessionParams{
		LineItems:        lineItems,
		Currency:         s.cfg.Currency,
		SuccessURL:       s.cfg.SuccessURL,
		CancelURL:        s.cfg.CancelURL,
		CustomerEmail:    req.CustomerEmail(),
		AllowedCountries: s.cfg.AllowedCountries,
		Metadata: map[string]string{
			"items":           string(itemsJSON),
			"customer":        string(customerJSON),
			"shipping_method": shippingMethod,
		},
	}, total, nil
}
