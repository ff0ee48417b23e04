package service

import (
	"context"
	"log/slog"

	"github.com/mohamedEMHA/scarmo/internal/domain"
)

type ShippingService struct {
	logger *slog.Logger
}

func NewShippingService(logger *slog.Logger) *ShippingService {
	return &ShippingService{logger: logger}
}

// QuoteShippingRates returns the flat rate table. Recipient and items do not
// influence the result.
func (s *ShippingService) QuoteShippingRates(ctx context.Context, req *domain.ShippingRatesRequest) (*domain.ShippingRatesResponse, error) {
	country := ""
	if req.Recipient != nil {
		country = req.Recipient.CountryCode
	}
	s.logger.DebugContext(ctx, "quoting shipping rates", "country", country, "items", len(req.Items))

	return &domain.ShippingRatesResponse{
		Success: true,
		Rates:   domain.FlatShippingRates(),
	}, nil
}
