package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"github.com/mohamedEMHA/scarmo/internal/domain"
	"golang.org/x/sync/singleflight"
)

// ProductCatalog is the fulfillment provider's product API.
type ProductCatalog interface {
	ListProducts(ctx context.Context) (json.RawMessage, error)
	GetProduct(ctx context.Context, id int64) (json.RawMessage, error)
}

// CatalogService passes provider payloads through unmodified. Identical
// concurrent requests share one upstream call; nothing is cached.
type CatalogService struct {
	catalog ProductCatalog
	sfg     singleflight.Group
	logger  *slog.Logger
}

func NewCatalogService(catalog ProductCatalog, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		catalog: catalog,
		logger:  logger,
	}
}

func (s *CatalogService) ListProducts(ctx context.Context) (json.RawMessage, error) {
	return s.shared(ctx, "products", func(ctx context.Context) (json.RawMessage, error) {
		return s.catalog.ListProducts(ctx)
	})
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (json.RawMessage, error) {
	if id <= 0 {
		return nil, domain.NewValidationError("id", "must be a positive integer")
	}
	return s.shared(ctx, "product:"+strconv.FormatInt(id, 10), func(ctx context.Context) (json.RawMessage, error) {
		return s.catalog.GetProduct(ctx, id)
	})
}

func (s *CatalogService) shared(ctx context.Context, key string, fetch func(context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	v, err, shared := s.sfg.Do(key, func() (interface{}, error) {
		return fetch(ctx)
	})
	if err != nil && shared && ctx.Err() == nil &&
		(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		// The caller that led the shared fetch gave up; fetch on our own context.
		s.logger.DebugContext(ctx, "shared fetch canceled, retrying alone", "key", key)
		return fetch(ctx)
	}
	if err != nil {
		return nil, err
	}
	return v.(json.RawMessage), nil
}
