package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mohamedEMHA/scarmo/internal/metrics"
)

type RouterConfig struct {
	RequestTimeout time.Duration
	// StatusTimeout bounds record store calls.
	StatusTimeout time.Duration
	Logger        *slog.Logger
	// Metrics is optional; /metrics is only mounted when set.
	Metrics *metrics.ServerMetrics
}

type Services struct {
	Status   StatusService
	Checkout CheckoutService
	Catalog  CatalogService
	Shipping ShippingService
	// Webhook and Fulfillment are optional; /api/webhook is only mounted when
	// both are set.
	Webhook     EventParser
	Fulfillment EventHandler
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRouter(cfg RouterConfig, svc Services) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestIDHeader)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Instrument)
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc:  func(_ *http.Request, _ string) bool { return true },
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, &HealthResponse{Status: "OK", Timestamp: time.Now().UTC()})
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	statusHandler := NewStatusHandler(svc.Status, cfg.StatusTimeout, cfg.Logger)
	checkoutHandler := NewCheckoutHandler(svc.Checkout, cfg.RequestTimeout, cfg.Logger)
	catalogHandler := NewCatalogHandler(svc.Catalog, cfg.RequestTimeout, cfg.Logger)
	shippingHandler := NewShippingHandler(svc.Shipping, cfg.RequestTimeout, cfg.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"message": "Hello World"})
		})
		r.Route("/status", func(r chi.Router) {
			r.Post("/", statusHandler.Create)
			r.Get("/", statusHandler.List)
		})
		r.Post("/create-checkout-session", checkoutHandler.CreateSession)
		r.Route("/printful/products", func(r chi.Router) {
			r.Get("/", catalogHandler.ListProducts)
			r.Get("/{id}", catalogHandler.GetProduct)
		})
		r.Post("/shipping-rates", shippingHandler.QuoteRates)

		if svc.Webhook != nil && svc.Fulfillment != nil {
			webhookHandler := NewWebhookHandler(svc.Webhook, svc.Fulfillment, cfg.RequestTimeout, cfg.Logger)
			r.Post("/webhook", webhookHandler.Receive)
		}
	})

	return r
}
