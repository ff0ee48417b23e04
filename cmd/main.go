package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/mohamedEMHA/scarmo/internal/cache"
	h "github.com/mohamedEMHA/scarmo/internal/http"
	"github.com/mohamedEMHA/scarmo/internal/logger"
	"github.com/mohamedEMHA/scarmo/internal/metrics"
	"github.com/mohamedEMHA/scarmo/internal/payment"
	"github.com/mohamedEMHA/scarmo/internal/printful"
	"github.com/mohamedEMHA/scarmo/internal/publisher"
	"github.com/mohamedEMHA/scarmo/internal/repository"
	"github.com/mohamedEMHA/scarmo/internal/service"
	"github.com/mohamedEMHA/scarmo/internal/telemetry"
)

const serviceName = "storefront"

func main() {
	if err := run(); err != nil {
		slog.Error("storefront stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(log)

	var traceOut io.Writer
	if cfg.TracesToStdout {
		traceOut = os.Stdout
	}
	shutdownTracing, err := telemetry.Setup(telemetry.Config{ServiceName: serviceName, Stdout: traceOut})
	if err != nil {
		return fmt.Errorf("set up tracing: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Set up MongoDB connection
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURL, cfg.DBName)
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	repo := repository.NewMongoRepository(mongoDB)
	if err := repository.EnsureIndexes(ctx, repo); err != nil {
		log.Warn("failed to create status check indexes", "error", err)
	}
	log.Info("connected to MongoDB", "database", cfg.DBName)

	var ledger cache.EventLedger = cache.NopLedger{}
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("redis ping failed, webhook de-duplication degraded", "addr", cfg.RedisAddr, "error", err)
		} else {
			log.Info("redis ping succeeded", "addr", cfg.RedisAddr)
		}
		ledger = cache.NewRedisLedger(redisClient)
	}

	var events interface {
		service.OrderPublisher
		Close() error
	} = publisher.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		events = publisher.NewKafkaPublisher(cfg.KafkaBrokers...)
		log.Info("publishing order events", "brokers", cfg.KafkaBrokers, "topic", publisher.OrdersTopic)
	}

	if cfg.StripeSecretKey == payment.PlaceholderSecretKey {
		log.Warn("STRIPE_SECRET_KEY not set, checkout sessions will be rejected")
	}
	processor := payment.NewStripeProcessor(payment.Config{
		SecretKey: cfg.StripeSecretKey,
		Timeout:   cfg.PaymentTimeout,
	})
	printfulClient := printful.NewClient(printful.Config{
		BaseURL: cfg.PrintfulAPIURL,
		Token:   cfg.PrintfulAPIToken,
		Timeout: cfg.PrintfulTimeout,
		Logger:  log.With("component", "printful"),
	})

	services := h.Services{
		Status:   service.NewStatusService(repo, log),
		Checkout: service.NewCheckoutService(processor, service.NewCheckoutConfig(cfg.FrontendURL), cfg.PaymentTimeout, log),
		Catalog:  service.NewCatalogService(printfulClient, log),
		Shipping: service.NewShippingService(log),
	}
	if cfg.StripeWebhookSecret != "" {
		services.Webhook = payment.NewWebhookVerifier(cfg.StripeWebhookSecret)
		services.Fulfillment = service.NewFulfillmentService(printfulClient, ledger, events, log)
	} else {
		log.Info("STRIPE_WEBHOOK_SECRET not set, webhook route disabled")
	}

	router := h.NewRouter(h.RouterConfig{
		RequestTimeout: cfg.RequestTimeout,
		StatusTimeout:  cfg.StoreTimeout,
		Logger:         log,
		Metrics:        metrics.NewServerMetrics(serviceName),
	}, services)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           otelhttp.NewHandler(router, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("storefront starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server forced to shutdown: %w", err))
		}
		if err := events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close kafka writer: %w", err))
		}
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close redis: %w", err))
			}
		}
		if err := mongoDB.Client().Disconnect(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("disconnect MongoDB: %w", err))
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("flush traces: %w", err))
		}
		return errors.Join(errs...)
	})

	err = g.Wait()
	log.Info("server exited")
	return err
}
