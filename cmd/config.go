package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mohamedEMHA/scarmo/internal/logger"
	"github.com/mohamedEMHA/scarmo/internal/payment"
	"github.com/mohamedEMHA/scarmo/internal/printful"
)

type Config struct {
	HTTPPort            string
	MongoURL            string
	DBName              string
	StripeSecretKey     string
	StripeWebhookSecret string
	PrintfulAPIToken    string
	PrintfulAPIURL      string
	FrontendURL         string
	RedisAddr           string
	RedisPassword       string
	KafkaBrokers        []string
	LogLevel            slog.Level
	TracesToStdout      bool
	PrintfulTimeout     time.Duration
	PaymentTimeout      time.Duration
	RequestTimeout      time.Duration
	StoreTimeout        time.Duration
	ShutdownTimeout     time.Duration
}

func loadConfig() (*Config, error) {
	cfg := &Config{
		HTTPPort:            getEnv("HTTP_PORT", "8001"),
		MongoURL:            os.Getenv("MONGO_URL"),
		DBName:              os.Getenv("DB_NAME"),
		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", payment.PlaceholderSecretKey),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		PrintfulAPIToken:    os.Getenv("PRINTFUL_API_TOKEN"),
		PrintfulAPIURL:      getEnv("PRINTFUL_API_URL", printful.DefaultBaseURL),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:8080"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		KafkaBrokers:        splitList(os.Getenv("KAFKA_BROKERS")),
		StoreTimeout:        5 * time.Second,
		ShutdownTimeout:     10 * time.Second,
	}

	var errs []error
	if cfg.MongoURL == "" {
		errs = append(errs, errors.New("MONGO_URL is required"))
	}
	if cfg.DBName == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}

	level, err := logger.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	cfg.LogLevel = level

	if cfg.TracesToStdout, err = getBool("OTEL_TRACES_STDOUT", false); err != nil {
		errs = append(errs, err)
	}
	if cfg.PrintfulTimeout, err = getDuration("PRINTFUL_TIMEOUT", 15*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.PaymentTimeout, err = getDuration("PAYMENT_TIMEOUT", 20*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", key, raw)
	}
	return d, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
