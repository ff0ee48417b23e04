package printful

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mohamedEMHA/scarmo/internal/domain"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL = "https://api.printful.com"
	provider       = "printful"

	// maxResponseSize bounds how much of an upstream body is buffered.
	maxResponseSize = 10 << 20
)

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Logger  *slog.Logger
}

// Client talks to the Printful REST API. Safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger
	maxBody    int64
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	c := &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger:  cfg.Logger,
		maxBody: maxResponseSize,
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        provider,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return c
}

// isBreakerSuccess treats client-side rejections and caller cancellation as
// healthy upstream behaviour; only transport failures and 5xx trip the breaker.
func isBreakerSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var ue *domain.UpstreamError
	if errors.As(err, &ue) && ue.StatusCode >= 400 && ue.StatusCode < 500 {
		return true
	}
	return false
}

// ListProducts returns the raw /store/products payload.
func (c *Client) ListProducts(ctx context.Context) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, "/store/products", nil, "Failed to fetch products from Printful")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// GetProduct returns the raw /store/products/{id} payload.
func (c *Client) GetProduct(ctx context.Context, id int64) (json.RawMessage, error) {
	path := fmt.Sprintf("/store/products/%d", id)
	body, err := c.do(ctx, http.MethodGet, path, nil, "Failed to fetch product details from Printful")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

type orderEnvelope struct {
	Code   int                   `json:"code"`
	Result domain.SubmittedOrder `json:"result"`
}

func (c *Client) CreateOrder(ctx context.Context, order domain.FulfillmentOrder) (*domain.SubmittedOrder, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("marshal order failed: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/orders", payload, "Failed to create Printful order")
	if err != nil {
		return nil, err
	}

	var env orderEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &domain.UpstreamError{Provider: provider, Message: "unreadable order response", Err: err}
	}
	return &env.Result, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, failMsg string) ([]byte, error) {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.send(ctx, method, path, payload, failMsg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &domain.UpstreamError{
			Provider:   provider,
			StatusCode: http.StatusServiceUnavailable,
			Message:    "provider temporarily unavailable",
			Err:        err,
		}
	}
	return body, err
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, failMsg string) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build printful request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Provider: provider, Message: failMsg, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, &domain.UpstreamError{Provider: provider, Message: failMsg, Err: err}
	}
	if int64(len(body)) > c.maxBody {
		return nil, &domain.UpstreamError{
			Provider: provider,
			Message:  failMsg,
			Err:      fmt.Errorf("response body exceeds %d bytes", c.maxBody),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WarnContext(ctx, "printful returned non-2xx",
			"method", method, "path", path, "status", resp.StatusCode)
		return nil, &domain.UpstreamError{Provider: provider, StatusCode: resp.StatusCode, Message: failMsg}
	}
	return body, nil
}
