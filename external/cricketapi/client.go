package cricketapi

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/riskibarqy/cricket-hub/internal/platform/resilience"
	"github.com/riskibarqy/cricket-hub/internal/usecase"
)

const (
	defaultTimeout     = 15 * time.Second
	defaultBackoffStep = 500 * time.Millisecond
	maxResponseBytes   = 4 << 20
)

// TokenSource supplies the bearer token for the current request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken always returns the same token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

type Config struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Tokens         TokenSource
	Logger         *logging.Logger
	CircuitBreaker resilience.BreakerConfig
}

// Client talks to the cricket community REST API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	maxRetries  int
	tokens      TokenSource
	logger      *logging.Logger
	breaker     *resilience.Breaker
	flight      resilience.Group[[]byte]
	backoffStep time.Duration
	now         func() time.Time
}

func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.With("component", "cricketapi")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	c := &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		maxRetries:  max(cfg.MaxRetries, 0),
		tokens:      cfg.Tokens,
		logger:      logger,
		backoffStep: defaultBackoffStep,
		now:         time.Now,
	}
	if cfg.CircuitBreaker.Enabled {
		c.breaker = resilience.NewBreaker(cfg.CircuitBreaker, func(from, to resilience.State) {
			logger.Warn("cricketapi circuit breaker state changed", "from", from, "to", to)
		})
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// BreakerState is exposed for health reporting.
func (c *Client) BreakerState() resilience.Snapshot {
	return c.breaker.Snapshot()
}

func (c *Client) token(ctx context.Context, op string) (string, error) {
	if c.tokens == nil {
		return "", &RequestError{Op: op, Message: "missing credentials", kind: usecase.ErrUnauthorized}
	}
	token, err := c.tokens.Token(ctx)
	if err != nil || strings.TrimSpace(token) == "" {
		return "", &RequestError{Op: op, Message: "missing credentials", kind: usecase.ErrUnauthorized, cause: err}
	}
	return strings.TrimSpace(token), nil
}

// get issues an authenticated GET. Identical concurrent calls made with the
// same token share one upstream request.
func (c *Client) get(ctx context.Context, op, path string, query url.Values, target any) error {
	token, err := c.token(ctx, op)
	if err != nil {
		return err
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := fullURL + "#" + tokenFingerprint(token)
	raw, err, _ := c.flight.Do(ctx, key, func(ctx context.Context) ([]byte, error) {
		return c.guard(ctx, op, func() ([]byte, error) {
			return c.execute(ctx, op, http.MethodGet, fullURL, token, nil, c.maxRetries)
		})
	})
	if err != nil {
		var reqErr *RequestError
		if !stderrors.As(err, &reqErr) {
			return transportError(op, err)
		}
		return err
	}
	return c.decode(op, raw, target)
}

// mutate issues a POST, PUT or DELETE exactly once.
func (c *Client) mutate(ctx context.Context, op, method, path string, body any, target any) error {
	token, err := c.token(ctx, op)
	if err != nil {
		return err
	}

	var payload []byte
	if body != nil {
		payload, err = sonic.Marshal(body)
		if err != nil {
			return &RequestError{Op: op, Message: "could not encode request", kind: usecase.ErrInvalidInput, cause: err}
		}
	}

	fullURL := c.baseURL + path
	preview := curlPreview(method, fullURL, payload)
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("cricketapi.op", op),
			attribute.String("cricketapi.request_curl_preview", preview),
		)
	}
	c.logger.InfoContext(ctx, "cricketapi mutation", "op", op, "method", method, "path", path, "curl_preview", preview)

	raw, err := c.guard(ctx, op, func() ([]byte, error) {
		return c.execute(ctx, op, method, fullURL, token, payload, 0)
	})
	if err != nil {
		return err
	}
	return c.decode(op, raw, target)
}

func (c *Client) guard(ctx context.Context, op string, fn func() ([]byte, error)) ([]byte, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "cricketapi circuit breaker rejected request", "op", op, "state", c.breaker.Snapshot().State)
		return nil, &RequestError{Op: op, Message: "service temporarily unavailable", kind: usecase.ErrDependencyUnavailable, cause: err}
	}

	raw, err := fn()
	if isBreakerFailure(err) {
		c.breaker.RecordFailure()
	} else {
		c.breaker.RecordSuccess()
	}
	return raw, err
}

func (c *Client) execute(ctx context.Context, op, method, fullURL, token string, body []byte, retries int) ([]byte, error) {
	var lastErr *RequestError
	for attempt := 0; attempt <= retries; attempt++ {
		raw, reqErr := c.roundTrip(ctx, op, method, fullURL, token, body)
		if reqErr == nil {
			return raw, nil
		}
		lastErr = reqErr

		retryable := reqErr.Status == 0 || isRetryableStatus(reqErr.Status)
		if !retryable || attempt == retries || ctx.Err() != nil {
			break
		}

		timer := time.NewTimer(time.Duration(attempt+1) * c.backoffStep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, transportError(op, ctx.Err())
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "cricketapi request failed",
		"op", op,
		"method", method,
		"url", fullURL,
		"status", lastErr.Status,
		"error", sanitize(lastErr.Error(), token),
	)
	return nil, lastErr
}

func (c *Client) roundTrip(ctx context.Context, op, method, fullURL, token string, body []byte) ([]byte, *RequestError) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, &RequestError{Op: op, Message: "could not build request", kind: usecase.ErrInvalidInput, cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, transportError(op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(op, resp.StatusCode, raw)
	}
	return raw, nil
}

func (c *Client) decode(op string, raw []byte, target any) error {
	if target == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return &RequestError{
			Op:      op,
			Message: "invalid response from server",
			kind:    usecase.ErrDependencyUnavailable,
			cause:   fmt.Errorf("decode %s response: %w", op, err),
		}
	}
	return nil
}

func tokenFingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

func sanitize(value, token string) string {
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return value
}
