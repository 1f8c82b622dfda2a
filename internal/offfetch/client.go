package offfetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultTimeout   = 90 * time.Second
	defaultPageSize  = 100
	defaultUserAgent = "mealprep/dev"
	requestedFields  = "product_name,product_name_nl,nutriments,quantity"
)

// Config captures the settings of the search client.
type Config struct {
	BaseURL   string
	Country   string
	PageSize  int
	Timeout   time.Duration
	Backoff   []time.Duration
	UserAgent string
}

// StatusError is returned for HTTP responses with a status of 400 or above.
// These are never retried.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("off search: http %d: %s", e.StatusCode, body)
}

// Client wraps the Open Food Facts search endpoint.
type Client struct {
	cfg     Config
	http    *resty.Client
	sleeper func(context.Context, time.Duration) error
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = resty.NewWithClient(client)
		}
	}
}

// WithSleeper overrides how retry waits are performed (useful for tests).
func WithSleeper(sleeper func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		if sleeper != nil {
			c.sleeper = sleeper
		}
	}
}

// NewClient constructs a search client.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Country = strings.TrimSpace(cfg.Country)
	cfg.UserAgent = strings.TrimSpace(cfg.UserAgent)
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	client := &Client{
		cfg:     cfg,
		http:    resty.New(),
		sleeper: sleepContext,
	}
	for _, opt := range opts {
		opt(client)
	}
	client.http.
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")
	return client
}

// FetchPage requests one page of products. Transport failures and timeouts
// are retried once per configured backoff step; HTTP errors are returned
// immediately as *StatusError.
func (c *Client) FetchPage(ctx context.Context, page int) (*SearchResponse, error) {
	attempts := len(c.cfg.Backoff) + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := c.fetchOnce(ctx, page)
		if err == nil {
			return result, nil
		}
		if !retryable(ctx, err) || attempt == attempts {
			lastErr = err
			break
		}
		lastErr = err
		if err := c.sleeper(ctx, c.cfg.Backoff[attempt-1]); err != nil {
			return nil, err
		}
	}
	var statusErr *StatusError
	if errors.As(lastErr, &statusErr) || errors.Is(lastErr, context.Canceled) {
		return nil, lastErr
	}
	return nil, fmt.Errorf("off search page %d: failed after %d attempts: %w", page, attempts, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, page int) (*SearchResponse, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"countries_tags": c.cfg.Country,
			"fields":         requestedFields,
			"page_size":      strconv.Itoa(c.cfg.PageSize),
			"page":           strconv.Itoa(page),
			"json":           "1",
		}).
		Get(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("off search: request (timeout=%s): %w", c.cfg.Timeout, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, &StatusError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	var out SearchResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("off search: decode response: %w", err)
	}
	return &out, nil
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
