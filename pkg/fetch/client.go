package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"time"

	"behancescraper/pkg/config"
	errs "behancescraper/pkg/errors"
	"behancescraper/pkg/logger"
	"behancescraper/pkg/retry"
)

// Response is a fully read HTTP response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client fetches URLs with a rotating user agent, an optional proxy and
// linear-backoff retries
type Client struct {
	httpClient  *http.Client
	userAgents  []string
	maxAttempts int
	retryDelay  time.Duration
	wait        func(ctx context.Context, delay time.Duration) error
	logger      logger.Logger
}

// NewClient creates a fetch client from the network configuration
func NewClient(cfg config.NetworkConfig, log logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if len(cfg.UserAgents) == 0 {
		return nil, fmt.Errorf("user agent pool is empty")
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableKeepAlives = true
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy address: %w", err)
		}
		// One proxy for both http and https targets
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	maxAttempts := cfg.MaxRetries
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		userAgents:  append([]string(nil), cfg.UserAgents...),
		maxAttempts: maxAttempts,
		retryDelay:  cfg.RetryDelay,
		wait:        retry.Wait,
		logger:      log,
	}, nil
}

// SetTransport replaces the underlying round tripper
func (c *Client) SetTransport(rt http.RoundTripper) {
	c.httpClient.Transport = rt
}

// SetWait replaces the function used to pause between attempts
func (c *Client) SetWait(wait func(ctx context.Context, delay time.Duration) error) {
	c.wait = wait
}

// Fetch performs a GET with retries. After attempt k fails it waits
// k*retryDelay; the last error is returned once all attempts fail.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	cfg := &retry.Config{
		MaxAttempts: c.maxAttempts,
		Backoff:     retry.FixedStepBackoff(c.retryDelay),
		RetryIf:     retry.DefaultRetryIf,
		Wait:        c.wait,
		Logger:      c.logger.WithField("url", rawURL),
		OnRetry: func(attempt int, err error, delay time.Duration) {
			c.logger.WithError(err).WarnWithFields("retrying request", map[string]interface{}{
				"url":          rawURL,
				"attempt":      attempt,
				"max_attempts": c.maxAttempts,
				"delay":        delay,
			})
		},
	}

	resp, err := retry.DoWithResult(ctx, func(ctx context.Context) (*Response, error) {
		return c.fetchOnce(ctx, rawURL)
	}, cfg)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	return resp, nil
}

func (c *Client) fetchOnce(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errs.New(errs.ErrorTypeClient, "failed to create request", err)
	}
	req.Header.Set("User-Agent", c.randomUserAgent())
	req.Header.Set("Connection", "close")
	req.Close = true

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"url": rawURL,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errs.New(errs.ErrorTypeNetwork, "failed to read response body", err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      rawURL,
		"status":   resp.StatusCode,
		"size":     len(body),
		"duration": time.Since(start),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.FromStatus(resp.StatusCode)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (c *Client) randomUserAgent() string {
	return c.userAgents[rand.Intn(len(c.userAgents))]
}

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errs.New(errs.ErrorTypeTimeout, "request timed out", err)
	}
	return errs.New(errs.ErrorTypeNetwork, "request failed", err)
}
