package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var (
	// ErrUpstream is returned when the Vector Drawing API cannot deliver usable data.
	ErrUpstream = errors.New("vector drawing api request failed")
	// ErrFetchDisabled is returned when no upstream base URL is configured.
	ErrFetchDisabled = errors.New("fetching vector data is not configured")
	// ErrForeignURL is returned for absolute URLs outside the configured upstream.
	ErrForeignURL = errors.New("vector_data_url is outside the configured vector drawing api")
)

// maxUpstreamBody caps how much of an upstream response is read.
const maxUpstreamBody = 64 << 20

// VectorAPIConfig configures a VectorAPIClient.
type VectorAPIConfig struct {
	BaseURL           string
	Token             string
	Timeout           time.Duration
	RetryMax          int
	RequestsPerMinute float64
}

// VectorAPIClient fetches raw vector data from the Vector Drawing API.
type VectorAPIClient struct {
	baseURL     string
	httpClient  *retryablehttp.Client
	rateLimiter *rate.Limiter
}

// NewVectorAPIClient creates a client with retries, optional bearer auth and optional rate limiting.
func NewVectorAPIClient(config VectorAPIConfig, logger logrus.FieldLogger) *VectorAPIClient {
	client := retryablehttp.NewClient()
	client.RetryMax = config.RetryMax
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.Logger = logger
	client.HTTPClient.Timeout = config.Timeout
	client.HTTPClient.Transport = &upstreamTransport{
		BaseTransport: client.HTTPClient.Transport,
		Token:         config.Token,
	}

	var limiter *rate.Limiter
	if config.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerMinute/60.0), 1)
	}

	return &VectorAPIClient{
		baseURL:     strings.TrimRight(config.BaseURL, "/"),
		httpClient:  client,
		rateLimiter: limiter,
	}
}

// Enabled reports whether a base URL is configured.
func (c *VectorAPIClient) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// resolve turns a reference into a URL under the base URL. Relative references are
// joined to the base URL, absolute ones must already point below it.
func (c *VectorAPIClient) resolve(ref string) (string, error) {
	if !c.Enabled() {
		return "", ErrFetchDisabled
	}
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		if ref != c.baseURL && !strings.HasPrefix(ref, c.baseURL+"/") {
			return "", fmt.Errorf("%w: %s", ErrForeignURL, ref)
		}
		return ref, nil
	}
	return fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(ref, "/")), nil
}

// Fetch retrieves the raw vector data at ref.
func (c *VectorAPIClient) Fetch(ctx context.Context, ref string) (map[string]any, error) {
	url, err := c.resolve(ref)
	if err != nil {
		return nil, err
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, truncate(string(body), 200))
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
	}
	return raw, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
