package linker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout               = 10 * time.Second
	defaultRequestsPerSecond     = 5
	defaultMaxConcurrentRequests = 4
	userAgent                    = "gkf-backend/1.0 (entity linking)"
)

// RESTClient wraps an http.Client with the throttling every resolver needs:
// a hard per-call timeout, a request-rate limiter, and a bound on concurrent
// outbound calls.
type RESTClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	reqLock    *semaphore.Weighted
}

// NewRESTClient builds a throttled client from resolver configuration.
// Zero values fall back to package defaults.
func NewRESTClient(cfg Config) *RESTClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	maxConcurrent := cfg.MaxConcurrentRequests
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentRequests
	}
	return &RESTClient{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		reqLock:    semaphore.NewWeighted(maxConcurrent),
	}
}

// GetJSON performs a GET against endpoint with the given query parameters and
// decodes the JSON response body into out. Non-2xx status codes are errors,
// including 429, which a caller treats like any other miss.
func (c *RESTClient) GetJSON(ctx context.Context, endpoint string, params url.Values, headers map[string]string, out any) error {
	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.reqLock.Release(1)

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	requestURL := endpoint
	if len(params) > 0 {
		requestURL = endpoint + "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// GetRaw performs a GET and returns the raw response body. Used for content
// negotiation (e.g. fetching an entity as Turtle or RDF/XML).
func (c *RESTClient) GetRaw(ctx context.Context, endpoint string, params url.Values, headers map[string]string) ([]byte, error) {
	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.reqLock.Release(1)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	requestURL := endpoint
	if len(params) > 0 {
		requestURL = endpoint + "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
