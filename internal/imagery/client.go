package imagery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/sentinel-audit/sentinel/internal/model"
	"github.com/sentinel-audit/sentinel/internal/util"
)

// Client is the HTTP implementation of Backend, talking to a geospatial
// statistics gateway. Requests are rate limited to stay inside the
// provider's query quota.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientOption configures the HTTP client.
type ClientOption func(*Client)

// WithProxy routes backend traffic through the given proxies.
func WithProxy(httpProxy, httpsProxy string) ClientOption {
	return func(c *Client) {
		transport := &http.Transport{Proxy: util.NewProxyFunc(httpProxy, httpsProxy)}
		c.httpClient.Transport = transport
	}
}

// NewClient creates a new imagery backend client.
func NewClient(baseURL string, timeout time.Duration, requestsPerSecond float64, burst int, opts ...ClientOption) *Client {
	if timeout == 0 {
		timeout = 90 * time.Second
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2
	}
	if burst <= 0 {
		burst = 5
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request/response envelopes for the statistics gateway.

type countResponse struct {
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

type reduceRequest struct {
	Query     Query     `json:"query"`
	Reduction Reduction `json:"reduction"`
}

type reduceResponse struct {
	Value *float64 `json:"value"`
	Error string   `json:"error,omitempty"`
}

type thumbRequest struct {
	Query         Query         `json:"query"`
	Visualization Visualization `json:"visualization"`
}

type thumbResponse struct {
	URL   string `json:"url"`
	Error string `json:"error,omitempty"`
}

// Count returns the number of images matching the query filters.
func (c *Client) Count(ctx context.Context, q Query) (int, error) {
	var resp countResponse
	if err := c.post(ctx, "/v1/stack/count", q, &resp); err != nil {
		return 0, err
	}
	if resp.Error != "" {
		return 0, &model.BackendError{Op: "imagery count", Err: fmt.Errorf("%s", resp.Error)}
	}
	return resp.Count, nil
}

// Reduce computes the requested statistic over the composite.
func (c *Client) Reduce(ctx context.Context, q Query, r Reduction) (float64, error) {
	var resp reduceResponse
	if err := c.post(ctx, "/v1/composite/reduce", reduceRequest{Query: q, Reduction: r}, &resp); err != nil {
		return 0, err
	}
	if resp.Error != "" {
		return 0, &model.BackendError{Op: "imagery reduce", Err: fmt.Errorf("%s", resp.Error)}
	}
	if resp.Value == nil {
		return 0, &model.BackendError{Op: "imagery reduce", Err: fmt.Errorf("no value in response")}
	}
	return *resp.Value, nil
}

// ThumbURL returns an externally hosted thumbnail of the composite.
func (c *Client) ThumbURL(ctx context.Context, q Query, v Visualization) (string, error) {
	var resp thumbResponse
	if err := c.post(ctx, "/v1/composite/thumbnail", thumbRequest{Query: q, Visualization: v}, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", &model.BackendError{Op: "imagery thumbnail", Err: fmt.Errorf("%s", resp.Error)}
	}
	return resp.URL, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &model.BackendError{Op: "imagery rate limit", Err: err}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &model.BackendError{Op: "imagery " + path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &model.BackendError{Op: "imagery " + path, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return &model.BackendError{
			Op:  "imagery " + path,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(data), 200)),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &model.BackendError{Op: "imagery " + path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
