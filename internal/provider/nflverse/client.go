// Package nflverse fetches the raw statistics, schedule, roster, and
// betting-line feeds published as CSV assets on nflverse release pages.
//
// Column names drift across feed versions, so every parser resolves its
// logical fields through an ordered alias list once at the ingestion
// boundary; everything downstream sees a fixed schema. Null sentinels
// ("NA", "None", "nan") are mapped to absent values here and never
// propagate past parsing.
package nflverse

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://github.com/nflverse/nflverse-data/releases/download"

// Client is the shared HTTP client for all nflverse release assets.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a rate-limited nflverse client.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		baseURL:    defaultBaseURL,
		limiter:    rate.NewLimiter(rate.Limit(2), 1),
		logger:     logger,
	}
}

// get performs a rate-limited GET for one release asset and returns the
// body for streaming. The caller closes it.
func (c *Client) get(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL + "/" + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "timeslot-data/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		resp.Body.Close()
		return nil, fmt.Errorf("nflverse %s returned %d: %s", path, resp.StatusCode, body)
	}
	return resp.Body, nil
}
