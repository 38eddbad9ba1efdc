// Package nasa fetches near-Earth-object records from the NeoWs browse
// endpoint, one page at a time.
package nasa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/neo-data-export/internal/config"
	"github.com/couchcryptid/neo-data-export/internal/domain"
	"github.com/couchcryptid/neo-data-export/internal/observability"
	"github.com/jonboulle/clockwork"
)

// ErrRetryExhausted is returned when a page could not be fetched within the
// configured attempt budget.
var ErrRetryExhausted = errors.New("retry attempts exhausted")

// Client fetches single pages from the browse endpoint, retrying transient
// failures with exponential backoff.
type Client struct {
	apiKey         string
	baseURL        string
	httpClient     *http.Client
	maxAttempts    int
	initialBackoff time.Duration
	clock          clockwork.Clock
	metrics        *observability.Metrics
	logger         *slog.Logger
}

// NewClient creates a browse-endpoint client from the service configuration.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.APIURL,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: 1 * time.Second,
		clock:          clockwork.NewRealClock(),
		metrics:        metrics,
		logger:         logger,
	}
}

// FetchPage fetches one page of records. Attempts are capped at maxAttempts;
// the wait before retry n is initialBackoff·2^(n-1). After exhaustion the
// last error is wrapped in ErrRetryExhausted so the paginator can stop.
func (c *Client) FetchPage(ctx context.Context, page int) (domain.BrowsePage, error) {
	var lastErr error
	backoff := c.initialBackoff

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			c.metrics.FetchRetries.Inc()
			c.logger.Warn("retrying page fetch",
				"page", page, "attempt", attempt, "backoff", backoff)
			if !sleep(ctx, c.clock, backoff) {
				return domain.BrowsePage{}, ctx.Err()
			}
			backoff *= 2
		}

		result, err := c.doRequest(ctx, page)
		if err == nil {
			if attempt > 1 {
				c.logger.Info("page fetch succeeded after retry", "page", page, "attempt", attempt)
			}
			return result, nil
		}
		if ctx.Err() != nil {
			return domain.BrowsePage{}, err
		}

		lastErr = err
		c.logger.Error("page fetch failed", "page", page, "attempt", attempt, "error", err)
	}

	c.metrics.FetchExhausted.Inc()
	return domain.BrowsePage{}, fmt.Errorf("%w: page %d after %d attempts: %v",
		ErrRetryExhausted, page, c.maxAttempts, lastErr)
}

func (c *Client) doRequest(ctx context.Context, page int) (domain.BrowsePage, error) {
	params := url.Values{
		"api_key": {c.apiKey},
		"page":    {strconv.Itoa(page)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.BrowsePage{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.BrowsePage{}, fmt.Errorf("browse request: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.PageFetchDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.BrowsePage{}, fmt.Errorf("NEO API error: status %d: %s", resp.StatusCode, body)
	}

	var browse browseResponse
	if err := json.NewDecoder(resp.Body).Decode(&browse); err != nil {
		return domain.BrowsePage{}, fmt.Errorf("decode response: %w", err)
	}

	return domain.BrowsePage{Page: page, Records: browse.NearEarthObjects}, nil
}

// browseResponse mirrors the envelope of the browse endpoint; a missing or
// empty near_earth_objects array signals the end of pagination.
type browseResponse struct {
	NearEarthObjects []domain.RawRecord `json:"near_earth_objects"`
}

// sleep blocks for d on the given clock, returning false if the context is
// cancelled first. A non-positive duration returns immediately.
func sleep(ctx context.Context, clock clockwork.Clock, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
