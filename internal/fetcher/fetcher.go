// Path: internal/fetcher/fetcher.go
package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"arena-scout/internal/config"
	"arena-scout/internal/errs"
)

// projectList is the upstream response envelope.
type projectList struct {
	Projects []map[string]any `json:"projects"`
}

// Client fetches project records from the arena API. Records come back as
// raw maps; the validator owns turning them into trusted Projects.
type Client struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      zerolog.Logger
	baseURL     string
	hackathonID int
	pageLimit   int
	maxRetries  int
	backoffBase time.Duration
}

// NewClient creates and configures an arena API client.
func NewClient(cfg config.ArenaConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(
			rate.Limit(cfg.RequestsPerSecond),
			cfg.BurstLimit,
		),
		logger:      logger.With().Str("component", "fetcher").Logger(),
		baseURL:     cfg.BaseURL,
		hackathonID: cfg.HackathonID,
		pageLimit:   cfg.PageLimit,
		maxRetries:  cfg.MaxRetries,
		backoffBase: time.Duration(cfg.BackoffBaseMillis) * time.Millisecond,
	}
}

// FetchProjects fetches the project listing, retrying transient failures
// with exponential backoff (base x 2^(attempt-1)). Rate-limit responses
// honor the server's Retry-After hint when present; auth failures are
// terminal and never retried.
func (c *Client) FetchProjects(ctx context.Context) ([]map[string]any, error) {
	url := fmt.Sprintf("%s/projects?hackathonId=%d&limit=%d&showWinnersOnly=false&sort=RANDOM",
		c.baseURL, c.hackathonID, c.pageLimit)

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		projects, err := c.fetchOnce(ctx, url)
		if err == nil {
			return projects, nil
		}
		lastErr = err

		if !errs.IsRetryable(err) {
			c.logger.Error().Err(err).Msg("terminal fetch failure, not retrying")
			return nil, err
		}
		if attempt == c.maxRetries {
			break
		}

		delay := c.backoffBase * (1 << (attempt - 1))
		if hint, ok := errs.RetryAfter(err); ok && hint > delay {
			delay = hint
		}
		c.logger.Warn().Err(err).Int("attempt", attempt).Dur("backoff", delay).
			Msg("fetch failed, backing off")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("fetch failed after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, url string) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, errs.NewTimeoutErr(err)
		}
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errs.NewRateLimitErr(parseRetryAfter(resp.Header.Get("Retry-After")))
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, errs.NewStatusErr(resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, errs.NewStatusErr(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var list projectList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal json response: %w", err)
	}
	if len(list.Projects) == 0 {
		return nil, errs.ErrEmptyPayload
	}
	return list.Projects, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
