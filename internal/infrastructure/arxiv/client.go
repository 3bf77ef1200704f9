package arxiv

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Config describes the export API client.
type Config struct {
	Endpoint       string
	UserAgent      string
	RequestTimeout time.Duration
	// InterQueryDelay paces successive queries. arXiv policy asks for at
	// least three seconds between API calls.
	InterQueryDelay time.Duration
}

// Client fetches raw Atom feeds from the arXiv export API. Successive
// Fetch calls are paced by a rate limiter so multi-topic runs stay within
// the upstream courtesy interval.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient wires the HTTP client and pacing limiter.
func NewClient(cfg Config, log *slog.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	delay := cfg.InterQueryDelay
	if delay <= 0 {
		delay = 3100 * time.Millisecond
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(delay), 1),
		logger:  log,
	}
}

// Fetch runs one search query and returns the raw Atom document. Results are
// requested newest-first by submission date.
func (c *Client) Fetch(ctx context.Context, searchQuery string, maxResults int) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("wait for query slot: %w", err)
	}

	params := url.Values{}
	params.Set("search_query", searchQuery)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	endpoint := c.cfg.Endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	if c.logger != nil {
		c.logger.Debug("arxiv request", "query", searchQuery, "max_results", maxResults)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("arxiv returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read feed body: %w", err)
	}
	return string(body), nil
}
