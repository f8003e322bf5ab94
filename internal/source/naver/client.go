package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const origin = "https://game.naver.com"

// Config holds the esports API client configuration.
type Config struct {
	NewsBaseURL     string
	ScheduleBaseURL string
	PageSize        int
	Timeout         time.Duration
	UserAgent       string
}

// Client talks to the esports news and schedule API. Every request carries a
// bounded timeout; a failed request this cycle is reported upward and the
// caller treats it as "zero new articles".
type Client struct {
	httpClient      *http.Client
	newsBaseURL     string
	scheduleBaseURL string
	pageSize        int
	userAgent       string
	logger          *slog.Logger
}

// New creates a new esports API client.
func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		newsBaseURL:     cfg.NewsBaseURL,
		scheduleBaseURL: cfg.ScheduleBaseURL,
		pageSize:        cfg.PageSize,
		userAgent:       cfg.UserAgent,
		logger:          logger.With("source", "naver"),
	}
}

// get performs one GET and decodes the JSON body into out. No retry: the poll
// cycle recovers per game, and the next cycle naturally picks up anything missed.
func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Origin", origin)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
