package vlr

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"esports_notifier/internal/domain"
)

// Config holds the player-search client configuration.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client scrapes player-profile search results from vlr.gg.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		logger:    logger.With("source", "vlr"),
	}
}

// SearchPlayers returns the player hits for a nickname query.
func (c *Client) SearchPlayers(ctx context.Context, name string) ([]domain.PlayerResult, error) {
	searchURL := fmt.Sprintf("%s/search/?q=%s&type=players", c.baseURL, url.QueryEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}

	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	var results []domain.PlayerResult
	doc.Find("div.wf-card a").Each(func(_ int, a *goquery.Selection) {
		nickname := strings.TrimSpace(a.Find(".search-item-title").Text())
		if nickname == "" {
			return
		}

		realName := strings.TrimSpace(a.Find(".search-item-desc").Text())

		href, ok := a.Attr("href")
		if !ok {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}

		results = append(results, domain.PlayerResult{
			Nickname:   nickname,
			RealName:   realName,
			ProfileURL: base.ResolveReference(ref).String(),
		})
	})

	c.logger.Debug("player search", "query", name, "hits", len(results))

	return results, nil
}
