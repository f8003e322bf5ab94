package naver

import (
	"context"
	"fmt"
	"time"

	"esports_notifier/internal/domain"
)

// FetchNews fetches the given day's article list for one game, newest first
// as the upstream returns it. Transport errors, timeouts and malformed bodies
// come back as errors; the caller decides how to degrade.
func (c *Client) FetchNews(ctx context.Context, game domain.Game, day time.Time) ([]domain.Article, error) {
	url := fmt.Sprintf("%s/news/list?sort=latest&newsType=%s&day=%s&page=1&pageSize=%d",
		c.newsBaseURL, game, day.Format("2006-01-02"), c.pageSize)

	var resp NewsResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("fetch %s news: %w", game, err)
	}

	c.logger.Debug("fetched news",
		"game", game,
		"day", day.Format("2006-01-02"),
		"articles", len(resp.Content),
	)

	return c.transformNews(game, resp.Content), nil
}

func (c *Client) transformNews(game domain.Game, items []NewsItem) []domain.Article {
	articles := make([]domain.Article, 0, len(items))

	for _, it := range items {
		articles = append(articles, domain.Article{
			Game:         game,
			Title:        it.Title,
			Summary:      it.SubContent,
			URL:          it.LinkURL,
			ThumbnailURL: it.Thumbnail,
			CreatedAt:    it.CreatedAt,
			Rank:         it.Rank,
			Office:       it.OfficeName,
			Hits:         it.HitCount,
		})
	}

	return articles
}
