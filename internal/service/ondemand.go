package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"esports_notifier/internal/domain"
)

// Preview is the user-triggered "check now" variant: it fetches the channel's
// subscribed games for an explicit date, newest first. It is read-only: no
// watermark is consulted or advanced, so it may show articles the background
// poller already delivered. Errors are returned so the command surface can
// show the user something instead of leaving them waiting.
func (p *Poller) Preview(ctx context.Context, channelID int64, day time.Time) ([]domain.Article, error) {
	sub, found, err := p.subs.Get(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("load channel subscription: %w", err)
	}

	// a channel that never configured itself previews everything
	games := domain.Games()
	if found && sub.Any() {
		games = sub.Games()
	}

	var articles []domain.Article
	var errs []error
	for _, game := range games {
		arts, err := p.source.FetchNews(ctx, game, day)
		if err != nil {
			p.logger.Warn("preview fetch failed",
				"game", game,
				"channel_id", channelID,
				"error", err,
			)
			errs = append(errs, err)
			continue
		}
		articles = append(articles, arts...)
	}

	if len(articles) == 0 && len(errs) == len(games) && len(errs) > 0 {
		return nil, fmt.Errorf("every feed fetch failed: %w", errors.Join(errs...))
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].CreatedAt > articles[j].CreatedAt
	})

	return articles, nil
}
