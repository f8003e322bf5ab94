package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"esports_notifier/internal/delivery"
	"esports_notifier/internal/domain"
)

// Source fetches one game's article list for a given day.
type Source interface {
	FetchNews(ctx context.Context, game domain.Game, day time.Time) ([]domain.Article, error)
}

// WatermarkStore persists the per-game delivery watermark.
type WatermarkStore interface {
	GetAll(ctx context.Context) (map[domain.Game]int64, error)
	Advance(ctx context.Context, game domain.Game, maxCreatedAt int64) error
}

// SubscriptionStore persists the per-channel game flags.
type SubscriptionStore interface {
	GetAll(ctx context.Context) ([]domain.Subscription, error)
	Get(ctx context.Context, channelID int64) (domain.Subscription, bool, error)
}

// Sender delivers a paced batch of messages to one destination.
type Sender interface {
	SendBatch(ctx context.Context, dest delivery.Destination, msgs []domain.Message) (sent, failed int)
}

// Resolver maps a channel id to a live destination.
type Resolver interface {
	Resolve(channelID int64) (delivery.Destination, bool)
}

// Publisher emits newly detected articles to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, article domain.Article) error
	Close() error
}
