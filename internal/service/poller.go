package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"esports_notifier/internal/delivery"
	"esports_notifier/internal/domain"
)

// ErrCycleRunning is returned when a cycle fires while the previous one is
// still in flight. The fire is skipped, not queued.
var ErrCycleRunning = errors.New("poll cycle already running")

// kst is the upstream's publishing timezone; "today" is computed in it.
var kst = time.FixedZone("KST", 9*60*60)

// Poller runs the fetch, diff, deliver, advance cycle. It decides what is
// new (per-game watermarks), who wants it (subscription registry) and in
// what order to send it (ascending createdAt per destination).
type Poller struct {
	source    Source
	marks     WatermarkStore
	subs      SubscriptionStore
	sender    Sender
	resolver  Resolver
	publisher Publisher // optional
	logger    *slog.Logger
	inFlight  atomic.Bool
}

func NewPoller(
	source Source,
	marks WatermarkStore,
	subs SubscriptionStore,
	sender Sender,
	resolver Resolver,
	publisher Publisher,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		source:    source,
		marks:     marks,
		subs:      subs,
		sender:    sender,
		resolver:  resolver,
		publisher: publisher,
		logger:    logger.With("component", "poller"),
	}
}

// IsRunning reports whether a cycle is currently in flight.
func (p *Poller) IsRunning() bool {
	return p.inFlight.Load()
}

// RunCycle executes one poll cycle. No error from an upstream, the storage
// layer or a destination escapes it; the only error returned is
// ErrCycleRunning. A failed watermark advance merely risks redelivering the
// same batch next cycle, never losing undelivered articles.
func (p *Poller) RunCycle(ctx context.Context) (*domain.PollStats, error) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return nil, ErrCycleRunning
	}
	defer p.inFlight.Store(false)

	start := time.Now()
	today := time.Now().In(kst)
	stats := &domain.PollStats{}

	fetched := p.fetchAll(ctx, today)
	for _, arts := range fetched {
		stats.Fetched += len(arts)
	}

	newByGame := p.diff(ctx, fetched)
	for _, arts := range newByGame {
		stats.New += len(arts)
	}

	if len(newByGame) == 0 {
		stats.Duration = time.Since(start)
		p.logger.Debug("no new articles this cycle", "fetched", stats.Fetched)
		return stats, nil
	}

	p.publishEvents(ctx, newByGame, stats)
	if p.deliver(ctx, newByGame, stats) {
		p.advance(ctx, newByGame)
	}

	stats.Duration = time.Since(start)
	p.logger.Info("poll cycle completed",
		"fetched", stats.Fetched,
		"new", stats.New,
		"delivered", stats.Delivered,
		"send_failures", stats.SendFailures,
		"skipped_destinations", stats.Skipped,
		"duration", stats.Duration,
	)

	return stats, nil
}

// fetchAll pulls every game's feed concurrently. A failed game logs and
// contributes nothing; the other games are unaffected and that game's
// watermark stays put, so the next cycle picks up everything it missed.
func (p *Poller) fetchAll(ctx context.Context, day time.Time) map[domain.Game][]domain.Article {
	var mu sync.Mutex
	fetched := make(map[domain.Game][]domain.Article, len(domain.Games()))

	var g errgroup.Group
	for _, game := range domain.Games() {
		g.Go(func() error {
			arts, err := p.source.FetchNews(ctx, game, day)
			if err != nil {
				p.logger.Error("news fetch failed",
					"game", game,
					"error", err,
				)
				return nil
			}
			mu.Lock()
			fetched[game] = arts
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return fetched
}

// diff keeps, per game, the articles strictly newer than the game's
// watermark, sorted ascending by createdAt. Ties keep upstream order.
// A failed watermark read falls back to zero for every game: redelivery,
// never loss.
func (p *Poller) diff(ctx context.Context, fetched map[domain.Game][]domain.Article) map[domain.Game][]domain.Article {
	marks, err := p.marks.GetAll(ctx)
	if err != nil {
		p.logger.Error("read watermarks failed, assuming zero", "error", err)
	}
	if marks == nil {
		marks = make(map[domain.Game]int64)
	}

	newByGame := make(map[domain.Game][]domain.Article)
	for game, arts := range fetched {
		var fresh []domain.Article
		for _, a := range arts {
			if a.CreatedAt > marks[game] {
				fresh = append(fresh, a)
			}
		}
		if len(fresh) == 0 {
			continue
		}
		sort.SliceStable(fresh, func(i, j int) bool {
			return fresh[i].CreatedAt < fresh[j].CreatedAt
		})
		newByGame[game] = fresh
	}

	return newByGame
}

func (p *Poller) publishEvents(ctx context.Context, newByGame map[domain.Game][]domain.Article, stats *domain.PollStats) {
	if p.publisher == nil {
		return
	}
	for _, game := range domain.Games() {
		for _, a := range newByGame[game] {
			if err := p.publisher.Publish(ctx, a); err != nil {
				p.logger.Warn("publish article event failed",
					"game", game,
					"error", err,
				)
				continue
			}
			stats.Published++
		}
	}
}

// deliver fans the new articles out to every subscribed destination. Each
// destination gets one merged queue sorted ascending by createdAt; the set
// is identical for every destination subscribed to a game. An unresolvable
// channel or a send failure never aborts the loop. The return reports
// whether a registry snapshot was obtained: without one, nothing was even
// attempted, and the caller must hold the watermarks so the batch comes
// back next cycle instead of vanishing.
func (p *Poller) deliver(ctx context.Context, newByGame map[domain.Game][]domain.Article, stats *domain.PollStats) bool {
	subs, err := p.subs.GetAll(ctx)
	if err != nil {
		p.logger.Error("read subscriptions failed, skipping delivery this cycle", "error", err)
		return false
	}

	for _, sub := range subs {
		queue := mergeQueue(sub, newByGame)
		if len(queue) == 0 {
			continue
		}

		dest, ok := p.resolver.Resolve(sub.ChannelID)
		if !ok {
			p.logger.Warn("destination unavailable, skipping", "channel_id", sub.ChannelID)
			stats.Skipped++
			continue
		}

		msgs := make([]domain.Message, len(queue))
		for i, a := range queue {
			msgs[i] = delivery.NewsMessage(a)
		}

		sent, failed := p.sender.SendBatch(ctx, dest, msgs)
		stats.Delivered += sent
		stats.SendFailures += failed
	}

	return true
}

// advance moves each game's watermark to the max createdAt of its new set.
// Only the new set counts, never everything fetched, so a stale or partial
// fetch can not push the watermark past what was actually processed.
func (p *Poller) advance(ctx context.Context, newByGame map[domain.Game][]domain.Article) {
	for _, game := range domain.Games() {
		fresh := newByGame[game]
		if len(fresh) == 0 {
			continue
		}
		maxAt := fresh[len(fresh)-1].CreatedAt
		if err := p.marks.Advance(ctx, game, maxAt); err != nil {
			p.logger.Error("advance watermark failed",
				"game", game,
				"last_processed_at", maxAt,
				"error", err,
			)
		}
	}
}

func mergeQueue(sub domain.Subscription, newByGame map[domain.Game][]domain.Article) []domain.Article {
	var queue []domain.Article
	for _, game := range sub.Games() {
		queue = append(queue, newByGame[game]...)
	}
	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].CreatedAt < queue[j].CreatedAt
	})
	return queue
}
