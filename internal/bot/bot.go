// Package bot is the discord binding: it owns the gateway session, adapts
// channels to the delivery capability and exposes the chat command surface.
// Transport concerns (reconnects, rate-limit retries) stay inside discordgo.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"esports_notifier/internal/domain"
)

// SubscriptionStore is the registry surface the command handlers need.
type SubscriptionStore interface {
	Get(ctx context.Context, channelID int64) (domain.Subscription, bool, error)
	Upsert(ctx context.Context, sub domain.Subscription) error
	Delete(ctx context.Context, channelID int64) (bool, error)
}

// Previewer runs the on-demand news check.
type Previewer interface {
	Preview(ctx context.Context, channelID int64, day time.Time) ([]domain.Article, error)
}

// ScheduleSource fetches a month of league matches and the months that
// have any scheduled.
type ScheduleSource interface {
	FetchScheduleMonths(ctx context.Context, year, leagueID string) ([]string, error)
	FetchMonthSchedule(ctx context.Context, yearMonth, leagueID string) ([]domain.Match, error)
}

// PlayerSource searches player profiles.
type PlayerSource interface {
	SearchPlayers(ctx context.Context, name string) ([]domain.PlayerResult, error)
}

type Bot struct {
	session   *discordgo.Session
	prefix    string
	subs      SubscriptionStore
	previews  Previewer
	schedules ScheduleSource
	players   PlayerSource
	timeout   time.Duration
	logger    *slog.Logger
}

func New(
	token, prefix string,
	subs SubscriptionStore,
	previews Previewer,
	schedules ScheduleSource,
	players PlayerSource,
	logger *slog.Logger,
) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	b := &Bot{
		session:   session,
		prefix:    prefix,
		subs:      subs,
		previews:  previews,
		schedules: schedules,
		players:   players,
		timeout:   30 * time.Second,
		logger:    logger.With("component", "bot"),
	}

	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessage)

	return b, nil
}

// Open connects the gateway session.
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// Session exposes the underlying session for destination resolution.
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("logged in",
		"user", r.User.Username,
		"guilds", len(r.Guilds),
	)
}
