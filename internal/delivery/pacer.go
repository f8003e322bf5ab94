package delivery

import (
	"context"
	"log/slog"
	"time"

	"esports_notifier/internal/domain"
)

// Destination is the narrow chat capability the pipeline needs: deliver one
// message to one channel. The concrete type lives in the platform binding.
type Destination interface {
	ID() int64
	Send(ctx context.Context, msg domain.Message) error
}

// Resolver maps a persisted channel id to a live destination. The second
// return is false when the channel is gone or the bot was removed from it.
type Resolver interface {
	Resolve(channelID int64) (Destination, bool)
}

// Pacer sends messages to a destination with a fixed delay between
// consecutive sends, to stay under the transport's burst rate limit.
// Transport failures are swallowed and logged; the surrounding fan-out
// loop must never abort because one channel errored.
type Pacer struct {
	delay  time.Duration
	logger *slog.Logger
}

func NewPacer(delay time.Duration, logger *slog.Logger) *Pacer {
	return &Pacer{
		delay:  delay,
		logger: logger.With("component", "pacer"),
	}
}

// Send delivers one message. Returns false on any transport failure.
func (p *Pacer) Send(ctx context.Context, dest Destination, msg domain.Message) bool {
	if err := dest.Send(ctx, msg); err != nil {
		p.logger.Warn("send failed",
			"channel_id", dest.ID(),
			"error", err,
		)
		return false
	}
	return true
}

// SendBatch delivers a sequence of messages to one destination, pausing
// between items. The pause is skipped after the last item. A failed item
// does not stop the rest of the batch. Returns delivered and failed counts.
func (p *Pacer) SendBatch(ctx context.Context, dest Destination, msgs []domain.Message) (sent, failed int) {
	for i, msg := range msgs {
		if p.Send(ctx, dest, msg) {
			sent++
		} else {
			failed++
		}

		if i == len(msgs)-1 {
			break
		}

		select {
		case <-ctx.Done():
			p.logger.Warn("batch cut short",
				"channel_id", dest.ID(),
				"sent", sent,
				"remaining", len(msgs)-i-1,
			)
			failed += len(msgs) - i - 1
			return sent, failed
		case <-time.After(p.delay):
		}
	}

	return sent, failed
}
