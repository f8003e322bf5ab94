package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"esports_notifier/internal/domain"
)

// SubscriptionStore persists which games each destination channel subscribed
// to. There is no caching layer: every call hits storage, so the registry is
// always authoritative for the next poll cycle even if changed externally.
type SubscriptionStore struct {
	db *sqlx.DB
}

func NewSubscriptionStore(db *sqlx.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

// GetAll returns the full registry snapshot, ordered by channel id so the
// fan-out order is stable across cycles and backends.
func (s *SubscriptionStore) GetAll(ctx context.Context) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	query := `
		SELECT channel_id, lol, valorant, overwatch
		FROM news_channel
		ORDER BY channel_id`

	if err := s.db.SelectContext(ctx, &subs, query); err != nil {
		return nil, err
	}
	return subs, nil
}

// Get returns one channel's flags. The second return is false when the
// channel has no record, meaning "not subscribed to anything".
func (s *SubscriptionStore) Get(ctx context.Context, channelID int64) (domain.Subscription, bool, error) {
	var sub domain.Subscription
	query := `
		SELECT channel_id, lol, valorant, overwatch
		FROM news_channel
		WHERE channel_id = $1`

	err := s.db.GetContext(ctx, &sub, query, channelID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Subscription{ChannelID: channelID}, false, nil
	}
	if err != nil {
		return domain.Subscription{}, false, err
	}
	return sub, true, nil
}

// Upsert inserts the channel's flags, or replaces all three when a record exists.
func (s *SubscriptionStore) Upsert(ctx context.Context, sub domain.Subscription) error {
	query := `
		INSERT INTO news_channel (channel_id, lol, valorant, overwatch)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (channel_id) DO UPDATE SET
			lol = EXCLUDED.lol,
			valorant = EXCLUDED.valorant,
			overwatch = EXCLUDED.overwatch`

	_, err := s.db.ExecContext(ctx, query, sub.ChannelID, sub.LoL, sub.Valorant, sub.Overwatch)
	return err
}

// Delete removes the channel's record. Returns whether a record existed;
// repeated deletes return false after the first.
func (s *SubscriptionStore) Delete(ctx context.Context, channelID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM news_channel WHERE channel_id = $1", channelID)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
