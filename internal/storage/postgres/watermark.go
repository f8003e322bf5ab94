package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"esports_notifier/internal/domain"
)

// WatermarkStore persists, per game, the createdAt of the most recently
// delivered article. It is the deduplication source of truth.
type WatermarkStore struct {
	db *sqlx.DB
}

func NewWatermarkStore(db *sqlx.DB) *WatermarkStore {
	return &WatermarkStore{db: db}
}

// GetAll returns the watermark for every tracked game. Games without a row
// map to 0, which causes redelivery rather than loss.
func (s *WatermarkStore) GetAll(ctx context.Context) (map[domain.Game]int64, error) {
	marks := make(map[domain.Game]int64, len(domain.Games()))
	for _, g := range domain.Games() {
		marks[g] = 0
	}

	rows, err := s.db.QueryContext(ctx, "SELECT game, last_processed_at FROM news_state")
	if err != nil {
		return marks, err
	}
	defer rows.Close()

	for rows.Next() {
		var game string
		var lastAt int64
		if err := rows.Scan(&game, &lastAt); err != nil {
			return marks, err
		}
		marks[domain.Game(game)] = lastAt
	}

	return marks, rows.Err()
}

// Advance unconditionally overwrites the stored watermark for the game.
// The caller guarantees maxCreatedAt is non-decreasing; no comparison is done here.
func (s *WatermarkStore) Advance(ctx context.Context, game domain.Game, maxCreatedAt int64) error {
	query := `
		INSERT INTO news_state (game, last_processed_at)
		VALUES ($1, $2)
		ON CONFLICT (game) DO UPDATE SET
			last_processed_at = EXCLUDED.last_processed_at`

	_, err := s.db.ExecContext(ctx, query, game.String(), maxCreatedAt)
	return err
}
