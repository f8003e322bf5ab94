package domain

// Subscription is one destination channel's per-game notification flags.
// A fixed-shape record rather than a map, so absent-vs-false cannot diverge.
type Subscription struct {
	ChannelID int64 `db:"channel_id"`
	LoL       bool  `db:"lol"`
	Valorant  bool  `db:"valorant"`
	Overwatch bool  `db:"overwatch"`
}

// Has reports whether the channel subscribed to the given game.
func (s Subscription) Has(g Game) bool {
	switch g {
	case GameLoL:
		return s.LoL
	case GameValorant:
		return s.Valorant
	case GameOverwatch:
		return s.Overwatch
	}
	return false
}

// Set turns the flag for the given game on or off.
func (s *Subscription) Set(g Game, on bool) {
	switch g {
	case GameLoL:
		s.LoL = on
	case GameValorant:
		s.Valorant = on
	case GameOverwatch:
		s.Overwatch = on
	}
}

// Games returns the subscribed titles in the canonical order.
func (s Subscription) Games() []Game {
	var games []Game
	for _, g := range Games() {
		if s.Has(g) {
			games = append(games, g)
		}
	}
	return games
}

// Any reports whether at least one game flag is set.
func (s Subscription) Any() bool {
	return s.LoL || s.Valorant || s.Overwatch
}
