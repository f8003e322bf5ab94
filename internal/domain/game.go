package domain

// Game identifies one of the tracked esports titles. The set is fixed;
// upstream endpoints, watermark rows and subscription columns are all keyed by it.
type Game string

const (
	GameLoL       Game = "lol"
	GameValorant  Game = "valorant"
	GameOverwatch Game = "overwatch"
)

// Games returns all tracked titles in a stable order.
func Games() []Game {
	return []Game{GameLoL, GameValorant, GameOverwatch}
}

func (g Game) Valid() bool {
	switch g {
	case GameLoL, GameValorant, GameOverwatch:
		return true
	}
	return false
}

func (g Game) String() string {
	return string(g)
}
