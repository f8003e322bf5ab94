package domain

import "time"

// Match is a single scheduled game between two teams.
type Match struct {
	League    string
	StartsAt  time.Time
	HomeTeam  Team
	AwayTeam  Team
	HomeScore int
	AwayScore int
	Status    MatchStatus
}

type Team struct {
	Name    string
	LogoURL string
}

// MatchStatus mirrors the upstream schedule states.
type MatchStatus string

const (
	MatchUpcoming MatchStatus = "BEFORE"
	MatchLive     MatchStatus = "STARTED"
	MatchFinished MatchStatus = "RESULT"
)

// PlayerResult is one hit from a player-profile search.
type PlayerResult struct {
	Nickname   string
	RealName   string
	ProfileURL string
}
