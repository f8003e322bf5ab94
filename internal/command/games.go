// Package command parses user-supplied command arguments: game-name tokens
// for subscription setup and date tokens for on-demand checks. Parse errors
// here are user mistakes, surfaced back to the chat as corrective messages,
// never logged as system errors.
package command

import (
	"fmt"
	"strings"

	"esports_notifier/internal/domain"
)

var gameSynonyms = map[string]domain.Game{
	"lol":             domain.GameLoL,
	"league":          domain.GameLoL,
	"leagueoflegends": domain.GameLoL,
	"val":             domain.GameValorant,
	"valo":            domain.GameValorant,
	"valorant":        domain.GameValorant,
	"ow":              domain.GameOverwatch,
	"overwatch":       domain.GameOverwatch,
}

var allTokens = map[string]bool{
	"all": true,
	"on":  true,
}

var offTokens = map[string]bool{
	"off":    true,
	"none":   true,
	"clear":  true,
	"delete": true,
}

// IsOff reports whether the token list is the unsubscribe sentinel.
func IsOff(tokens []string) bool {
	return len(tokens) == 1 && offTokens[strings.ToLower(tokens[0])]
}

// ParseGames maps game-name tokens (with synonyms and the "all games"
// sentinel) to subscription flags. An unknown token fails the whole command
// so the user can correct it.
func ParseGames(tokens []string) (domain.Subscription, error) {
	var sub domain.Subscription

	for _, token := range tokens {
		lower := strings.ToLower(token)

		if allTokens[lower] {
			for _, g := range domain.Games() {
				sub.Set(g, true)
			}
			continue
		}

		game, ok := gameSynonyms[lower]
		if !ok {
			return domain.Subscription{}, fmt.Errorf(
				"unsupported game name %q; available: lol, valorant, overwatch (or \"all\", \"off\")", token)
		}
		sub.Set(game, true)
	}

	return sub, nil
}
