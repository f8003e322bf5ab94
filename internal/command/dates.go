package command

import (
	"fmt"
	"strings"
	"time"
)

var dateFormats = []string{
	"2006-01-02",
	"2006.01.02",
	"2006/01/02",
}

// ParseDate resolves a date token relative to now. An empty token and
// "today" mean now's date, "yesterday" the day before; otherwise the token
// must match one of the accepted literal formats. Future dates are rejected.
func ParseDate(token string, now time.Time) (time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch strings.ToLower(token) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	for _, format := range dateFormats {
		parsed, err := time.ParseInLocation(format, token, now.Location())
		if err != nil {
			continue
		}
		if parsed.After(today) {
			return time.Time{}, fmt.Errorf("date %q is in the future", token)
		}
		return parsed, nil
	}

	return time.Time{}, fmt.Errorf("invalid date %q; use today, yesterday or a date like 2025-07-14", token)
}
