package naver

import (
	"context"
	"fmt"
	"time"

	"esports_notifier/internal/domain"
)

// FetchScheduleMonths returns the months of a year that have matches
// scheduled for the league, as "YYYYMM" strings.
func (c *Client) FetchScheduleMonths(ctx context.Context, year string, leagueID string) ([]string, error) {
	url := fmt.Sprintf("%s/v1/schedule/year/months?year=%s&topLeagueId=%s&relay=false",
		c.scheduleBaseURL, year, leagueID)

	var resp MonthsResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("fetch schedule months: %w", err)
	}

	return resp.Content.Months, nil
}

// FetchMonthSchedule returns all matches of one month ("YYYYMM") for the league.
func (c *Client) FetchMonthSchedule(ctx context.Context, yearMonth string, leagueID string) ([]domain.Match, error) {
	url := fmt.Sprintf("%s/v2/schedule/month?month=%s&topLeagueId=%s&relay=false",
		c.scheduleBaseURL, yearMonth, leagueID)

	var resp MonthScheduleResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("fetch month schedule: %w", err)
	}

	var matches []domain.Match
	for _, day := range resp.Content.MonthDays {
		for _, m := range day.Matches {
			matches = append(matches, domain.Match{
				League:    m.LeagueName,
				StartsAt:  time.UnixMilli(m.StartDate),
				HomeTeam:  transformTeam(m.HomeTeam),
				AwayTeam:  transformTeam(m.AwayTeam),
				HomeScore: m.HomeScore,
				AwayScore: m.AwayScore,
				Status:    domain.MatchStatus(m.MatchStatus),
			})
		}
	}

	c.logger.Debug("fetched month schedule",
		"month", yearMonth,
		"league", leagueID,
		"matches", len(matches),
	)

	return matches, nil
}

func transformTeam(t ScheduleTeam) domain.Team {
	name := t.NameAcronym
	if name == "" {
		name = t.Name
	}
	return domain.Team{
		Name:    name,
		LogoURL: t.ImageURL,
	}
}
