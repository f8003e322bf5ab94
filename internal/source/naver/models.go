package naver

// NewsResponse represents the esports news API response structure.
type NewsResponse struct {
	Content []NewsItem `json:"content"`
}

type NewsItem struct {
	Title      string `json:"title"`
	SubContent string `json:"subContent"`
	LinkURL    string `json:"linkUrl"`
	Thumbnail  string `json:"thumbnail"`
	CreatedAt  int64  `json:"createdAt"`
	Rank       int    `json:"rank"`
	OfficeName string `json:"officeName"`
	HitCount   int    `json:"hitCount"`
}

// MonthsResponse lists the months of a year that have scheduled matches.
type MonthsResponse struct {
	Content struct {
		Months []string `json:"months"`
	} `json:"content"`
}

// MonthScheduleResponse is the per-month schedule payload, grouped by day.
type MonthScheduleResponse struct {
	Content struct {
		MonthDays []ScheduleDay `json:"monthDays"`
	} `json:"content"`
}

type ScheduleDay struct {
	Date    string          `json:"date"`
	Matches []ScheduleMatch `json:"matches"`
}

type ScheduleMatch struct {
	LeagueName  string       `json:"leagueName"`
	StartDate   int64        `json:"startDate"`
	MatchStatus string       `json:"matchStatus"`
	HomeTeam    ScheduleTeam `json:"homeTeam"`
	AwayTeam    ScheduleTeam `json:"awayTeam"`
	HomeScore   int          `json:"homeScore"`
	AwayScore   int          `json:"awayScore"`
}

type ScheduleTeam struct {
	Name        string `json:"name"`
	NameAcronym string `json:"nameAcronym"`
	ImageURL    string `json:"imageUrl"`
}
