package domain

import "time"

// Article is one upstream news item, immutable once fetched.
// CreatedAt (milliseconds since epoch, upstream clock) is the sole ordering
// and deduplication key; upstream does not guarantee it increases with list
// position, so comparisons always use the field, never the slice index.
type Article struct {
	Game         Game
	Title        string
	Summary      string
	URL          string
	ThumbnailURL string
	CreatedAt    int64
	Rank         int
	Office       string
	Hits         int
}

// PublishedTime converts the millisecond timestamp to time.Time.
func (a Article) PublishedTime() time.Time {
	return time.UnixMilli(a.CreatedAt)
}
