package delivery

import (
	"fmt"
	"time"

	"esports_notifier/internal/domain"
)

const newsColor = 0x1E90FF

// kst is the timezone articles are timestamped for readers in.
var kst = time.FixedZone("KST", 9*60*60)

// NewsMessage builds the notification payload for one article.
func NewsMessage(a domain.Article) domain.Message {
	published := a.PublishedTime()

	embed := &domain.Embed{
		Title:       a.Title,
		Description: a.Summary,
		URL:         a.URL,
		Thumbnail:   a.ThumbnailURL,
		Color:       newsColor,
		Timestamp:   published.UTC(),
		Fields: []domain.EmbedField{
			{
				Name:  "Published",
				Value: published.In(kst).Format("2006-01-02 15:04:05"),
			},
		},
	}

	return domain.Message{Embed: embed}
}

// PreviewHeader builds the summary card shown above an on-demand result set.
func PreviewHeader(day time.Time, total, page, pages int) domain.Message {
	embed := &domain.Embed{
		Title: fmt.Sprintf("News for %s", day.Format("2006-01-02")),
		Color: newsColor,
	}
	switch {
	case total == 0:
		embed.Description = "No articles found for that date."
	case pages > 1:
		embed.Description = fmt.Sprintf("%d articles found. Showing page %d of %d.", total, page, pages)
	default:
		embed.Description = fmt.Sprintf("%d articles found.", total)
	}
	return domain.Message{Embed: embed}
}

// PreviewPage slices one page out of the result set. A page outside the
// valid range clamps to the nearest edge. Returns the slice plus the
// effective page number and the page count.
func PreviewPage(articles []domain.Article, page, size int) ([]domain.Article, int, int) {
	if len(articles) == 0 {
		return nil, 1, 1
	}

	pages := (len(articles) + size - 1) / size
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := start + size
	if end > len(articles) {
		end = len(articles)
	}

	return articles[start:end], page, pages
}
