package delivery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esports_notifier/internal/domain"
)

func TestNewsMessage(t *testing.T) {
	a := domain.Article{
		Game:         domain.GameLoL,
		Title:        "Finals recap",
		Summary:      "Five games of chaos",
		URL:          "https://example.com/a/1",
		ThumbnailURL: "https://example.com/thumb/1.jpg",
		CreatedAt:    time.Date(2025, 7, 14, 3, 30, 0, 0, time.UTC).UnixMilli(),
	}

	msg := NewsMessage(a)

	require.NotNil(t, msg.Embed)
	assert.Equal(t, "Finals recap", msg.Embed.Title)
	assert.Equal(t, "Five games of chaos", msg.Embed.Description)
	assert.Equal(t, "https://example.com/a/1", msg.Embed.URL)
	assert.Equal(t, "https://example.com/thumb/1.jpg", msg.Embed.Thumbnail)
	assert.Equal(t, a.CreatedAt, msg.Embed.Timestamp.UnixMilli())

	// the published field renders in KST (UTC+9)
	require.Len(t, msg.Embed.Fields, 1)
	assert.Equal(t, "2025-07-14 12:30:00", msg.Embed.Fields[0].Value)
}

func TestPreviewHeader(t *testing.T) {
	day := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)

	empty := PreviewHeader(day, 0, 1, 1)
	require.NotNil(t, empty.Embed)
	assert.Contains(t, empty.Embed.Title, "2025-07-14")
	assert.Contains(t, empty.Embed.Description, "No articles")

	single := PreviewHeader(day, 3, 1, 1)
	assert.Equal(t, "3 articles found.", single.Embed.Description)

	paged := PreviewHeader(day, 7, 2, 2)
	assert.Equal(t, "7 articles found. Showing page 2 of 2.", paged.Embed.Description)
}

func TestPreviewPage(t *testing.T) {
	arts := make([]domain.Article, 7)
	for i := range arts {
		arts[i] = domain.Article{Game: domain.GameLoL, CreatedAt: int64(700 - i*100)}
	}

	tests := []struct {
		name      string
		page      int
		wantLen   int
		wantPage  int
		wantPages int
		wantFirst int64
	}{
		{name: "first page", page: 1, wantLen: 4, wantPage: 1, wantPages: 2, wantFirst: 700},
		{name: "last partial page", page: 2, wantLen: 3, wantPage: 2, wantPages: 2, wantFirst: 300},
		{name: "page past the end clamps", page: 9, wantLen: 3, wantPage: 2, wantPages: 2, wantFirst: 300},
		{name: "page below one clamps", page: 0, wantLen: 4, wantPage: 1, wantPages: 2, wantFirst: 700},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, page, pages := PreviewPage(arts, tt.page, 4)
			require.Len(t, got, tt.wantLen)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPages, pages)
			assert.Equal(t, tt.wantFirst, got[0].CreatedAt)
		})
	}

	got, page, pages := PreviewPage(nil, 3, 4)
	assert.Empty(t, got)
	assert.Equal(t, 1, page)
	assert.Equal(t, 1, pages)
}
