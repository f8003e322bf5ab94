package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/mock/gomock"

	"esports_notifier/internal/domain"
)

func (s *PollerTestSuite) TestPreview_ScopedToSubscription() {
	day := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)

	s.subs.EXPECT().Get(gomock.Any(), int64(10)).
		Return(domain.Subscription{ChannelID: 10, LoL: true, Overwatch: true}, true, nil)

	s.source.EXPECT().FetchNews(gomock.Any(), domain.GameLoL, day).
		Return([]domain.Article{art(domain.GameLoL, 100), art(domain.GameLoL, 300)}, nil)
	s.source.EXPECT().FetchNews(gomock.Any(), domain.GameOverwatch, day).
		Return([]domain.Article{art(domain.GameOverwatch, 200)}, nil)

	articles, err := s.poller.Preview(context.Background(), 10, day)

	s.NoError(err)
	s.Require().Len(articles, 3)
	// newest first, and no valorant fetch at all
	s.Equal(int64(300), articles[0].CreatedAt)
	s.Equal(int64(200), articles[1].CreatedAt)
	s.Equal(int64(100), articles[2].CreatedAt)
}

func (s *PollerTestSuite) TestPreview_UnconfiguredChannelSeesAllGames() {
	day := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)

	s.subs.EXPECT().Get(gomock.Any(), int64(99)).
		Return(domain.Subscription{ChannelID: 99}, false, nil)

	for _, g := range domain.Games() {
		s.source.EXPECT().FetchNews(gomock.Any(), g, day).Return(nil, nil)
	}

	articles, err := s.poller.Preview(context.Background(), 99, day)

	s.NoError(err)
	s.Empty(articles)
}

func (s *PollerTestSuite) TestPreview_PartialFetchFailureShowsTheRest() {
	day := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)

	s.subs.EXPECT().Get(gomock.Any(), int64(10)).
		Return(domain.Subscription{ChannelID: 10, LoL: true, Valorant: true}, true, nil)

	s.source.EXPECT().FetchNews(gomock.Any(), domain.GameLoL, day).
		Return(nil, errors.New("timeout"))
	s.source.EXPECT().FetchNews(gomock.Any(), domain.GameValorant, day).
		Return([]domain.Article{art(domain.GameValorant, 500)}, nil)

	articles, err := s.poller.Preview(context.Background(), 10, day)

	s.NoError(err)
	s.Len(articles, 1)
}

func (s *PollerTestSuite) TestPreview_AllFetchesFailedSurfacesError() {
	day := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)

	s.subs.EXPECT().Get(gomock.Any(), int64(10)).
		Return(domain.Subscription{ChannelID: 10, LoL: true}, true, nil)

	s.source.EXPECT().FetchNews(gomock.Any(), domain.GameLoL, day).
		Return(nil, errors.New("timeout"))

	_, err := s.poller.Preview(context.Background(), 10, day)

	s.Error(err)
}

func (s *PollerTestSuite) TestPreview_StoreFailureSurfacesError() {
	day := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)

	s.subs.EXPECT().Get(gomock.Any(), int64(10)).
		Return(domain.Subscription{}, false, errors.New("pool exhausted"))

	_, err := s.poller.Preview(context.Background(), 10, day)

	s.Error(err)
}
