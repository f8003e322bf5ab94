package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"esports_notifier/internal/delivery"
	"esports_notifier/internal/domain"
	"esports_notifier/internal/service/mocks"
)

// fakeDestination satisfies delivery.Destination for fan-out assertions.
type fakeDestination struct {
	id int64
}

func (d fakeDestination) ID() int64 { return d.id }

func (d fakeDestination) Send(context.Context, domain.Message) error { return nil }

func art(game domain.Game, createdAt int64) domain.Article {
	return domain.Article{
		Game:      game,
		Title:     string(game),
		CreatedAt: createdAt,
	}
}

type PollerTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	source   *mocks.MockSource
	marks    *mocks.MockWatermarkStore
	subs     *mocks.MockSubscriptionStore
	sender   *mocks.MockSender
	resolver *mocks.MockResolver

	poller *Poller
	logger *slog.Logger
}

func (s *PollerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.source = mocks.NewMockSource(s.ctrl)
	s.marks = mocks.NewMockWatermarkStore(s.ctrl)
	s.subs = mocks.NewMockSubscriptionStore(s.ctrl)
	s.sender = mocks.NewMockSender(s.ctrl)
	s.resolver = mocks.NewMockResolver(s.ctrl)

	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.poller = NewPoller(s.source, s.marks, s.subs, s.sender, s.resolver, nil, s.logger)
}

func (s *PollerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestPollerTestSuite(t *testing.T) {
	suite.Run(t, new(PollerTestSuite))
}

// expectFetch wires one cycle's fetch results; a nil slice with err fetches as failed.
func (s *PollerTestSuite) expectFetch(results map[domain.Game][]domain.Article, errs map[domain.Game]error) {
	for _, g := range domain.Games() {
		s.source.EXPECT().
			FetchNews(gomock.Any(), g, gomock.Any()).
			Return(results[g], errs[g])
	}
}

// captureBatches records every SendBatch by destination id, reporting full success.
func (s *PollerTestSuite) captureBatches(batches map[int64][]domain.Message) {
	s.sender.EXPECT().
		SendBatch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, dest delivery.Destination, msgs []domain.Message) (int, int) {
			batches[dest.ID()] = msgs
			return len(msgs), 0
		}).
		AnyTimes()
}

func (s *PollerTestSuite) TestRunCycle_NewArticlesDeliveredInOrder() {
	// watermark(lol)=1000, fetch returns createdAt {900, 1500, 1800}:
	// exactly [1500, 1800] goes out, ascending, and the mark lands on 1800
	s.expectFetch(map[domain.Game][]domain.Article{
		domain.GameLoL: {art(domain.GameLoL, 1800), art(domain.GameLoL, 900), art(domain.GameLoL, 1500)},
	}, nil)

	s.marks.EXPECT().GetAll(gomock.Any()).Return(map[domain.Game]int64{
		domain.GameLoL: 1000, domain.GameValorant: 0, domain.GameOverwatch: 0,
	}, nil)

	s.subs.EXPECT().GetAll(gomock.Any()).Return([]domain.Subscription{
		{ChannelID: 10, LoL: true},
		{ChannelID: 20, LoL: true, Overwatch: true},
	}, nil)

	s.resolver.EXPECT().Resolve(int64(10)).Return(fakeDestination{10}, true)
	s.resolver.EXPECT().Resolve(int64(20)).Return(fakeDestination{20}, true)

	batches := make(map[int64][]domain.Message)
	s.captureBatches(batches)

	s.marks.EXPECT().Advance(gomock.Any(), domain.GameLoL, int64(1800)).Return(nil)

	stats, err := s.poller.RunCycle(context.Background())

	s.NoError(err)
	s.Equal(3, stats.Fetched)
	s.Equal(2, stats.New)
	s.Equal(4, stats.Delivered)

	// both subscribed destinations get the identical ascending set
	for _, id := range []int64{10, 20} {
		msgs := batches[id]
		s.Require().Len(msgs, 2)
		s.Equal(int64(1500), msgs[0].Embed.Timestamp.UnixMilli())
		s.Equal(int64(1800), msgs[1].Embed.Timestamp.UnixMilli())
	}
}

func (s *PollerTestSuite) TestRunCycle_NoOpWhenNothingIsNew() {
	// everything fetched is at or below the watermark: no sends, no writes
	s.expectFetch(map[domain.Game][]domain.Article{
		domain.GameLoL:      {art(domain.GameLoL, 500), art(domain.GameLoL, 1000)},
		domain.GameValorant: {art(domain.GameValorant, 300)},
	}, nil)

	s.marks.EXPECT().GetAll(gomock.Any()).Return(map[domain.Game]int64{
		domain.GameLoL: 1000, domain.GameValorant: 300, domain.GameOverwatch: 0,
	}, nil)

	stats, err := s.poller.RunCycle(context.Background())

	s.NoError(err)
	s.Equal(3, stats.Fetched)
	s.Equal(0, stats.New)
	s.Equal(0, stats.Delivered)
}

func (s *PollerTestSuite) TestRunCycle_FetchIsolation() {
	// overwatch times out; lol and valorant still deliver and advance,
	// overwatch's watermark is untouched and no error reaches the caller
	s.expectFetch(map[domain.Game][]domain.Article{
		domain.GameLoL:      {art(domain.GameLoL, 2000)},
		domain.GameValorant: {art(domain.GameValorant, 2100)},
	}, map[domain.Game]error{
		domain.GameOverwatch: errors.New("context deadline exceeded"),
	})

	s.marks.EXPECT().GetAll(gomock.Any()).Return(map[domain.Game]int64{
		domain.GameLoL: 0, domain.GameValorant: 0, domain.GameOverwatch: 0,
	}, nil)

	s.subs.EXPECT().GetAll(gomock.Any()).Return([]domain.Subscription{
		{ChannelID: 10, LoL: true, Valorant: true, Overwatch: true},
	}, nil)
	s.resolver.EXPECT().Resolve(int64(10)).Return(fakeDestination{10}, true)

	batches := make(map[int64][]domain.Message)
	s.captureBatches(batches)

	s.marks.EXPECT().Advance(gomock.Any(), domain.GameLoL, int64(2000)).Return(nil)
	s.marks.EXPECT().Advance(gomock.Any(), domain.GameValorant, int64(2100)).Return(nil)

	stats, err := s.poller.RunCycle(context.Background())

	s.NoError(err)
	s.Equal(2, stats.New)
	s.Len(batches[10], 2)
}

func (s *PollerTestSuite) TestRunCycle_SubscriptionFiltering() {
	// D subscribes {lol, overwatch}: its queue is [A1, O1] by createdAt and
	// the valorant article never reaches it; a valorant-only channel gets
	// exactly [V1]; a channel with no flags gets nothing at all
	a1 := art(domain.GameLoL, 100)
	v1 := art(domain.GameValorant, 150)
	o1 := art(domain.GameOverwatch, 120)

	s.expectFetch(map[domain.Game][]domain.Article{
		domain.GameLoL:       {a1},
		domain.GameValorant:  {v1},
		domain.GameOverwatch: {o1},
	}, nil)

	s.marks.EXPECT().GetAll(gomock.Any()).Return(map[domain.Game]int64{}, nil)

	s.subs.EXPECT().GetAll(gomock.Any()).Return([]domain.Subscription{
		{ChannelID: 1, LoL: true, Overwatch: true},
		{ChannelID: 2, Valorant: true},
		{ChannelID: 3},
	}, nil)

	s.resolver.EXPECT().Resolve(int64(1)).Return(fakeDestination{1}, true)
	s.resolver.EXPECT().Resolve(int64(2)).Return(fakeDestination{2}, true)

	batches := make(map[int64][]domain.Message)
	s.captureBatches(batches)

	s.marks.EXPECT().Advance(gomock.Any(), domain.GameLoL, int64(100)).Return(nil)
	s.marks.EXPECT().Advance(gomock.Any(), domain.GameValorant, int64(150)).Return(nil)
	s.marks.EXPECT().Advance(gomock.Any(), domain.GameOverwatch, int64(120)).Return(nil)

	_, err := s.poller.RunCycle(context.Background())
	s.NoError(err)

	s.Require().Len(batches[1], 2)
	s.Equal(int64(100), batches[1][0].Embed.Timestamp.UnixMilli())
	s.Equal(int64(120), batches[1][1].Embed.Timestamp.UnixMilli())

	s.Require().Len(batches[2], 1)
	s.Equal(int64(150), batches[2][0].Embed.Timestamp.UnixMilli())

	s.NotContains(batches, int64(3))
}

func (s *PollerTestSuite) TestRunCycle_AdvanceFailureRisksRedeliveryOnly() {
	// a failed advance is logged and swallowed: the cycle still succeeds,
	// and with the old watermark the same article is new again next cycle
	for range 2 {
		s.expectFetch(map[domain.Game][]domain.Article{
			domain.GameLoL: {art(domain.GameLoL, 1500)},
		}, nil)
		s.marks.EXPECT().GetAll(gomock.Any()).Return(map[domain.Game]int64{domain.GameLoL: 1000}, nil)
		s.subs.EXPECT().GetAll(gomock.Any()).Return([]domain.Subscription{{ChannelID: 10, LoL: true}}, nil)
		s.resolver.EXPECT().Resolve(int64(10)).Return(fakeDestination{10}, true)
		s.marks.EXPECT().Advance(gomock.Any(), domain.GameLoL, int64(1500)).Return(errors.New("connection reset"))
	}

	batches := make(map[int64][]domain.Message)
	s.captureBatches(batches)

	stats, err := s.poller.RunCycle(context.Background())
	s.NoError(err)
	s.Equal(1, stats.New)

	stats, err = s.poller.RunCycle(context.Background())
	s.NoError(err)
	s.Equal(1, stats.New, "undelivered watermark must re-expose the article")
}

func (s *PollerTestSuite) TestRunCycle_WatermarkReadFailureDefaultsToZero() {
	s.expectFetch(map[domain.Game][]domain.Article{
		domain.GameLoL: {art(domain.GameLoL, 700)},
	}, nil)

	s.marks.EXPECT().GetAll(gomock.Any()).Return(nil, errors.New("pool exhausted"))

	s.subs.EXPECT().GetAll(gomock.Any()).Return([]domain.Subscription{{ChannelID: 10, LoL: true}}, nil)
	s.resolver.EXPECT().Resolve(int64(10)).Return(fakeDestination{10}, true)

	batches := make(map[int64][]domain.Message)
	s.captureBatches(batches)

	s.marks.EXPECT().Advance(gomock.Any(), domain.GameLoL, int64(700)).Return(nil)

	stats, err := s.poller.RunCycle(context.Background())

	s.NoError(err)
	s.Equal(1, stats.New, "unreadable watermark redelivers rather than loses")
	s.Len(batches[10], 1)
}

func (s *PollerTestSuite) TestRunCycle_RegistrySnapshotFailureHoldsWatermark() {
	// cycle 1: the registry read fails, so nothing is even attempted; the
	// watermark must hold (no Advance expectation on the strict mock)
	s.expectFetch(map[domain.Game][]domain.Article{
		domain.GameLoL: {art(domain.GameLoL, 900)},
	}, nil)
	s.marks.EXPECT().GetAll(gomock.Any()).Return(map[domain.Game]int64{}, nil)
	s.subs.EXPECT().GetAll(gomock.Any()).Return(nil, errors.New("pool exhausted"))

	stats, err := s.poller.RunCycle(context.Background())
	s.NoError(err)
	s.Equal(0, stats.Delivered)

	// cycle 2: the registry recovers and the same article is still new,
	// delivered now and only now advancing the watermark
	s.expectFetch(map[domain.Game][]domain.Article{
		domain.GameLoL: {art(domain.GameLoL, 900)},
	}, nil)
	s.marks.EXPECT().GetAll(gomock.Any()).Return(map[domain.Game]int64{}, nil)
	s.subs.EXPECT().GetAll(gomock.Any()).Return([]domain.Subscription{{ChannelID: 10, LoL: true}}, nil)
	s.resolver.EXPECT().Resolve(int64(10)).Return(fakeDestination{10}, true)

	batches := make(map[int64][]domain.Message)
	s.captureBatches(batches)

	s.marks.EXPECT().Advance(gomock.Any(), domain.GameLoL, int64(900)).Return(nil)

	stats, err = s.poller.RunCycle(context.Background())
	s.NoError(err)
	s.Equal(1, stats.New, "held watermark must re-expose the undelivered article")
	s.Len(batches[10], 1)
}

func (s *PollerTestSuite) TestRunCycle_UnresolvableDestinationSkipped() {
	s.expectFetch(map[domain.Game][]domain.Article{
		domain.GameLoL: {art(domain.GameLoL, 900)},
	}, nil)

	s.marks.EXPECT().GetAll(gomock.Any()).Return(map[domain.Game]int64{}, nil)
	s.subs.EXPECT().GetAll(gomock.Any()).Return([]domain.Subscription{
		{ChannelID: 10, LoL: true}, // channel deleted
		{ChannelID: 20, LoL: true},
	}, nil)

	s.resolver.EXPECT().Resolve(int64(10)).Return(nil, false)
	s.resolver.EXPECT().Resolve(int64(20)).Return(fakeDestination{20}, true)

	batches := make(map[int64][]domain.Message)
	s.captureBatches(batches)

	s.marks.EXPECT().Advance(gomock.Any(), domain.GameLoL, int64(900)).Return(nil)

	stats, err := s.poller.RunCycle(context.Background())

	s.NoError(err)
	s.Equal(1, stats.Skipped)
	s.Len(batches[20], 1)
}

func (s *PollerTestSuite) TestRunCycle_PublishFailureDoesNotAbort() {
	pub := mocks.NewMockPublisher(s.ctrl)
	poller := NewPoller(s.source, s.marks, s.subs, s.sender, s.resolver, pub, s.logger)

	s.expectFetch(map[domain.Game][]domain.Article{
		domain.GameLoL: {art(domain.GameLoL, 900)},
	}, nil)

	s.marks.EXPECT().GetAll(gomock.Any()).Return(map[domain.Game]int64{}, nil)
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("channel closed"))
	s.subs.EXPECT().GetAll(gomock.Any()).Return(nil, nil)
	s.marks.EXPECT().Advance(gomock.Any(), domain.GameLoL, int64(900)).Return(nil)

	stats, err := poller.RunCycle(context.Background())

	s.NoError(err)
	s.Equal(0, stats.Published)
}

func (s *PollerTestSuite) TestRunCycle_OverlappingFireIsSkipped() {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	s.source.EXPECT().
		FetchNews(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, domain.Game, any) ([]domain.Article, error) {
			once.Do(func() { close(started) })
			<-release
			return nil, nil
		}).
		Times(3)

	s.marks.EXPECT().GetAll(gomock.Any()).Return(map[domain.Game]int64{}, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := s.poller.RunCycle(context.Background())
		s.NoError(err)
	}()

	<-started
	s.True(s.poller.IsRunning())

	_, err := s.poller.RunCycle(context.Background())
	s.ErrorIs(err, ErrCycleRunning)

	close(release)
	<-done
	s.False(s.poller.IsRunning())
}
