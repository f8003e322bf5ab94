package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"esports_notifier/internal/bot"
	"esports_notifier/internal/config"
	"esports_notifier/internal/delivery"
	"esports_notifier/internal/publisher"
	"esports_notifier/internal/scheduler"
	"esports_notifier/internal/service"
	"esports_notifier/internal/source/naver"
	"esports_notifier/internal/source/vlr"
	"esports_notifier/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	// Storage is the one dependency nothing can run without: a pool
	// failure here aborts startup.
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxConns)

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Initialize stores
	watermarks := postgres.NewWatermarkStore(db)
	subscriptions := postgres.NewSubscriptionStore(db)

	// Initialize upstream clients
	naverClient := naver.New(naver.Config{
		NewsBaseURL:     cfg.API.NewsBaseURL,
		ScheduleBaseURL: cfg.API.ScheduleBaseURL,
		PageSize:        cfg.API.PageSize,
		Timeout:         cfg.API.Timeout,
		UserAgent:       cfg.API.UserAgent,
	}, logger)

	vlrClient := vlr.New(vlr.Config{
		BaseURL:   cfg.API.PlayerBaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
	}, logger)

	// Optional article-event publisher
	var events service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		events = rabbitMQ
	}

	pacer := delivery.NewPacer(cfg.Poll.SendDelay, logger)

	// Poller needs the bot's resolver, and the bot's command handlers need
	// the poller's preview, so the poller is built first with a resolver
	// filled in after the session exists.
	resolver := &lateResolver{}

	poller := service.NewPoller(
		naverClient,
		watermarks,
		subscriptions,
		pacer,
		resolver,
		events,
		logger,
	)

	chatBot, err := bot.New(
		cfg.Discord.Token,
		cfg.Discord.Prefix,
		subscriptions,
		poller,
		naverClient,
		vlrClient,
		logger,
	)
	if err != nil {
		logger.Error("failed to create bot", "error", err)
		os.Exit(1)
	}
	resolver.inner = bot.NewChannelResolver(chatBot.Session())

	if err := chatBot.Open(); err != nil {
		logger.Error("failed to open discord session", "error", err)
		os.Exit(1)
	}
	defer chatBot.Close()

	sched := scheduler.NewScheduler(poller, cfg.Poll.Interval, cfg.Poll.CycleTimeout, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("starting esports notifier",
		"poll_interval", cfg.Poll.Interval,
		"send_delay", cfg.Poll.SendDelay,
	)

	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

// lateResolver defers to a resolver wired in after session creation.
type lateResolver struct {
	inner service.Resolver
}

func (r *lateResolver) Resolve(channelID int64) (delivery.Destination, bool) {
	if r.inner == nil {
		return nil, false
	}
	return r.inner.Resolve(channelID)
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
