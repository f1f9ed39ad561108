package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-alert-bot/internal/bot"
	"github.com/maxaizer/job-alert-bot/internal/config"
	"github.com/maxaizer/job-alert-bot/internal/logger"
	"github.com/maxaizer/job-alert-bot/internal/metrics"
	"github.com/maxaizer/job-alert-bot/internal/repositories"
	"github.com/maxaizer/job-alert-bot/internal/services"
	"github.com/maxaizer/job-alert-bot/internal/sessions"
	"github.com/maxaizer/job-alert-bot/internal/sources"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func serveCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the telegram bot and the daily digest",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, config.Get())
		},
	}
}

type storage struct {
	backend sessions.Backend
	history *repositories.SentListings
	close   func()
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {

	s := &storage{close: func() {}}

	var dbContext *repositories.DbContext
	if cfg.DB.SessionStorage == config.StorageSqlite || cfg.Digest.SkipAlreadySent {
		var err error
		dbContext, err = repositories.NewDbContext(cfg.DB.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("can't create db context: %w", err)
		}
		if err = dbContext.Migrate(); err != nil {
			_ = dbContext.Close()
			return nil, fmt.Errorf("can't migrate db context: %w", err)
		}
		s.close = func() { _ = dbContext.Close() }
	}

	switch cfg.DB.SessionStorage {
	case config.StorageSqlite:
		s.backend = repositories.NewSessionsRepository(dbContext.DB)
	case config.StorageRedis:
		client, err := repositories.NewRedisClient(ctx, cfg.DB.RedisAddr, cfg.DB.RedisPassword, cfg.DB.RedisDB)
		if err != nil {
			s.close()
			return nil, err
		}
		closeDb := s.close
		s.close = func() {
			_ = client.Close()
			closeDb()
		}
		s.backend = repositories.NewRedisSessionsRepository(client)
	default:
		s.backend = sessions.NewMemoryBackend()
	}

	if cfg.Digest.SkipAlreadySent {
		s.history = repositories.NewSentListingsRepository(dbContext.DB)
	}

	log.Infof("session storage: %s, sent history: %v", cfg.DB.SessionStorage, s.history != nil)
	return s, nil
}

func serve(ctx context.Context, cfg *config.Config) error {

	logger.Setup(ctx, cfg.Logger)
	defer logger.Cleanup()

	if cfg.Metrics.Enabled {
		metrics.StartMetricsServer(cfg.Metrics.Address)
	}

	registry, err := sources.Setup(cfg.Sources)
	if err != nil {
		return fmt.Errorf("can't set up sources: %w", err)
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.close()

	bus := EventBus.New()
	sessionStore, err := sessions.NewStore(store.backend, bus)
	if err != nil {
		return err
	}

	api, err := bot.NewAPI(cfg.Bot.Token)
	if err != nil {
		return fmt.Errorf("can't create bot api: %w", err)
	}

	dispatcher := services.NewDispatcher(bot.NewTelegramMessenger(api), cfg.Delivery.Interval)
	pipeline := services.NewPipeline(services.NewAggregator(registry), dispatcher, cfg.Delivery)

	if store.history != nil {
		pipeline.SetHistory(store.history)
		cleaner, err := services.NewHistoryCleaner(store.history, cfg.Digest.HistoryExpirationDays)
		if err != nil {
			return fmt.Errorf("can't create history cleaner: %w", err)
		}
		cleaner.Start()
		defer cleaner.Stop()
	}

	scheduler, err := services.NewDigestScheduler(bus, sessionStore, pipeline, cfg.Digest)
	if err != nil {
		return fmt.Errorf("can't create digest scheduler: %w", err)
	}

	router, err := bot.NewRouter(sessionStore, pipeline, registry, scheduler)
	if err != nil {
		return fmt.Errorf("can't create router: %w", err)
	}

	tgbot, err := bot.NewBot(api, router)
	if err != nil {
		return fmt.Errorf("can't create bot: %w", err)
	}

	if err = scheduler.Start(ctx); err != nil {
		return err
	}

	tgbot.Run(ctx)

	log.Info("Shutting down services...")
	scheduler.Stop()
	log.Info("Services stopped.")
	return nil
}
