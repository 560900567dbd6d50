package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"onhostel/internal/api"
	"onhostel/internal/auth"
	"onhostel/internal/config"
	"onhostel/internal/database"
	"onhostel/internal/domain"
	"onhostel/internal/events"
	"onhostel/internal/logging"
	"onhostel/internal/metrics"
	"onhostel/internal/remote"
	"onhostel/internal/reports"
	"onhostel/internal/repository"
	"onhostel/internal/service"
	"onhostel/internal/sheets"
	"onhostel/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eventBus := events.NewEventBus()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	sessions := initSessions(cfg, redisClient, &logger)

	remoteStore := initRemote(ctx, cfg, &logger)
	if remoteStore != nil {
		defer remoteStore.Close(context.Background())
	}

	var (
		syncWorker   domain.SyncWorker
		resyncSvc    *service.ResyncService
		startWorker  func(context.Context)
		workerCancel context.CancelFunc = func() {}
	)
	if remoteStore != nil {
		w := worker.NewSyncWorker(db, remoteStore, redisClient, worker.RetryPolicy{}, &logger)
		syncWorker = w
		startWorker = w.Start
		resyncSvc = service.NewResyncService(db, remoteStore, eventBus, &logger)

		// Зеркало обновляется из удаленного источника при старте; при
		// недоступности Mongo панель работает с локальной копией.
		if _, err := resyncSvc.Resync(ctx); err != nil {
			logger.Warn().Err(err).Msg("startup resync failed, serving local mirror")
		}
	}

	identity, err := auth.NewIdentity(cfg.Auth, sessions, eventBus, &logger)
	if err != nil {
		return fmt.Errorf("init identity: %w", err)
	}

	deps := api.Deps{
		Identity: identity,
		Bookings: service.NewBookingService(db, eventBus, syncWorker, cfg.Units, &logger),
		Expenses: service.NewExpenseService(db, eventBus, syncWorker, sessions, &logger),
		Sendero:  service.NewSenderoService(db, eventBus, syncWorker, &logger),
		Bar:      service.NewBarService(db, eventBus, syncWorker, &logger),
		Finance:  service.NewFinanceService(db, sessions, &logger),
		Resync:   resyncSvc,
		Reports:  reports.NewGenerator(db, cfg.Reports.Path, &logger),
		Sessions: sessions,
		Units:    cfg.Units,
	}
	server := api.NewServer(cfg.API, deps, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	g, gctx := errgroup.WithContext(ctx)

	if startWorker != nil {
		var wctx context.Context
		wctx, workerCancel = context.WithCancel(gctx)
		g.Go(func() error {
			startWorker(wctx)
			return nil
		})
	}
	defer workerCancel()

	if publisher := initSheets(ctx, cfg, &logger); publisher != nil {
		finance := deps.Finance
		g.Go(func() error {
			publishSummaryLoop(gctx, finance, publisher, &logger)
			return nil
		})
	}

	g.Go(func() error {
		logger.Info().Int("port", cfg.API.Port).Msg("panel API started")
		return server.Start()
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown signal received")
		workerCancel()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.API.ShutdownTimeout)*time.Second,
		)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "panel-main").Logger()

	return cfg, logger, closer, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	client := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), client); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		_ = client.Close()
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return client
}

// initSessions собирает репозиторий сессий: Redis с резервом в памяти,
// либо только память, если Redis не настроен.
func initSessions(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.SessionRepository {
	memory := repository.NewMemorySessionRepository()
	if redisClient == nil {
		return memory
	}

	ttl := time.Duration(cfg.Auth.SessionTTL) * time.Second
	primary := repository.NewRedisSessionRepository(redisClient, ttl)
	return repository.NewFailoverSessionRepository(primary, memory, logger)
}

func initRemote(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *remote.MongoStore {
	if cfg.Mongo.URI == "" {
		logger.Warn().Msg("mongo is not configured, replication disabled")
		return nil
	}

	store, err := remote.NewMongoStore(ctx, cfg.Mongo)
	if err != nil {
		logger.Warn().Err(err).Msg("mongo connection failed, replication disabled")
		return nil
	}

	logger.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")
	return store
}

func initSheets(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *sheets.Publisher {
	if cfg.Google.CredentialsFile == "" || cfg.Google.SummarySpreadsheetID == "" {
		return nil
	}

	publisher, err := sheets.NewPublisher(ctx, cfg.Google.CredentialsFile, cfg.Google.SummarySpreadsheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}

	serviceAccount, err := sheets.ServiceAccountEmail(cfg.Google.CredentialsFile)
	if err != nil {
		logger.Warn().Err(err).Msg("unable to read service account email")
	}
	logger.Info().Str("service_account", serviceAccount).Msg("google sheets connected")
	return publisher
}

// publishSummaryLoop периодически выгружает сводку текущего месяца в
// Google-таблицу. Ошибки публикации не останавливают панель.
func publishSummaryLoop(ctx context.Context, finance *service.FinanceService, publisher *sheets.Publisher, logger *zerolog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	publish := func() {
		summary, _, err := finance.MonthlySummary(ctx, time.Now())
		if err != nil {
			logger.Error().Err(err).Msg("build summary for sheets")
			return
		}
		if err := publisher.PublishSummary(ctx, summary); err != nil {
			logger.Error().Err(err).Msg("publish summary to sheets")
			return
		}
		logger.Info().Msg("summary published to sheets")
	}

	publish()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			publish()
		}
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Int("port", port).Msg("metrics server started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server stopped")
	}
}
