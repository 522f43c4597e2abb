package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"vocabtrainer/internal/cache"
	"vocabtrainer/internal/config"
	"vocabtrainer/internal/domain"
	"vocabtrainer/internal/handler"
	"vocabtrainer/internal/metrics/prometheus"
	"vocabtrainer/internal/repository/postgres"
	"vocabtrainer/internal/service"
)

var skipMigrations bool

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	Long: `Run the Telegram bot until interrupted.

Migrations are applied on startup unless --skip-migrations is set. The
Redis cache is used when REDIS_ADDR is set, and /metrics is served when
METRICS_ADDR is set.`,
	RunE: runBot,
}

func init() {
	botCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply migrations on startup")
	rootCmd.AddCommand(botCmd)
}

func runBot(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Starting vocabtrainer bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Info("Configuration loaded successfully",
		zap.Bool("cache_enabled", cfg.Redis.Enabled()),
		zap.Duration("reminder_interval", cfg.ReminderInterval),
	)

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("Database connection established")

	if !skipMigrations {
		if err := runMigrations(db, migrationsURL, 0, logger); err != nil {
			return err
		}
		logger.Info("Database migrations completed")
	}

	collector := prometheus.New(nil)

	store, err := openCache(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	gateway := cache.NewGateway(store, cache.NewKeys(cfg.Redis.KeyPrefix), cfg.CacheTTL, logger, collector)

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	recordRepo := postgres.NewRecordRepo(db)
	vocabRepo := postgres.NewVocabularyRepo(db)
	topicRepo := postgres.NewTopicRepo(db)
	resultRepo := postgres.NewTestResultRepo(db)

	// Initialize services
	scheduler := service.NewSchedulerService(recordRepo, vocabRepo, gateway, collector, logger)
	profile := service.NewProfileService(userRepo, gateway, logger)
	services := handler.Services{
		Auth:       service.NewAuthService(userRepo, cfg.BotPassword),
		Scheduler:  scheduler,
		Quiz:       service.NewQuizService(recordRepo, vocabRepo, resultRepo, scheduler, gateway, collector, logger),
		Progress:   service.NewProgressService(recordRepo, topicRepo, profile, gateway, logger),
		Profile:    profile,
		Vocabulary: service.NewVocabularyService(vocabRepo, gateway),
	}
	reminders := service.NewReminderService(userRepo, recordRepo, collector, logger)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Telegram bot initialized")

	h := handler.NewHandler(bot, services, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobs, err := startReminderJob(ctx, cfg.ReminderInterval, reminders, botNotifier(bot), logger)
	if err != nil {
		return err
	}
	defer jobs.Stop()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = serveMetrics(cfg.MetricsAddr, logger)
	}

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	cancel()
	if metricsServer != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to stop metrics server", zap.Error(err))
		}
	}

	logger.Info("Bot stopped gracefully")
	return nil
}

// openCache connects to Redis, or returns a store that never caches when
// no address is configured
func openCache(cfg *config.Config, logger *zap.Logger) (cache.Store, error) {
	if !cfg.Redis.Enabled() {
		logger.Info("Cache disabled, reading through to the database")
		return cache.NilStore{}, nil
	}

	store := cache.NewRedisStore(cfg.CacheStore())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		// The cache is optional; the gateway degrades to the database
		logger.Warn("Cache unreachable at startup", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	} else {
		logger.Info("Cache connection established", zap.String("addr", cfg.Redis.Addr))
	}
	return store, nil
}

func serveMetrics(addr string, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()
	return srv
}

// botNotifier delivers reminders as Telegram messages
func botNotifier(bot *tele.Bot) service.Notifier {
	return func(_ context.Context, r domain.Reminder) error {
		_, err := bot.Send(&tele.User{ID: r.UserID}, reminderText(r))
		return err
	}
}

func reminderText(r domain.Reminder) string {
	text := fmt.Sprintf("⏰ Пора повторить слова: %d ждут тебя. Нажми /review", r.Due)
	if r.DailyGoal > 0 {
		text += fmt.Sprintf("\n\nА для новых слов (цель: %d в день) есть /study", r.DailyGoal)
	}
	return text
}

// startReminderJob runs the reminder scan every interval
func startReminderJob(
	ctx context.Context,
	interval time.Duration,
	reminders *service.ReminderService,
	notify service.Notifier,
	logger *zap.Logger,
) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	_, err := s.Every(interval).Do(func() {
		runCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		if err := reminders.SendReminders(runCtx, time.Now(), notify); err != nil {
			logger.Error("Reminder run failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule reminders: %w", err)
	}

	// Start the scheduler in a non-blocking manner
	s.StartAsync()
	logger.Info("Reminder job scheduled", zap.Duration("interval", interval))
	return s, nil
}
