package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	tele "gopkg.in/telebot.v3"

	"puppymentor/internal/ai"
	"puppymentor/internal/app"
	"puppymentor/internal/config"
	"puppymentor/internal/conversation"
	"puppymentor/internal/handler"
	"puppymentor/internal/httpserver"
	"puppymentor/internal/logger"
	"puppymentor/internal/middleware"
	"puppymentor/internal/notify"
	"puppymentor/internal/repository/postgres"
	"puppymentor/internal/service"
	"puppymentor/internal/timer"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration first, it carries the log level
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting PuppyMentor Bot", zap.String("tz", cfg.Location().String()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database with retries
	db, err := connectDatabase(ctx, cfg.DSN(), log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	log.Info("Database connection established")

	if err := runMigrations(db, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Repositories
	writes := postgres.NewWriteBuffer(db, postgres.FlushPolicy{
		Window:     cfg.FlushWindow,
		MaxPending: cfg.FlushMaxPending,
	}, log)
	userRepo := postgres.NewUserRepo(db)
	scheduleRepo := postgres.NewScheduleRepo(db)
	vaccinationRepo := postgres.NewVaccinationRepo(db)
	journalRepo := postgres.NewJournalRepo(db, writes)
	trainingRepo := postgres.NewTrainingRepo(db)

	// AI collaborator; without a key every answer falls back
	var gen ai.Generator
	if cfg.GeminiConfig.APIKey != "" {
		gemini, err := ai.NewGeminiGenerator(ctx, cfg.GeminiConfig.APIKey, cfg.GeminiConfig.Model)
		if err != nil {
			log.Error("Failed to create Gemini client, AI answers are disabled", zap.Error(err))
		} else {
			gen = gemini
		}
	} else {
		log.Warn("GEMINI_API_KEY is not set, AI answers are disabled")
	}
	advisor := ai.NewAdvisor(gen, log)

	// Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:   cfg.BotToken,
		Poller:  &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: middleware.OnError(log),
	})
	if err != nil {
		log.Fatal("Failed to create bot", zap.Error(err))
	}

	log.Info("Telegram bot initialized")

	// Scheduling engine
	registry := timer.NewRegistry(cfg.Location(), log)
	states := conversation.NewStore()
	notifier := notify.NewNotifier(bot, log)

	tracker := service.NewTrackerService(journalRepo, cfg.Location(), log)
	training := service.NewTrainingService(trainingRepo, log)
	profiles := service.NewProfileService(userRepo, vaccinationRepo, journalRepo, cfg.Location(), log)
	reminders := service.NewReminderService(scheduleRepo, registry, notifier, cfg.ReminderLead, log)
	schedules := service.NewScheduleService(scheduleRepo, reminders, log)
	daily := service.NewDailyService(userRepo, vaccinationRepo, tracker, advisor, notifier, service.DailyTimes{
		MorningTip:       cfg.MorningTipTime.TimeOfDay,
		VaccinationCheck: cfg.VaccinationCheckTime.TimeOfDay,
		JournalCleanup:   cfg.CleanupTime.TimeOfDay,
	}, cfg.Location(), log)

	application := app.New(registry, states, reminders, daily, profiles, writes, log)

	machine := conversation.NewMachine(
		states,
		profiles,
		schedules,
		advisor,
		handler.NewResponder(bot, log),
		cfg.Location(),
		log,
	)

	bot.Use(middleware.EnsureUser(userRepo, log))

	h := handler.NewHandler(ctx, bot, handler.Deps{
		Profile:  profiles,
		Schedule: schedules,
		Tracker:  tracker,
		Training: training,
		Tips:     advisor,
		Reset:    application,
		States:   states,
		Machine:  machine,
		Location: cfg.Location(),
	}, log)
	h.RegisterHandlers()

	log.Info("Handlers registered")

	if err := application.Start(ctx); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}

	server := httpserver.NewServer(cfg.HTTPAddr, httpserver.NewRouter(httpserver.Options{
		DB:     db,
		Timers: registry,
		States: states,
	}), log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Bot started successfully")
		bot.Start()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutdown signal received, stopping bot...")
		bot.Stop()
		return nil
	})
	g.Go(func() error {
		return server.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Service stopped with error", zap.Error(err))
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down cleanly", zap.Error(err))
	}

	log.Info("Bot stopped gracefully")
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(ctx context.Context, dsn string, log *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		db, err = sql.Open("postgres", dsn)
		if err != nil {
			log.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			continue
		}

		if err = db.PingContext(ctx); err != nil {
			log.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			continue
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations applies pending migrations from ./migrations
func runMigrations(db *sql.DB, log *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		log.Info("Migrations applied successfully")
	}
	return nil
}
