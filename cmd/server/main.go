package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/wordflash/wordflash/internal/api"
	"github.com/wordflash/wordflash/internal/cache"
	"github.com/wordflash/wordflash/internal/config"
	"github.com/wordflash/wordflash/internal/db"
	"github.com/wordflash/wordflash/internal/jobs"
	"github.com/wordflash/wordflash/internal/logger"
	"github.com/wordflash/wordflash/internal/metrics"
	"github.com/wordflash/wordflash/internal/notify"
	"github.com/wordflash/wordflash/internal/repository/sqlstore"
	"github.com/wordflash/wordflash/internal/scheduler"
	"github.com/wordflash/wordflash/internal/services"
	"github.com/wordflash/wordflash/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("WordFlash Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	loc, _ := cfg.Location()

	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_driver=%s", cfg.DBDriver)
	log.Debug("timezone=%s", loc)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("stats_cache_ttl=%s", cfg.StatsCacheTTL)
	log.Debug("reminder_hour=%d", cfg.ReminderHour)
	log.Debug("session_ttl=%s", cfg.SessionTTL)
	log.Debug("notify_worker_count=%d", cfg.NotifyWorkerCount)
	log.Debug("notify_queue_size=%d", cfg.NotifyQueueSize)

	database, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	statsCache := cache.NewNoop()
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, dashboard cache disabled: %v", err)
		} else {
			log.Info("dashboard cache backed by redis")
			statsCache = redisCache
		}
	}
	defer statsCache.Close()

	var notifier notify.Notifier = notify.Log{}
	if cfg.TelegramBotToken != "" {
		tg, err := notify.NewTelegram(cfg.TelegramBotToken)
		if err != nil {
			log.Error("failed to connect to telegram: %v", err)
			os.Exit(1)
		}
		notifier = tg
	} else {
		log.Info("TELEGRAM_BOT_TOKEN not set, reminders are only logged")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.MustRegister(registry)

	userRepo := sqlstore.NewUserRepository(database.DB)
	cardRepo := sqlstore.NewFlashcardRepository(database.DB)
	reviewRepo := sqlstore.NewReviewRepository(database.DB)
	statsRepo := sqlstore.NewStatsRepository(database.DB)

	notifyPool := worker.NewPool(cfg.NotifyWorkerCount, cfg.NotifyQueueSize)
	notifyPool.Start(ctx)

	userService := services.NewUserService(userRepo, statsCache)
	flashcardService := services.NewFlashcardService(cardRepo, userRepo, reviewRepo, statsCache, loc, nil)
	practiceService := services.NewPracticeService(flashcardService, nil)
	statsService := services.NewStatsService(statsRepo, cardRepo, userRepo, statsCache, cfg.StatsCacheTTL, loc, nil)
	importService := services.NewImportService(cardRepo, userRepo, statsCache, nil)
	reminderService := services.NewReminderService(userRepo, statsRepo, jobs.NewWorkerQueue(notifyPool, notifier), nil)

	sched := scheduler.New(scheduler.Config{
		Location:     loc,
		ReminderHour: cfg.ReminderHour,
		SessionTTL:   cfg.SessionTTL,
	}, statsService, reminderService, practiceService)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler: %v", err)
		os.Exit(1)
	}

	srv := &api.Server{
		UserService:      userService,
		FlashcardService: flashcardService,
		PracticeService:  practiceService,
		StatsService:     statsService,
		ImportService:    importService,
		DB:               database,
		Cache:            statsCache,
		Registry:         registry,
		CORSOrigins:      cfg.CORSOrigins,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping scheduler")
	sched.Stop()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping notify pool")
	notifyPool.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("WordFlash Server Stopped")
	log.Info("===========================================")
}
