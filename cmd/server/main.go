package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"refund_status_service/internal/app"
	"refund_status_service/internal/domain/alert"
	"refund_status_service/internal/domain/filing"
	"refund_status_service/internal/domain/refund"
	"refund_status_service/internal/infra/cache"
	"refund_status_service/internal/infra/config"
	idb "refund_status_service/internal/infra/database"
	"refund_status_service/internal/infra/directory"
	"refund_status_service/internal/infra/etaoracle"
	"refund_status_service/internal/infra/httpapi"
	"refund_status_service/internal/infra/logger"
	"refund_status_service/internal/infra/scheduler"
	"refund_status_service/internal/infra/seed"
	"refund_status_service/internal/infra/sources"
	itg "refund_status_service/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Refund Status Service starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"log_level":   cfg.LogLevel,
	}).Info("Configuration loaded.")

	// Status aggregate store: durable when DATABASE_URL is set, in-memory otherwise.
	var statusRepo refund.Repository
	if cfg.DatabaseURL != "" {
		db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("FATAL: Could not connect to database: %v", err)
		}
		defer db.Close()
		statusRepo = idb.NewPostgresStatusRepository(db)
		log.Info("Postgres status store initialized.")
	} else {
		statusRepo = idb.NewMemoryStatusRepository()
		log.Info("In-memory status store initialized.")
	}

	// Upstream collaborators: HTTP clients when configured, static stand-ins
	// otherwise. Local runs reseed sample data into the stand-ins.
	upstreamClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	staticSource := sources.NewStaticSource()

	var federalSource refund.FederalSource = staticSource
	if cfg.FederalSourceURL != "" {
		federalSource = sources.NewHTTPFederalSource(cfg.FederalSourceURL, upstreamClient)
	}
	var stateSource refund.StateSource = sources.NewStaticStateSource(staticSource)
	if cfg.StateSourceURL != "" {
		stateSource = sources.NewHTTPStateSource(cfg.StateSourceURL, upstreamClient)
	}

	staticDirectory := directory.NewStaticDirectory()
	var filingDirectory filing.Directory = staticDirectory
	if cfg.FilingDirectoryURL != "" {
		filingDirectory = directory.NewHTTPDirectory(cfg.FilingDirectoryURL, upstreamClient)
	}

	if cfg.SeedSampleData && cfg.FilingDirectoryURL == "" {
		if err := seed.LoadSampleData(context.Background(), staticDirectory, statusRepo, staticSource, log); err != nil {
			log.Fatalf("FATAL: Could not seed sample data: %v", err)
		}
	}

	// Ops alerting over Telegram, enabled only when a token is configured.
	var opsNotifier alert.Notifier
	if cfg.TelegramToken != "" {
		bot, err := telebot.NewBot(telebot.Settings{Token: cfg.TelegramToken})
		if err != nil {
			log.Fatalf("FATAL: Could not create Telegram bot for ops alerts: %v", err)
		}
		opsNotifier = itg.NewOpsNotifier(bot, cfg.OpsChatID)
		log.Info("Telegram ops alerting enabled.")
	}

	// Caches.
	filingCache := cache.New[[]refund.StatusRecord](cfg.FilingCacheTTL)
	filingCache.StartSweep(cfg.CacheSweepInterval)
	defer filingCache.Stop()
	summaryCache := cache.New[[]app.RefundSummary](cfg.SummaryCacheTTL)
	summaryCache.StartSweep(cfg.CacheSweepInterval)
	defer summaryCache.Stop()

	// Services.
	router := app.NewSourceRouter(federalSource, stateSource, log)
	aggregationService := app.NewAggregationService(statusRepo, router, filingCache, log)
	refreshService := app.NewRefreshService(statusRepo, router, opsNotifier, log)
	queryService := app.NewQueryService(filingDirectory, aggregationService, etaoracle.NewHeuristicPredictor(), summaryCache, cfg.UpstreamTimeout, log)

	refreshScheduler := scheduler.NewRefreshScheduler(refreshService, log, cfg.CronSpecRefresh, cfg.TickTimeout)
	if err := refreshScheduler.Start(); err != nil {
		log.Fatalf("FATAL: Could not start refresh scheduler: %v", err)
	}

	srv := &http.Server{
		Addr:    cfg.HTTPListenAddr,
		Handler: httpapi.NewRouter(queryService, aggregationService, log),
	}
	go func() {
		log.WithField("addr", cfg.HTTPListenAddr).Info("HTTP server listening.")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	refreshScheduler.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed.")
	}
	log.Info("Application shut down gracefully.")
}
