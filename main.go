package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/brawlboss/internal/brawlstars"
	"github.com/mauv0809/brawlboss/internal/commands"
	"github.com/mauv0809/brawlboss/internal/config"
	"github.com/mauv0809/brawlboss/internal/database"
	server "github.com/mauv0809/brawlboss/internal/http"
	"github.com/mauv0809/brawlboss/internal/ingest"
	"github.com/mauv0809/brawlboss/internal/metrics"
	"github.com/mauv0809/brawlboss/internal/notifier"
	"github.com/mauv0809/brawlboss/internal/notifier/slack"
	"github.com/mauv0809/brawlboss/internal/scheduler"
	"github.com/mauv0809/brawlboss/internal/stats"
	"github.com/mauv0809/brawlboss/internal/store"
)

func main() {
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warn("Unknown LOG_LEVEL, keeping info", "value", cfg.LogLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg.Store)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds(), "driver", cfg.Store.Driver)
	if err != nil {
		log.Fatalf("Failed to initialize store: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.Error("Failed to close store", "error", err)
		}
	}()

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	client := brawlstars.NewClient(cfg.BrawlStars.Token, cfg.BrawlStars.BaseURL)

	var notif notifier.Notifier = notifier.Noop{}
	if cfg.Slack.Token != "" && cfg.Slack.ChannelID != "" {
		notif = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	} else {
		log.Warn("Slack is not configured, notifications are disabled")
	}

	statsSvc := stats.New(st)
	pipeline := ingest.New(client, st, notif, metricsSvc, cfg.BrawlStars.ClubTag)
	responder := commands.NewResponder(st, client, statsSvc, metricsSvc, cfg.BrawlStars.ClubTag)

	checkConnectivity(ctx, client, st)

	s := server.NewServer(st, statsSvc, pipeline, responder, notif, metricsSvc, metricsHandler, cfg)

	updates, err := scheduler.New(ctx, "club-update", cfg.UpdateInterval, func(ctx context.Context) {
		if _, err := pipeline.Run(ctx, ingest.Options{}); err != nil && !errors.Is(err, ingest.ErrAlreadyRunning) {
			log.Error("Scheduled update failed", "error", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule updates: %s", err)
	}
	updates.Start()
	defer updates.Stop()
	log.Info("Scheduled club updates", "interval", cfg.UpdateInterval, "next_run", updates.NextRun())

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", "error", err)
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}

// openStore connects the configured document store and applies its schema.
func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
		if err != nil {
			return nil, err
		}
		return store.NewSQLite(db), nil
	default:
		_, db, err := database.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		return store.NewMongo(ctx, db), nil
	}
}

// checkConnectivity logs whether the Brawl Stars API and the database answer.
// Neither failure stops startup.
func checkConnectivity(ctx context.Context, client brawlstars.Client, st store.Store) {
	if _, err := client.GetEventRotation(ctx); err != nil {
		log.Warn("Brawl Stars API connectivity check failed", "error", err)
	} else {
		log.Info("Brawl Stars API connectivity check passed")
	}
	if st.Ping(ctx) {
		log.Info("Database connectivity check passed")
	} else {
		log.Warn("Database connectivity check failed")
	}
}
