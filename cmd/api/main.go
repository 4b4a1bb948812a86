// Command api is the league results bot's HTTP trigger server.
//
// Usage:
//
//	league-api
//	API_PORT=8080 league-api
//
// GET /run starts one incremental reconciliation run. Two overlapping
// trigger calls run concurrently; schedule the trigger accordingly.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/joho/godotenv"

	"github.com/openclassical/league-data/internal/api"
	"github.com/openclassical/league-data/internal/chesscom"
	"github.com/openclassical/league-data/internal/config"
	"github.com/openclassical/league-data/internal/league"
	"github.com/openclassical/league-data/internal/notify"
	"github.com/openclassical/league-data/internal/runner"
	"github.com/openclassical/league-data/internal/sheets"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logger.Info("Connecting to spreadsheet store...")
	store, err := sheets.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to create sheets client", "error", err)
		os.Exit(1)
	}
	if err := store.HealthCheck(ctx); err != nil {
		logger.Error("Spreadsheet unreachable", "error", err)
		os.Exit(1)
	}
	logger.Info("Spreadsheet store connected", "spreadsheet_id", cfg.SpreadsheetID)

	var notifier notify.Notifier = notify.Noop{}
	if cfg.DiscordToken != "" {
		discord, err := notify.NewDiscord(cfg.DiscordToken, cfg.DiscordRecipients, cfg.DiscordSummaryChannel, logger)
		if err != nil {
			logger.Error("Failed to create discord notifier", "error", err)
			os.Exit(1)
		}
		defer discord.Close()
		notifier = discord
		logger.Info("Discord notifier enabled", "recipients", len(cfg.DiscordRecipients))
	} else {
		logger.Info("Discord notifier disabled (no CHESS_BOT_DISCORD_TOKEN)")
	}

	run := runner.New(
		clock.New(),
		league.NewSeasonDirectory(store),
		league.NewScheduleRepo(store, store),
		league.NewResultsLog(store, store),
		chesscom.New(cfg.ChessComBaseURL, cfg.ChessComPerMinute, logger),
		notifier,
		runner.NewSnapshotWriter(cfg.SnapshotDir),
		logger,
		runner.Options{
			Dedup:              league.ParseDedupStrategy(cfg.DedupStrategy),
			EnrichDisplayNames: cfg.EnrichDisplayNames,
			NotifyPlayers:      cfg.NotifyPlayers,
		},
	)

	router := api.NewRouter(run, store, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Minute, // a full run happens inside one request
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting league results bot", "addr", addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
