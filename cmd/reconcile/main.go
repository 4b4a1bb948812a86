// Command reconcile is the league results bot's one-shot CLI.
//
// Usage:
//
//	league-reconcile run
//	league-reconcile backfill --season 13-standard-A
//	league-reconcile seasons
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/openclassical/league-data/internal/chesscom"
	"github.com/openclassical/league-data/internal/config"
	"github.com/openclassical/league-data/internal/league"
	"github.com/openclassical/league-data/internal/notify"
	"github.com/openclassical/league-data/internal/runner"
	"github.com/openclassical/league-data/internal/sheets"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "league-reconcile",
		Short: "Chess league results reconciliation CLI",
	}

	root.AddCommand(runCmd())
	root.AddCommand(backfillCmd())
	root.AddCommand(seasonsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// run command
// --------------------------------------------------------------------------

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Reconcile the current week of every active season",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(func(ctx context.Context, r *runner.Runner) error {
				start := time.Now()
				result, err := r.Run(ctx)
				if err != nil {
					return err
				}
				logger.Info("Run finished", "duration", time.Since(start).Round(time.Second), "summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("run error", "error", e)
				}
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// backfill command
// --------------------------------------------------------------------------

func backfillCmd() *cobra.Command {
	var seasonID string
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Reconcile every scheduled week of one season",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seasonID == "" {
				return fmt.Errorf("--season is required")
			}
			return withRunner(func(ctx context.Context, r *runner.Runner) error {
				start := time.Now()
				result, err := r.Backfill(ctx, seasonID)
				if err != nil {
					return err
				}
				logger.Info("Backfill finished",
					"season", seasonID,
					"duration", time.Since(start).Round(time.Second),
					"summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("backfill error", "error", e)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&seasonID, "season", "", "Season identifier, e.g. 13-standard-A")
	return cmd
}

// --------------------------------------------------------------------------
// seasons command (debug listing)
// --------------------------------------------------------------------------

func seasonsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seasons",
		Short: "List active seasons with their current and scheduled weeks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, store *sheets.Client) error {
				directory := league.NewSeasonDirectory(store)
				schedule := league.NewScheduleRepo(store, store)
				clk := clock.New()

				seasons, err := directory.Active(ctx)
				if err != nil {
					return err
				}
				if len(seasons) == 0 {
					logger.Warn("no active seasons found")
					return nil
				}

				for _, season := range seasons {
					current := "none"
					if ws, ok, err := schedule.CurrentWeekStart(ctx, season.ID, clk.Now()); err != nil {
						return err
					} else if ok {
						current = league.FormatDate(ws)
					}

					weeks, err := schedule.AllWeekStarts(ctx, season.ID)
					if err != nil {
						return err
					}
					all := make([]string, 0, len(weeks))
					for _, w := range weeks {
						all = append(all, league.FormatDate(w))
					}

					logger.Info("season",
						"id", season.ID,
						"game_type", season.GameType,
						"tier", season.Tier,
						"current_week", current,
						"scheduled_weeks", all)
				}
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// withStore handles config loading, store connection, and context
// cancellation.
func withStore(fn func(ctx context.Context, store *sheets.Client) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := sheets.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create sheets client: %w", err)
	}

	return fn(ctx, store)
}

// withRunner builds the full pipeline around the store.
func withRunner(fn func(ctx context.Context, r *runner.Runner) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := sheets.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create sheets client: %w", err)
	}

	var notifier notify.Notifier = notify.Noop{}
	if cfg.DiscordToken != "" {
		discord, err := notify.NewDiscord(cfg.DiscordToken, cfg.DiscordRecipients, cfg.DiscordSummaryChannel, logger)
		if err != nil {
			return fmt.Errorf("create discord notifier: %w", err)
		}
		defer discord.Close()
		notifier = discord
	}

	r := runner.New(
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

	return fn(ctx, r)
}
