// Package runner sequences one reconciliation run: seasons → weeks →
// fetch → resolve → append → mark → notify. Everything is sequential by
// design; the only error-isolation boundary is the per-participant fetch.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/itbasis/go-clock"

	"github.com/openclassical/league-data/internal/chesscom"
	"github.com/openclassical/league-data/internal/league"
	"github.com/openclassical/league-data/internal/notify"
)

// GameSource fetches one provider month bucket for a player.
type GameSource interface {
	MonthlyGames(ctx context.Context, username string, year, month int) ([]chesscom.Game, error)
}

// Options are the orthogonal pipeline toggles.
type Options struct {
	Dedup              league.DedupStrategy
	EnrichDisplayNames bool
	NotifyPlayers      bool
}

// Runner owns the reconciliation pipeline. All collaborators are constructed
// once per process and passed in; the runner holds no ambient state.
type Runner struct {
	clock     clock.Clock
	seasons   *league.SeasonDirectory
	schedule  *league.ScheduleRepo
	results   *league.ResultsLog
	games     GameSource
	notifier  notify.Notifier
	snapshots *SnapshotWriter
	logger    *slog.Logger
	opts      Options
}

// New creates a Runner.
func New(
	clk clock.Clock,
	seasons *league.SeasonDirectory,
	schedule *league.ScheduleRepo,
	results *league.ResultsLog,
	games GameSource,
	notifier notify.Notifier,
	snapshots *SnapshotWriter,
	logger *slog.Logger,
	opts Options,
) *Runner {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		clock:     clk,
		seasons:   seasons,
		schedule:  schedule,
		results:   results,
		games:     games,
		notifier:  notifier,
		snapshots: snapshots,
		logger:    logger,
		opts:      opts,
	}
}

// Result aggregates counts and non-fatal errors across one invocation.
type Result struct {
	SeasonsProcessed int
	WeeksProcessed   int
	GamesFetched     int
	ResultsAppended  int
	RowsMarked       int
	Errors           []string
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf("seasons=%d weeks=%d fetched=%d appended=%d marked=%d errors=%d",
		r.SeasonsProcessed, r.WeeksProcessed, r.GamesFetched,
		r.ResultsAppended, r.RowsMarked, len(r.Errors))
}

// Run reconciles the current week of every active season. Returns a non-nil
// error only when the run could not start at all (season catalog
// unreachable); everything downstream is recorded on the Result.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	runID := uuid.NewString()
	logger := r.logger.With("run_id", runID)
	var result Result

	seasons, err := r.seasons.Active(ctx)
	if err != nil {
		return result, fmt.Errorf("load active seasons: %w", err)
	}
	if len(seasons) == 0 {
		logger.Warn("no active seasons found")
		return result, nil
	}

	for _, season := range seasons {
		weekStart, ok, err := r.schedule.CurrentWeekStart(ctx, season.ID, r.clock.Now())
		if err != nil {
			logger.Error("resolve current week failed", "season", season.ID, "error", err)
			result.AddErrorf("season %s: resolve current week: %v", season.ID, err)
			continue
		}
		if !ok {
			logger.Warn("no current week start, skipping season", "season", season.ID)
			continue
		}
		result.SeasonsProcessed++
		r.processWeek(ctx, logger, season, weekStart, &result)
	}

	logger.Info("run complete", "summary", result.Summary())
	return result, nil
}

// Backfill reconciles every scheduled week of one named season, oldest
// first. The season does not have to be active.
func (r *Runner) Backfill(ctx context.Context, seasonID string) (Result, error) {
	runID := uuid.NewString()
	logger := r.logger.With("run_id", runID, "mode", "backfill")
	var result Result

	season, err := r.seasons.Find(ctx, seasonID)
	if err != nil {
		return result, err
	}

	weeks, err := r.schedule.AllWeekStarts(ctx, season.ID)
	if err != nil {
		return result, fmt.Errorf("list scheduled weeks: %w", err)
	}
	if len(weeks) == 0 {
		logger.Warn("season has no scheduled weeks", "season", season.ID)
		return result, nil
	}

	result.SeasonsProcessed = 1
	for _, weekStart := range weeks {
		r.processWeek(ctx, logger, season, weekStart, &result)
	}

	logger.Info("backfill complete", "season", season.ID, "summary", result.Summary())
	return result, nil
}

// processWeek runs the fetch → resolve → append → mark → notify sequence for
// one season+week. Sink failures abort the remaining steps of this week only;
// the next run's dedup pass is the recovery mechanism.
func (r *Runner) processWeek(ctx context.Context, logger *slog.Logger, season league.Season, weekStart time.Time, result *Result) {
	week := league.FormatDate(weekStart)
	logger = logger.With("season", season.ID, "game_type", season.GameType, "week", week)

	schedule, err := r.schedule.MatchupsForWeek(ctx, season.ID, weekStart)
	if err != nil {
		logger.Error("read schedule failed", "error", err)
		result.AddErrorf("season %s week %s: read schedule: %v", season.ID, week, err)
		return
	}
	if len(schedule) == 0 {
		logger.Info("no schedule rows for week, skipping")
		return
	}
	result.WeeksProcessed++

	games := r.fetchWeekGames(ctx, logger, schedule, weekStart, result)
	result.GamesFetched += len(games)

	// Diagnostic side effect only; a failed snapshot never stops the run.
	if r.snapshots != nil {
		if path, err := r.snapshots.Write(season.ID, season.GameType, weekStart, games); err != nil {
			logger.Warn("write snapshot failed", "error", err)
		} else {
			logger.Info("snapshot written", "path", path, "games", len(games))
		}
	}

	index, err := r.results.ExistingIndex(ctx)
	if err != nil {
		logger.Error("read results log failed", "error", err)
		result.AddErrorf("season %s week %s: read results log: %v", season.ID, week, err)
		return
	}

	resolved := league.ResolveWeek(games, schedule, weekStart, season.GameType, index, r.opts.Dedup)
	if len(resolved) == 0 {
		logger.Info("no new games to append")
		r.sendSummary(ctx, logger, season, weekStart, 0)
		return
	}

	if err := r.results.Append(ctx, resolved, r.opts.EnrichDisplayNames); err != nil {
		logger.Error("append results failed", "error", err)
		result.AddErrorf("season %s week %s: append results: %v", season.ID, week, err)
		return
	}
	result.ResultsAppended += len(resolved)
	logger.Info("appended new games", "count", len(resolved))

	marks := make([]league.CompletionMark, 0, len(resolved))
	for _, res := range resolved {
		marks = append(marks, league.CompletionMark{Row: res.Row.Row, Value: league.CompletedMark})
	}
	if err := r.schedule.MarkCompleted(ctx, marks); err != nil {
		// The results are already appended; the dedup index makes the retry
		// safe even though these rows stay unmarked.
		logger.Error("mark schedule rows failed", "error", err)
		result.AddErrorf("season %s week %s: mark completed: %v", season.ID, week, err)
		return
	}
	result.RowsMarked += len(marks)

	if r.opts.NotifyPlayers {
		for _, res := range resolved {
			update := notify.MatchUpdate{
				SeasonID:    season.ID,
				GameType:    season.GameType,
				WeekStart:   weekStart,
				WhiteName:   res.Row.DisplayNameFor(res.Game.White.Username),
				WhiteResult: res.Game.White.Result,
				BlackName:   res.Row.DisplayNameFor(res.Game.Black.Username),
				BlackResult: res.Game.Black.Result,
				URL:         res.Game.URL,
			}
			if err := r.notifier.MatchRecorded(ctx, update); err != nil {
				logger.Warn("match notification failed", "error", err)
			}
		}
	}

	r.sendSummary(ctx, logger, season, weekStart, len(resolved))
}

// fetchWeekGames pulls the month buckets covering the week for every
// distinct scheduled participant and dedupes the union by game identity. A
// participant whose fetch fails contributes nothing and does not block the
// others.
func (r *Runner) fetchWeekGames(ctx context.Context, logger *slog.Logger, schedule []league.ScheduleRow, weekStart time.Time, result *Result) []chesscom.Game {
	usernames := make(map[string]struct{})
	for _, row := range schedule {
		if row.Key() == "" {
			continue
		}
		usernames[league.NormalizeUsername(row.Player1Username)] = struct{}{}
		usernames[league.NormalizeUsername(row.Player2Username)] = struct{}{}
	}

	ordered := make([]string, 0, len(usernames))
	for u := range usernames {
		ordered = append(ordered, u)
	}
	sort.Strings(ordered)

	// The week's own month plus the following one, in case the week spills
	// over the month boundary.
	year, month := weekStart.Year(), int(weekStart.Month())
	buckets := [][2]int{{year, month}}
	if month == 12 {
		buckets = append(buckets, [2]int{year + 1, 1})
	} else {
		buckets = append(buckets, [2]int{year, month + 1})
	}

	seen := make(map[string]struct{})
	var games []chesscom.Game
	for _, username := range ordered {
		for _, b := range buckets {
			monthly, err := r.games.MonthlyGames(ctx, username, b[0], b[1])
			if err != nil {
				logger.Error("fetch games failed", "username", username, "year", b[0], "month", b[1], "error", err)
				result.AddErrorf("fetch games for %s %d/%02d: %v", username, b[0], b[1], err)
				continue
			}
			for _, g := range monthly {
				if g.UUID != "" {
					if _, dup := seen[g.UUID]; dup {
						continue
					}
					seen[g.UUID] = struct{}{}
				}
				games = append(games, g)
			}
		}
	}
	return games
}

// sendSummary posts the operator summary; failures are logged only.
func (r *Runner) sendSummary(ctx context.Context, logger *slog.Logger, season league.Season, weekStart time.Time, appended int) {
	s := notify.Summary{
		SeasonID:   season.ID,
		GameType:   season.GameType,
		WeekStart:  weekStart,
		NewResults: appended,
	}
	if err := r.notifier.RunSummary(ctx, s); err != nil {
		logger.Warn("summary notification failed", "error", err)
	}
}
