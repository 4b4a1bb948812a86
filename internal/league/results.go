package league

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openclassical/league-data/internal/chesscom"
	"github.com/openclassical/league-data/internal/config"
)

// Results log column order. The trailing helper/key columns exist only for
// fast duplicate lookup on later runs; the sheet itself enforces no
// uniqueness.
const (
	colSeasonID = iota
	colGameType
	colWeekStart
	colGameID
	colGameURL
	colEndTime
	colWhiteUsername
	colWhiteRating
	colWhiteResult
	colBlackUsername
	colBlackRating
	colBlackResult
	colTimeClass
	colTimeControl
	colRated
	colPGN
	colWhiteUserHelper
	colBlackUserHelper
	colTierHelper
	colWeekStartHelper
	colScheduleKey1
	colScheduleKey2
	colSeasonNumber
	colTier
	colP1Result
	colP2Result
	colWhiteDisplayName
	colBlackDisplayName

	resultColumns
)

// ResultIndex holds the duplicate-lookup keys of every row already in the
// results log, under both dedup schemes.
type ResultIndex struct {
	keys map[string]struct{}
}

// NewResultIndex creates an empty index.
func NewResultIndex() *ResultIndex {
	return &ResultIndex{keys: make(map[string]struct{})}
}

// AddRow indexes one existing results-log row.
func (ix *ResultIndex) AddRow(raw []string) {
	seasonID := cell(raw, colSeasonID)
	gameType := cell(raw, colGameType)

	if uuid := cell(raw, colGameID); uuid != "" {
		ix.keys[gameIDKey(uuid, seasonID, gameType)] = struct{}{}
	}

	white := cell(raw, colWhiteUsername)
	black := cell(raw, colBlackUsername)
	if week, ok := ParseSheetDate(cell(raw, colWeekStart)); ok && white != "" && black != "" {
		ix.keys[matchupWeekKey(seasonID, gameType, week, white, black)] = struct{}{}
	}
}

// Add records a newly selected result so re-resolving the same input within
// one run stays a no-op.
func (ix *ResultIndex) Add(g chesscom.Game, row ScheduleRow) {
	ix.keys[gameIDKey(g.UUID, row.SeasonID, row.GameType)] = struct{}{}
	ix.keys[matchupWeekKey(row.SeasonID, row.GameType, row.WeekStart, g.White.Username, g.Black.Username)] = struct{}{}
}

// Has reports whether a candidate result is already recorded under the given
// strategy.
func (ix *ResultIndex) Has(g chesscom.Game, row ScheduleRow, strategy DedupStrategy) bool {
	var key string
	switch strategy {
	case DedupGameID:
		key = gameIDKey(g.UUID, row.SeasonID, row.GameType)
	default:
		key = matchupWeekKey(row.SeasonID, row.GameType, row.WeekStart, g.White.Username, g.Black.Username)
	}
	_, ok := ix.keys[key]
	return ok
}

// Len returns the number of indexed keys.
func (ix *ResultIndex) Len() int {
	return len(ix.keys)
}

func gameIDKey(uuid, seasonID, gameType string) string {
	return "game|" + strings.ToLower(strings.TrimSpace(uuid)) + "|" + seasonID + "|" + gameType
}

// matchupWeekKey collapses both username orderings into one key, so a
// duplicate is recognized regardless of which side was white in the new
// fetch.
func matchupWeekKey(seasonID, gameType string, week time.Time, a, b string) string {
	return "matchup|" + strings.ToLower(seasonID) + "|" + strings.ToLower(gameType) + "|" + FormatDate(week) + "|" + MatchupKey(a, b)
}

// ResultRowValues renders one resolved result as the results-log row. When
// enrich is set, the trailing display-name columns are filled from the
// schedule row's name mapping.
func ResultRowValues(r Resolved, enrich bool) []interface{} {
	g, row := r.Game, r.Row
	week := FormatDate(row.WeekStart)
	seasonNumber, _, tier := SeasonParts(row.SeasonID)

	rated := "No"
	if g.Rated {
		rated = "Yes"
	}

	whiteDisplay, blackDisplay := "", ""
	if enrich {
		whiteDisplay = row.DisplayNameFor(g.White.Username)
		blackDisplay = row.DisplayNameFor(g.Black.Username)
	}

	values := make([]interface{}, resultColumns)
	for i := range values {
		values[i] = ""
	}
	values[colSeasonID] = row.SeasonID
	values[colGameType] = row.GameType
	values[colWeekStart] = week
	values[colGameID] = g.UUID
	values[colGameURL] = g.URL
	values[colEndTime] = g.EndedAt().Format(time.RFC3339)
	values[colWhiteUsername] = g.White.Username
	values[colWhiteRating] = g.White.Rating
	values[colWhiteResult] = g.White.Result
	values[colBlackUsername] = g.Black.Username
	values[colBlackRating] = g.Black.Rating
	values[colBlackResult] = g.Black.Result
	values[colTimeClass] = g.TimeClass
	values[colTimeControl] = g.TimeControl
	values[colRated] = rated
	values[colPGN] = g.PGN
	values[colTierHelper] = tier
	values[colWeekStartHelper] = week
	values[colScheduleKey1] = scheduleKey(row.SeasonID, tier, week, g.White.Username, g.Black.Username)
	values[colScheduleKey2] = scheduleKey(row.SeasonID, tier, week, g.Black.Username, g.White.Username)
	values[colSeasonNumber] = seasonNumber
	values[colTier] = tier
	values[colWhiteDisplayName] = whiteDisplay
	values[colBlackDisplayName] = blackDisplay
	return values
}

// scheduleKey is the legacy helper-column key; both orderings are written so
// sheet formulas can look a pairing up from either side.
func scheduleKey(seasonID, tier, week, a, b string) string {
	return strings.Join([]string{seasonID, tier, week, a, b}, "|")
}

// ResultsLog reads and appends the durable results table.
type ResultsLog struct {
	reader   RangeReader
	appender Appender
}

// NewResultsLog creates a log over the given store.
func NewResultsLog(reader RangeReader, appender Appender) *ResultsLog {
	return &ResultsLog{reader: reader, appender: appender}
}

// ExistingIndex reads the full results log and builds the duplicate-lookup
// index for this run.
func (l *ResultsLog) ExistingIndex(ctx context.Context) (*ResultIndex, error) {
	rows, err := l.reader.ReadRange(ctx, config.ResultsRange)
	if err != nil {
		return nil, fmt.Errorf("read results log: %w", err)
	}
	ix := NewResultIndex()
	for _, raw := range rows {
		ix.AddRow(raw)
	}
	return ix, nil
}

// Append writes the resolved results to the end of the log. Append-only: the
// insert mode never overwrites existing rows.
func (l *ResultsLog) Append(ctx context.Context, resolved []Resolved, enrich bool) error {
	if len(resolved) == 0 {
		return nil
	}
	rows := make([][]interface{}, 0, len(resolved))
	for _, r := range resolved {
		rows = append(rows, ResultRowValues(r, enrich))
	}
	if err := l.appender.Append(ctx, config.ResultsAppend, rows); err != nil {
		return fmt.Errorf("append results: %w", err)
	}
	return nil
}
