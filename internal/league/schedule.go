package league

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/openclassical/league-data/internal/config"
	"github.com/openclassical/league-data/internal/sheets"
)

// CompletedMark is the checkmark written to a schedule row once its result
// has been recorded.
const CompletedMark = "✓"

// ScheduleRow is one scheduled pairing. Column order in the Schedule tab is
// fixed: SeasonID, GameType, Tier, WeekStart, Player1, Player1Username,
// Player2, Player2Username, EarlyFlag, ResultsFlag, Notes.
type ScheduleRow struct {
	Row int // 1-based sheet row, used to address the completion-marker cell

	SeasonID string
	GameType string
	Tier     string

	WeekStartRaw string
	WeekStart    time.Time // zero when WeekStartRaw did not parse

	Player1         string // display name
	Player1Username string
	Player2         string // display name
	Player2Username string

	Early     bool // result expected before the week start, not during the week
	Completed bool
	Notes     string
}

// HasWeekStart reports whether the row carries a parseable week-start date.
func (r ScheduleRow) HasWeekStart() bool {
	return !r.WeekStart.IsZero()
}

// Key returns the row's matchup key, or "" when either username is missing.
func (r ScheduleRow) Key() string {
	if strings.TrimSpace(r.Player1Username) == "" || strings.TrimSpace(r.Player2Username) == "" {
		return ""
	}
	return MatchupKey(r.Player1Username, r.Player2Username)
}

// DisplayNameFor returns the display name mapped to a username on this row,
// falling back to the username itself when no mapping exists.
func (r ScheduleRow) DisplayNameFor(username string) string {
	u := NormalizeUsername(username)
	if u == NormalizeUsername(r.Player1Username) && r.Player1 != "" {
		return r.Player1
	}
	if u == NormalizeUsername(r.Player2Username) && r.Player2 != "" {
		return r.Player2
	}
	return username
}

// CompletionMark addresses one schedule row's marker cell.
type CompletionMark struct {
	Row   int
	Value string
}

// ScheduleRepo reads the weekly pairing table and writes completion markers.
type ScheduleRepo struct {
	src    RangeReader
	marker BatchUpdater
}

// NewScheduleRepo creates a repository over the given store.
func NewScheduleRepo(src RangeReader, marker BatchUpdater) *ScheduleRepo {
	return &ScheduleRepo{src: src, marker: marker}
}

// ForSeason returns every schedule row belonging to one season, in sheet
// order.
func (s *ScheduleRepo) ForSeason(ctx context.Context, seasonID string) ([]ScheduleRow, error) {
	rows, err := s.src.ReadRange(ctx, config.ScheduleRange)
	if err != nil {
		return nil, fmt.Errorf("read schedule: %w", err)
	}

	var out []ScheduleRow
	for i, raw := range rows {
		r := mapScheduleRow(raw, i+2) // range starts at sheet row 2
		if r.SeasonID != seasonID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// MatchupsForWeek returns the season's rows whose week start falls on the
// given day. Rows with unparseable week starts never match.
func (s *ScheduleRepo) MatchupsForWeek(ctx context.Context, seasonID string, weekStart time.Time) ([]ScheduleRow, error) {
	schedule, err := s.ForSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	var out []ScheduleRow
	for _, r := range schedule {
		if r.HasWeekStart() && SameDay(r.WeekStart, weekStart) {
			out = append(out, r)
		}
	}
	return out, nil
}

// MatchupsForPlayer returns the season's rows a player appears in, on either
// side.
func (s *ScheduleRepo) MatchupsForPlayer(ctx context.Context, seasonID, username string) ([]ScheduleRow, error) {
	schedule, err := s.ForSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	u := NormalizeUsername(username)
	var out []ScheduleRow
	for _, r := range schedule {
		if NormalizeUsername(r.Player1Username) == u || NormalizeUsername(r.Player2Username) == u {
			out = append(out, r)
		}
	}
	return out, nil
}

// CompletedMatches returns the season's rows already carrying a completion
// marker.
func (s *ScheduleRepo) CompletedMatches(ctx context.Context, seasonID string) ([]ScheduleRow, error) {
	schedule, err := s.ForSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	var out []ScheduleRow
	for _, r := range schedule {
		if r.Completed {
			out = append(out, r)
		}
	}
	return out, nil
}

// CurrentWeekStart resolves the week a run should target: the latest week
// start on or before the reference instant. ok=false when every scheduled
// week is still in the future (or no row has a parseable date).
func (s *ScheduleRepo) CurrentWeekStart(ctx context.Context, seasonID string, ref time.Time) (time.Time, bool, error) {
	schedule, err := s.ForSeason(ctx, seasonID)
	if err != nil {
		return time.Time{}, false, err
	}

	var current time.Time
	found := false
	for _, r := range schedule {
		if !r.HasWeekStart() || r.WeekStart.After(ref) {
			continue
		}
		if !found || r.WeekStart.After(current) {
			current = r.WeekStart
			found = true
		}
	}
	return current, found, nil
}

// AllWeekStarts returns the season's distinct week-start dates sorted
// ascending. Rows with unparseable dates are dropped.
func (s *ScheduleRepo) AllWeekStarts(ctx context.Context, seasonID string) ([]time.Time, error) {
	schedule, err := s.ForSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	seen := make(map[time.Time]struct{})
	var weeks []time.Time
	for _, r := range schedule {
		if !r.HasWeekStart() {
			continue
		}
		if _, ok := seen[r.WeekStart]; ok {
			continue
		}
		seen[r.WeekStart] = struct{}{}
		weeks = append(weeks, r.WeekStart)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })
	return weeks, nil
}

// FindMatchupOnOrBefore returns the earliest scheduled pairing of two players
// (matched by display name, either ordering) within a season and tier whose
// week start is on or before the given date. Returns ok=false when none
// qualifies.
func (s *ScheduleRepo) FindMatchupOnOrBefore(ctx context.Context, seasonID, tier, player1, player2 string, date time.Time) (ScheduleRow, bool, error) {
	schedule, err := s.ForSeason(ctx, seasonID)
	if err != nil {
		return ScheduleRow{}, false, err
	}

	p1, p2 := strings.TrimSpace(player1), strings.TrimSpace(player2)
	var best ScheduleRow
	found := false
	for _, r := range schedule {
		if r.Tier != tier || !r.HasWeekStart() || r.WeekStart.After(date) {
			continue
		}
		a, b := strings.TrimSpace(r.Player1), strings.TrimSpace(r.Player2)
		if !((a == p1 && b == p2) || (a == p2 && b == p1)) {
			continue
		}
		if !found || r.WeekStart.Before(best.WeekStart) {
			best = r
			found = true
		}
	}
	return best, found, nil
}

// MarkCompleted patches the completion-marker cell of each given row in a
// single batch request.
func (s *ScheduleRepo) MarkCompleted(ctx context.Context, marks []CompletionMark) error {
	if len(marks) == 0 {
		return nil
	}

	updates := make([]sheets.ValueUpdate, 0, len(marks))
	for _, m := range marks {
		updates = append(updates, sheets.ValueUpdate{
			Range:  fmt.Sprintf("Schedule!%s%d", config.CheckmarkColumn, m.Row),
			Values: [][]interface{}{{m.Value}},
		})
	}
	if err := s.marker.BatchUpdate(ctx, updates); err != nil {
		return fmt.Errorf("mark %d schedule rows completed: %w", len(marks), err)
	}
	return nil
}

// mapScheduleRow maps a raw sheet row to a ScheduleRow. rowNum is the
// 1-based sheet row the raw values came from.
func mapScheduleRow(raw []string, rowNum int) ScheduleRow {
	r := ScheduleRow{
		Row:             rowNum,
		SeasonID:        cell(raw, 0),
		GameType:        cell(raw, 1),
		Tier:            cell(raw, 2),
		WeekStartRaw:    cell(raw, 3),
		Player1:         cell(raw, 4),
		Player1Username: cell(raw, 5),
		Player2:         cell(raw, 6),
		Player2Username: cell(raw, 7),
		Early:           isEarlyFlag(cell(raw, 8)),
		Completed:       cell(raw, 9) != "",
		Notes:           cell(raw, 10),
	}
	if ws, ok := ParseSheetDate(r.WeekStartRaw); ok {
		r.WeekStart = ws
	}
	return r
}

// isEarlyFlag accepts the flag spellings operators use in the sheet.
func isEarlyFlag(v string) bool {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "Y", "YES", "TRUE":
		return true
	}
	return false
}
