package league

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclassical/league-data/internal/chesscom"
	"github.com/openclassical/league-data/internal/config"
)

func resolvedFixture() Resolved {
	g := chesscom.Game{
		UUID:        "abc-123",
		URL:         "https://www.chess.com/game/live/1",
		PGN:         "1. e4 e5",
		TimeClass:   "rapid",
		TimeControl: "900+10",
		Rules:       "chess",
		Rated:       true,
		EndTime:     time.Date(2026, 3, 3, 14, 30, 0, 0, time.UTC).Unix(),
		White:       chesscom.Side{Username: "alice99", Rating: 1512, Result: "win"},
		Black:       chesscom.Side{Username: "bob_tm", Rating: 1488, Result: "resigned"},
	}
	row := ScheduleRow{
		Row:             2,
		SeasonID:        "13-standard-A",
		GameType:        "chess",
		Tier:            "A",
		WeekStart:       day(2026, 3, 2),
		Player1:         "Alice",
		Player1Username: "alice99",
		Player2:         "Bob",
		Player2Username: "bob_tm",
	}
	return Resolved{Game: g, Row: row}
}

func TestResultRowValues(t *testing.T) {
	values := ResultRowValues(resolvedFixture(), false)
	require.Len(t, values, resultColumns)

	assert.Equal(t, "13-standard-A", values[colSeasonID])
	assert.Equal(t, "chess", values[colGameType])
	assert.Equal(t, "2026-03-02", values[colWeekStart])
	assert.Equal(t, "abc-123", values[colGameID])
	assert.Equal(t, "2026-03-03T14:30:00Z", values[colEndTime])
	assert.Equal(t, "alice99", values[colWhiteUsername])
	assert.Equal(t, 1512, values[colWhiteRating])
	assert.Equal(t, "win", values[colWhiteResult])
	assert.Equal(t, "bob_tm", values[colBlackUsername])
	assert.Equal(t, "resigned", values[colBlackResult])
	assert.Equal(t, "Yes", values[colRated])

	// Season number and tier are derived from the identifier.
	assert.Equal(t, "13", values[colSeasonNumber])
	assert.Equal(t, "A", values[colTier])

	// Both key orderings, so sheet formulas can match from either side.
	assert.Equal(t, "13-standard-A|A|2026-03-02|alice99|bob_tm", values[colScheduleKey1])
	assert.Equal(t, "13-standard-A|A|2026-03-02|bob_tm|alice99", values[colScheduleKey2])

	// No enrichment requested.
	assert.Equal(t, "", values[colWhiteDisplayName])
	assert.Equal(t, "", values[colBlackDisplayName])
}

func TestResultRowValuesEnriched(t *testing.T) {
	values := ResultRowValues(resolvedFixture(), true)
	assert.Equal(t, "Alice", values[colWhiteDisplayName])
	assert.Equal(t, "Bob", values[colBlackDisplayName])
}

func TestResultIndexAddRowBothSchemes(t *testing.T) {
	r := resolvedFixture()

	// Index the rendered row exactly as it would come back out of the sheet.
	raw := make([]string, resultColumns)
	raw[colSeasonID] = "13-standard-A"
	raw[colGameType] = "chess"
	raw[colWeekStart] = "2026-03-02"
	raw[colGameID] = "ABC-123"
	raw[colWhiteUsername] = "Bob_TM" // swapped colors, different case
	raw[colBlackUsername] = "Alice99"

	ix := NewResultIndex()
	ix.AddRow(raw)

	assert.True(t, ix.Has(r.Game, r.Row, DedupGameID))
	assert.True(t, ix.Has(r.Game, r.Row, DedupMatchupWeek))
}

func TestResultIndexAddRowPartial(t *testing.T) {
	ix := NewResultIndex()

	// Rows too short to carry usernames still index the game id.
	ix.AddRow([]string{"13-standard-A", "chess", "2026-03-02", "abc-123"})
	assert.Equal(t, 1, ix.Len())

	// A row with no id and no parseable week contributes nothing.
	ix.AddRow([]string{"13-standard-A", "chess", "TBD", ""})
	assert.Equal(t, 1, ix.Len())
}

func TestResultIndexAdd(t *testing.T) {
	r := resolvedFixture()

	ix := NewResultIndex()
	assert.False(t, ix.Has(r.Game, r.Row, DedupMatchupWeek))

	ix.Add(r.Game, r.Row)
	assert.True(t, ix.Has(r.Game, r.Row, DedupMatchupWeek))
	assert.True(t, ix.Has(r.Game, r.Row, DedupGameID))
}

func TestResultsLogExistingIndex(t *testing.T) {
	store := newFakeStore()
	row := make([]string, resultColumns)
	row[colSeasonID] = "13-standard-A"
	row[colGameType] = "chess"
	row[colWeekStart] = "2026-03-02"
	row[colGameID] = "abc-123"
	row[colWhiteUsername] = "alice99"
	row[colBlackUsername] = "bob_tm"
	store.ranges[config.ResultsRange] = [][]string{row}

	log := NewResultsLog(store, store)
	ix, err := log.ExistingIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, ix.Len())

	store.readErr = errStore
	_, err = log.ExistingIndex(context.Background())
	assert.ErrorIs(t, err, errStore)
}

func TestResultsLogAppend(t *testing.T) {
	store := newFakeStore()
	log := NewResultsLog(store, store)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, []Resolved{resolvedFixture()}, false))
	rows := store.appended[config.ResultsAppend]
	require.Len(t, rows, 1)
	assert.Equal(t, "abc-123", rows[0][colGameID])

	// Nothing resolved, nothing written.
	require.NoError(t, log.Append(ctx, nil, false))
	assert.Len(t, store.appended[config.ResultsAppend], 1)

	store.appendErr = errStore
	assert.ErrorIs(t, log.Append(ctx, []Resolved{resolvedFixture()}, false), errStore)
}

func TestLichessRowValues(t *testing.T) {
	g := LichessGame{
		ID:        "xY12abCd",
		CreatedAt: time.Date(2026, 3, 3, 14, 0, 0, 0, time.UTC),
		White:     LichessPlayer{Name: "alice", Rating: 1800},
		Black:     LichessPlayer{Name: "bob", Rating: 1750},
		Winner:    "black",
		Status:    "mate",
		Speed:     "rapid",
		ClockInit: 600,
		ClockInc:  5,
		Rated:     true,
		PGN:       "1. d4 d5",
	}

	values := LichessRowValues(g)
	require.Len(t, values, 13)
	assert.Equal(t, "xY12abCd", values[0])
	assert.Equal(t, "https://lichess.org/xY12abCd", values[1])
	assert.Equal(t, "2026-03-03T14:00:00Z", values[2])
	assert.Equal(t, "loss", values[5])
	assert.Equal(t, "win", values[8])
	assert.Equal(t, "600+5", values[10])
	assert.Equal(t, "Yes", values[11])
}

func TestLichessRowValuesDrawAndAnonymous(t *testing.T) {
	g := LichessGame{Status: "draw"}

	values := LichessRowValues(g)
	assert.Equal(t, "", values[1]) // no id, no url
	assert.Equal(t, "Anonymous", values[3])
	assert.Equal(t, "Anonymous", values[6])
	assert.Equal(t, "draw", values[5])
	assert.Equal(t, "draw", values[8])
	assert.Equal(t, "No", values[11])
}
