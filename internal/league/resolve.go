package league

import (
	"time"

	"github.com/openclassical/league-data/internal/chesscom"
)

// Resolved pairs an authoritative game with the schedule row it settles.
type Resolved struct {
	Game chesscom.Game
	Row  ScheduleRow
}

// DedupStrategy selects how a candidate result is checked against the
// existing results log.
//
// DedupMatchupWeek keys on (season, game type, week, matchup) and therefore
// also catches a re-fetch of the same logical pairing resolved to a
// different physical game, e.g. after the players replayed. DedupGameID is
// the weaker uniqueness-by-uuid check kept for logs populated under the old
// scheme.
type DedupStrategy int

const (
	DedupMatchupWeek DedupStrategy = iota
	DedupGameID
)

// ParseDedupStrategy maps the configured strategy name. Unknown values fall
// back to the matchup-week scheme.
func ParseDedupStrategy(s string) DedupStrategy {
	if s == "game-id" {
		return DedupGameID
	}
	return DedupMatchupWeek
}

// ResolveWeek decides, for one season+week, which fetched game (if any)
// settles each scheduled pairing, and which of those are newly reportable.
//
// Selection policy per pairing:
//   - games whose ruleset does not match the season's game type are ignored;
//   - games involving anyone outside this week's schedule are ignored;
//   - rows flagged early accept only games ending strictly before the week
//     start and keep the latest such game;
//   - all other rows accept only games ending on or after the week start and
//     keep the earliest such game.
//
// Ties in end time fall to whichever game was encountered first; input order
// is not part of the contract. A pairing with no eligible game produces
// nothing and stays unmarked, to be retried on the next run.
//
// A selected game is newly reportable only if the schedule row is not yet
// marked completed AND the results index has no entry for it under the given
// strategy. Selected games are added to the index so a second pass over the
// same input is a no-op.
func ResolveWeek(games []chesscom.Game, schedule []ScheduleRow, weekStart time.Time, gameType string, index *ResultIndex, strategy DedupStrategy) []Resolved {
	weekStart = DayOf(weekStart)

	// This week's participant and matchup universe.
	scheduled := make(map[string]ScheduleRow) // matchup key -> row
	participants := make(map[string]struct{})
	for _, row := range schedule {
		key := row.Key()
		if key == "" {
			continue
		}
		if _, dup := scheduled[key]; !dup {
			scheduled[key] = row
		}
		participants[NormalizeUsername(row.Player1Username)] = struct{}{}
		participants[NormalizeUsername(row.Player2Username)] = struct{}{}
	}

	selected := make(map[string]chesscom.Game) // matchup key -> authoritative game
	for _, g := range games {
		ended := g.EndedAt()
		if ended.IsZero() {
			continue
		}
		if g.Rules != gameType {
			continue
		}

		white := NormalizeUsername(g.White.Username)
		black := NormalizeUsername(g.Black.Username)
		if white == "" || black == "" {
			continue
		}
		if _, ok := participants[white]; !ok {
			continue
		}
		if _, ok := participants[black]; !ok {
			continue
		}

		key := MatchupKey(white, black)
		row, ok := scheduled[key]
		if !ok {
			continue
		}

		current, have := selected[key]
		if row.Early {
			// Latest game strictly before the week start.
			if !ended.Before(weekStart) {
				continue
			}
			if !have || ended.After(current.EndedAt()) {
				selected[key] = g
			}
		} else {
			// Earliest game on or after the week start.
			if ended.Before(weekStart) {
				continue
			}
			if !have || ended.Before(current.EndedAt()) {
				selected[key] = g
			}
		}
	}

	// Keep schedule order in the output so appends and markers are stable.
	var out []Resolved
	for _, row := range schedule {
		g, ok := selected[row.Key()]
		if !ok {
			continue
		}
		if row.Completed {
			continue
		}
		if index != nil && index.Has(g, row, strategy) {
			continue
		}
		if index != nil {
			index.Add(g, row)
		}
		out = append(out, Resolved{Game: g, Row: row})
	}
	return out
}
