package chesscom

import "time"

// Side is one player's view of a finished game.
type Side struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Result   string `json:"result"` // win, checkmated, agreed, timeout, ...
}

// Game is one finished game from a player's monthly archive. Immutable once
// published; the UUID is the game's identity across every archive it appears
// in (both players' buckets return the same physical game).
type Game struct {
	UUID        string `json:"uuid"`
	URL         string `json:"url"`
	PGN         string `json:"pgn"`
	TimeClass   string `json:"time_class"` // blitz/rapid/bullet/daily
	TimeControl string `json:"time_control"`
	Rules       string `json:"rules"` // chess, chess960, ...
	Rated       bool   `json:"rated"`
	EndTime     int64  `json:"end_time"` // unix seconds
	White       Side   `json:"white"`
	Black       Side   `json:"black"`
}

// EndedAt returns the game's end time, or the zero time if the archive did
// not carry one.
func (g Game) EndedAt() time.Time {
	if g.EndTime <= 0 {
		return time.Time{}
	}
	return time.Unix(g.EndTime, 0).UTC()
}
