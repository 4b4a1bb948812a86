package league

import (
	"fmt"
	"time"
)

// LichessGame is the row shape for games exported from Lichess. The main
// pipeline only reconciles chess.com results; this shape exists for manual
// imports into a separate tab.
type LichessGame struct {
	ID        string
	CreatedAt time.Time
	White     LichessPlayer
	Black     LichessPlayer
	Winner    string // "white", "black", or "" on a draw
	Status    string
	Speed     string
	ClockInit int // initial seconds
	ClockInc  int // increment seconds
	Rated     bool
	PGN       string
}

// LichessPlayer is one side of a Lichess game.
type LichessPlayer struct {
	Name   string
	Rating int
}

// LichessRowValues renders a Lichess game in the import-tab column order.
func LichessRowValues(g LichessGame) []interface{} {
	result := func(color string) string {
		if g.Status == "draw" {
			return "draw"
		}
		if g.Winner == color {
			return "win"
		}
		return "loss"
	}

	white, black := g.White.Name, g.Black.Name
	if white == "" {
		white = "Anonymous"
	}
	if black == "" {
		black = "Anonymous"
	}

	url := ""
	if g.ID != "" {
		url = "https://lichess.org/" + g.ID
	}

	rated := "No"
	if g.Rated {
		rated = "Yes"
	}

	return []interface{}{
		g.ID,
		url,
		g.CreatedAt.UTC().Format(time.RFC3339),
		white,
		g.White.Rating,
		result("white"),
		black,
		g.Black.Rating,
		result("black"),
		g.Speed,
		fmt.Sprintf("%d+%d", g.ClockInit, g.ClockInc),
		rated,
		g.PGN,
	}
}
