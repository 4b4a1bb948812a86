package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/openclassical/league-data/internal/chesscom"
	"github.com/openclassical/league-data/internal/league"
)

// SnapshotWriter dumps the raw fetched-game set for a season+week to disk.
// Snapshots are debugging artifacts, not authoritative state; the file name
// is deterministic so a re-run overwrites the previous capture.
type SnapshotWriter struct {
	dir string
}

// NewSnapshotWriter creates a writer rooted at dir.
func NewSnapshotWriter(dir string) *SnapshotWriter {
	return &SnapshotWriter{dir: dir}
}

// Write stores the games as indented JSON and returns the file path.
func (w *SnapshotWriter) Write(seasonID, gameType string, weekStart time.Time, games []chesscom.Game) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("games_%s_%s_%s.json", seasonID, gameType, league.FormatDate(weekStart))
	path := filepath.Join(w.dir, name)

	if games == nil {
		games = []chesscom.Game{}
	}
	data, err := json.MarshalIndent(games, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return path, nil
}
