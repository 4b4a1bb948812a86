package league

import (
	"context"
	"fmt"
	"strings"

	"github.com/openclassical/league-data/internal/config"
)

// Season is one row of the season catalog. Never mutated by this system.
type Season struct {
	Row      int // 1-based sheet row
	ID       string
	GameType string
	Tier     string
	Active   bool
}

// SeasonParts splits a season identifier of the form
// "<number>-<variant>-<tier>" (e.g. "13-standard-A"). Missing parts come
// back empty.
func SeasonParts(id string) (number, variant, tier string) {
	parts := strings.Split(id, "-")
	if len(parts) > 0 {
		number = parts[0]
	}
	if len(parts) > 1 {
		variant = parts[1]
	}
	if len(parts) > 2 {
		tier = parts[2]
	}
	return number, variant, tier
}

// SeasonDirectory reads the season catalog. The catalog's first row is a
// header row; columns are located by header name so the sheet can grow
// columns without breaking the reader.
type SeasonDirectory struct {
	src RangeReader
}

// NewSeasonDirectory creates a directory over the given store.
func NewSeasonDirectory(src RangeReader) *SeasonDirectory {
	return &SeasonDirectory{src: src}
}

// All returns every season in the catalog, in source order.
func (d *SeasonDirectory) All(ctx context.Context) ([]Season, error) {
	rows, err := d.src.ReadRange(ctx, config.SeasonsRange)
	if err != nil {
		return nil, fmt.Errorf("read season catalog: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	col := headerIndex(rows[0])
	seasons := make([]Season, 0, len(rows)-1)
	for i, row := range rows[1:] {
		id := cell(row, col.of("SeasonID"))
		if id == "" {
			continue
		}
		_, _, tierFromID := SeasonParts(id)
		tier := cell(row, col.of("Tier"))
		if tier == "" {
			tier = tierFromID
		}
		seasons = append(seasons, Season{
			Row:      i + 2, // +2: header row plus 1-based offset
			ID:       id,
			GameType: cell(row, col.of("GameType")),
			Tier:     tier,
			Active:   isActiveFlag(cell(row, col.of("Active?"))),
		})
	}
	return seasons, nil
}

// Active returns the seasons whose active flag is set, in source order.
func (d *SeasonDirectory) Active(ctx context.Context) ([]Season, error) {
	seasons, err := d.All(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]Season, 0, len(seasons))
	for _, s := range seasons {
		if s.Active {
			active = append(active, s)
		}
	}
	return active, nil
}

// Find looks up one season by identifier, active or not. Backfill targets
// seasons that have usually been deactivated already.
func (d *SeasonDirectory) Find(ctx context.Context, seasonID string) (Season, error) {
	seasons, err := d.All(ctx)
	if err != nil {
		return Season{}, err
	}
	for _, s := range seasons {
		if s.ID == seasonID {
			return s, nil
		}
	}
	return Season{}, fmt.Errorf("season %q not found in catalog", seasonID)
}

// isActiveFlag accepts the two spellings operators actually type.
func isActiveFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true":
		return true
	}
	return false
}

// columnIndex maps header names to column positions. Unknown headers resolve
// to -1; cell() treats that as an empty column.
type columnIndex map[string]int

func headerIndex(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func (idx columnIndex) of(name string) int {
	if i, ok := idx[name]; ok {
		return i
	}
	return -1
}

// cell returns row[i] or "" when the row is ragged or the column unknown.
// Sheets omits trailing empty cells, so short rows are routine.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
