package league

import (
	"context"

	"github.com/openclassical/league-data/internal/sheets"
)

// The repositories in this package only need narrow slices of the sheets
// client; *sheets.Client satisfies all three.

// RangeReader reads a rectangular range of cells as strings.
type RangeReader interface {
	ReadRange(ctx context.Context, rng string) ([][]string, error)
}

// Appender appends rows after the last data row of a range.
type Appender interface {
	Append(ctx context.Context, rng string, rows [][]interface{}) error
}

// BatchUpdater patches individual cells in one request.
type BatchUpdater interface {
	BatchUpdate(ctx context.Context, updates []sheets.ValueUpdate) error
}
