package league

import (
	"context"
	"errors"

	"github.com/openclassical/league-data/internal/sheets"
)

// fakeStore implements RangeReader, Appender, and BatchUpdater in memory.
type fakeStore struct {
	ranges   map[string][][]string
	appended map[string][][]interface{}
	updates  []sheets.ValueUpdate

	readErr   error
	appendErr error
	updateErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		ranges:   make(map[string][][]string),
		appended: make(map[string][][]interface{}),
	}
}

func (f *fakeStore) ReadRange(_ context.Context, rng string) ([][]string, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.ranges[rng], nil
}

func (f *fakeStore) Append(_ context.Context, rng string, rows [][]interface{}) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended[rng] = append(f.appended[rng], rows...)
	return nil
}

func (f *fakeStore) BatchUpdate(_ context.Context, updates []sheets.ValueUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, updates...)
	return nil
}

var errStore = errors.New("store unavailable")
