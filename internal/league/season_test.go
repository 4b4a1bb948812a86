package league

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclassical/league-data/internal/config"
)

func TestSeasonParts(t *testing.T) {
	tests := []struct {
		id                    string
		number, variant, tier string
	}{
		{id: "13-standard-A", number: "13", variant: "standard", tier: "A"},
		{id: "14-fischer-B", number: "14", variant: "fischer", tier: "B"},
		{id: "13-standard", number: "13", variant: "standard", tier: ""},
		{id: "", number: "", variant: "", tier: ""},
	}
	for _, tc := range tests {
		number, variant, tier := SeasonParts(tc.id)
		assert.Equal(t, tc.number, number, "id %q", tc.id)
		assert.Equal(t, tc.variant, variant, "id %q", tc.id)
		assert.Equal(t, tc.tier, tier, "id %q", tc.id)
	}
}

func TestSeasonDirectoryActive(t *testing.T) {
	store := newFakeStore()
	store.ranges[config.SeasonsRange] = [][]string{
		{"SeasonID", "GameType", "Active?", "Notes"},
		{"13-standard-A", "chess", "Yes", "running"},
		{"13-fischer-A", "chess960", "TRUE"},
		{"12-standard-A", "chess", "no"},
		{"11-standard-A", "chess", ""},
		{"", "chess", "yes"}, // no identifier, dropped
	}

	directory := NewSeasonDirectory(store)
	active, err := directory.Active(context.Background())
	require.NoError(t, err)

	require.Len(t, active, 2)
	assert.Equal(t, "13-standard-A", active[0].ID)
	assert.Equal(t, "chess", active[0].GameType)
	assert.Equal(t, "A", active[0].Tier) // derived from the identifier
	assert.Equal(t, 2, active[0].Row)
	assert.Equal(t, "13-fischer-A", active[1].ID)
	assert.Equal(t, "chess960", active[1].GameType)
}

func TestSeasonDirectoryHeaderDrivenColumns(t *testing.T) {
	// Columns in a different order than the default layout.
	store := newFakeStore()
	store.ranges[config.SeasonsRange] = [][]string{
		{"Active?", "SeasonID", "Tier", "GameType"},
		{"yes", "13-standard-A", "B", "chess"},
	}

	directory := NewSeasonDirectory(store)
	active, err := directory.Active(context.Background())
	require.NoError(t, err)

	require.Len(t, active, 1)
	assert.Equal(t, "13-standard-A", active[0].ID)
	assert.Equal(t, "chess", active[0].GameType)
	assert.Equal(t, "B", active[0].Tier) // explicit column wins over the identifier
}

func TestSeasonDirectoryFind(t *testing.T) {
	store := newFakeStore()
	store.ranges[config.SeasonsRange] = [][]string{
		{"SeasonID", "GameType", "Active?"},
		{"12-standard-A", "chess", "no"}, // inactive seasons are still findable
		{"13-standard-A", "chess", "yes"},
	}

	directory := NewSeasonDirectory(store)

	season, err := directory.Find(context.Background(), "12-standard-A")
	require.NoError(t, err)
	assert.Equal(t, "12-standard-A", season.ID)
	assert.False(t, season.Active)

	_, err = directory.Find(context.Background(), "99-standard-Z")
	assert.Error(t, err)
}

func TestSeasonDirectoryEmptyCatalog(t *testing.T) {
	store := newFakeStore()

	directory := NewSeasonDirectory(store)
	active, err := directory.Active(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestSeasonDirectoryReadError(t *testing.T) {
	store := newFakeStore()
	store.readErr = errStore

	directory := NewSeasonDirectory(store)
	_, err := directory.Active(context.Background())
	assert.ErrorIs(t, err, errStore)
}
