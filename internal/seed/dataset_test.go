package seed

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDataset(t *testing.T) {
	ds, err := LoadDataset(filepath.Join("testdata", "dataset.yml"))
	require.NoError(t, err)

	require.Len(t, ds.Countries, 2)
	assert.Equal(t, "Atlantis", ds.Countries[0].Name)
	assert.True(t, ds.Countries[0].IsDemocracy)
	assert.Equal(t, int64(5400000), ds.Countries[1].Population)

	require.Len(t, ds.Conflicts, 1)
	assert.Equal(t, "Borduria border crisis", ds.Conflicts[0].Name)
	assert.Equal(t, "escalating", ds.Conflicts[0].Status)
	assert.Equal(t, 1240, ds.Conflicts[0].Casualties)
	assert.InDelta(t, 45.9432, ds.Conflicts[0].Lat, 0.0001)

	require.Len(t, ds.Disasters, 1)
	assert.Equal(t, "earthquake", ds.Disasters[0].Type)
	assert.InDelta(t, 6.4, ds.Disasters[0].Magnitude, 0.0001)
}

func TestLoadDataset_MissingFile(t *testing.T) {
	_, err := LoadDataset(filepath.Join("testdata", "nope.yml"))
	assert.Error(t, err)
}

func TestParseDatasetDate(t *testing.T) {
	d, err := parseDatasetDate("2023-04-12")
	require.NoError(t, err)
	assert.Equal(t, 2023, d.Year())
	assert.Equal(t, 4, int(d.Month()))

	_, err = parseDatasetDate("12/04/2023")
	assert.Error(t, err)

	// empty defaults to now
	d, err = parseDatasetDate("")
	require.NoError(t, err)
	assert.False(t, d.IsZero())
}
