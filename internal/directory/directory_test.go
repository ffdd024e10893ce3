package directory

import (
	"math"
	"testing"

	"truck-route-system/internal/config"
	"truck-route-system/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocks() Table {
	return NewTable(models.LocationKindDestinationDock, []models.Location{
		{ID: 1, DisplayName: "Doca A", Coordinates: models.Coordinates{Latitude: -23.55, Longitude: -46.61}, Active: true},
		{ID: 2, DisplayName: "Doca B", Coordinates: models.Coordinates{Latitude: -23.56, Longitude: -46.62}, Active: false},
		{ID: 3, DisplayName: "Doca C", Coordinates: models.Coordinates{Latitude: -23.57, Longitude: -46.63}, Active: true},
	})
}

func TestActiveEntriesKeepsOrder(t *testing.T) {
	active := ActiveEntries(testDocks())

	require.Len(t, active, 2)
	assert.Equal(t, 1, active[0].ID)
	assert.Equal(t, 3, active[1].ID)
}

func TestFindByID(t *testing.T) {
	docks := testDocks()

	loc, ok := FindByID(docks, 2)
	require.True(t, ok)
	assert.Equal(t, "Doca B", loc.DisplayName)
	assert.Equal(t, models.LocationKindDestinationDock, loc.Table)

	_, ok = FindByID(docks, 42)
	assert.False(t, ok)
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, id)

	_, err = ParseID("doca")
	assert.Error(t, err)
}

func TestNewTableCopiesEntries(t *testing.T) {
	entries := []models.Location{{ID: 1, DisplayName: "Portaria", Active: true}}
	table := NewTable(models.LocationKindEntryGate, entries)

	entries[0].DisplayName = "changed"

	loc, ok := FindByID(table, 1)
	require.True(t, ok)
	assert.Equal(t, "Portaria", loc.DisplayName)
}

func TestNewFromDefaults(t *testing.T) {
	dir := New(config.DefaultLocations())

	assert.Equal(t, 2, dir.EntryGates.Len())
	assert.Equal(t, 3, dir.Docks.Len())
	assert.True(t, Check(dir).OK())
}

func TestCheck(t *testing.T) {
	dir := &Directory{
		EntryGates: NewTable(models.LocationKindEntryGate, []models.Location{
			{ID: 1, DisplayName: "Portaria Principal", Coordinates: models.Coordinates{Latitude: 91, Longitude: 0}, Active: false},
			{ID: 1, DisplayName: "Portaria Dupla", Coordinates: models.Coordinates{Latitude: math.NaN(), Longitude: 0}, Active: false},
		}),
		Docks: NewTable(models.LocationKindDestinationDock, nil),
	}

	report := Check(dir)

	assert.False(t, report.OK())
	assert.Len(t, report.Errors, 4)
	assert.Contains(t, report.Errors, "no destination dock configured")
	assert.Contains(t, report.Errors, "entry gate 2 (Portaria Dupla) has duplicate id 1")
	assert.Equal(t, []string{"no active entry gate"}, report.Warnings)
}
