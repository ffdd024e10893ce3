package services

import (
	"errors"
	"math"
	"testing"
	"time"

	"truck-route-system/internal/directory"
	"truck-route-system/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.UnixMilli(1_767_225_600_000)

func fixedBuilder(dir *directory.Directory) *RouteBuilder {
	return NewRouteBuilder(dir, 24).
		WithClock(func() time.Time { return t0 }).
		WithIDGenerator(func() string { return "r-fixed" })
}

func scenarioForm() models.RouteForm {
	return models.RouteForm{
		TruckPlate:        "ABC1234",
		DriverName:        "João Silva",
		EntryGateID:       1,
		DestinationDockID: 2,
		ExpiryHours:       1,
	}
}

func TestBuildComputesExpiry(t *testing.T) {
	request, err := fixedBuilder(testDirectory()).Build(scenarioForm())
	require.NoError(t, err)

	assert.Equal(t, "r-fixed", request.ID)
	assert.Equal(t, t0.UnixMilli(), request.CreatedAtTimestamp)
	assert.Equal(t, t0.UnixMilli()+3_600_000, request.ExpiryTimestamp)
	assert.Equal(t, 1, request.EntryGateID)
	assert.Equal(t, 2, request.DestinationDockID)
	assert.Equal(t, "ABC1234", request.TruckPlate)
}

func TestBuildGeneratesUniqueIDs(t *testing.T) {
	builder := NewRouteBuilder(testDirectory(), 24)

	first, err := builder.Build(scenarioForm())
	require.NoError(t, err)
	second, err := builder.Build(scenarioForm())
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestBuildRejectsExpiryOutOfRange(t *testing.T) {
	builder := fixedBuilder(testDirectory())

	for _, hours := range []int{0, -1, 25} {
		form := scenarioForm()
		form.ExpiryHours = hours

		_, err := builder.Build(form)
		assert.ErrorIs(t, err, ErrInvalidExpiry, "hours %d", hours)
	}

	form := scenarioForm()
	form.ExpiryHours = 24
	_, err := builder.Build(form)
	assert.NoError(t, err)
}

func TestBuildRejectsUnknownLocations(t *testing.T) {
	builder := fixedBuilder(testDirectory())

	form := scenarioForm()
	form.EntryGateID = 9
	_, err := builder.Build(form)

	var unknown *UnknownLocationError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, models.LocationKindEntryGate, unknown.Kind)
	assert.Equal(t, 9, unknown.ID)

	form = scenarioForm()
	form.DestinationDockID = 7
	_, err = builder.Build(form)

	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, models.LocationKindDestinationDock, unknown.Kind)
	assert.Equal(t, 7, unknown.ID)
}

func TestBuildRejectsInvalidCoordinates(t *testing.T) {
	base := testDirectory()
	dir := &directory.Directory{
		EntryGates: base.EntryGates,
		Docks: directory.NewTable(models.LocationKindDestinationDock, []models.Location{
			{ID: 2, DisplayName: "Doca Fantasma", Coordinates: models.Coordinates{Latitude: math.NaN(), Longitude: 0}, Active: true},
		}),
	}

	_, err := fixedBuilder(dir).Build(scenarioForm())

	var invalid *InvalidCoordinatesError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, models.LocationKindDestinationDock, invalid.Kind)
	assert.Equal(t, "Doca Fantasma", invalid.Name)
}
