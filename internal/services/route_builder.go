package services

import (
	"errors"
	"fmt"
	"time"

	"truck-route-system/internal/directory"
	"truck-route-system/internal/geo"
	"truck-route-system/internal/models"

	"github.com/google/uuid"
)

// ErrInvalidExpiry срок действия вне допустимого диапазона
var ErrInvalidExpiry = errors.New("expiry hours out of range")

// UnknownLocationError выбранная точка отсутствует в справочнике
type UnknownLocationError struct {
	Kind models.LocationKind
	ID   int
}

func (e *UnknownLocationError) Error() string {
	return fmt.Sprintf("unknown %s %d", e.Kind, e.ID)
}

// InvalidCoordinatesError у выбранной точки некорректные координаты
type InvalidCoordinatesError struct {
	Kind models.LocationKind
	Name string
}

func (e *InvalidCoordinatesError) Error() string {
	return fmt.Sprintf("%s %q has invalid coordinates", e.Kind, e.Name)
}

// RouteBuilder собирает запись маршрута из формы проходной
type RouteBuilder struct {
	dir            *directory.Directory
	maxExpiryHours int
	now            func() time.Time
	newID          func() string
}

// NewRouteBuilder создает сборщик с системными часами и uuid в качестве id
func NewRouteBuilder(dir *directory.Directory, maxExpiryHours int) *RouteBuilder {
	return &RouteBuilder{
		dir:            dir,
		maxExpiryHours: maxExpiryHours,
		now:            time.Now,
		newID:          func() string { return uuid.New().String() },
	}
}

// WithClock подменяет часы сборщика
func (b *RouteBuilder) WithClock(now func() time.Time) *RouteBuilder {
	copied := *b
	copied.now = now
	return &copied
}

// WithIDGenerator подменяет генератор id
func (b *RouteBuilder) WithIDGenerator(newID func() string) *RouteBuilder {
	copied := *b
	copied.newID = newID
	return &copied
}

// Build проверяет выбор точек и срок действия и собирает запись.
// Запись не кодируется: это отдельный шаг вызывающей стороны.
func (b *RouteBuilder) Build(form models.RouteForm) (models.RouteRequest, error) {
	if form.ExpiryHours < 1 || form.ExpiryHours > b.maxExpiryHours {
		return models.RouteRequest{}, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidExpiry, form.ExpiryHours, b.maxExpiryHours)
	}

	gate, ok := directory.FindByID(b.dir.EntryGates, form.EntryGateID)
	if !ok {
		return models.RouteRequest{}, &UnknownLocationError{Kind: models.LocationKindEntryGate, ID: form.EntryGateID}
	}

	dock, ok := directory.FindByID(b.dir.Docks, form.DestinationDockID)
	if !ok {
		return models.RouteRequest{}, &UnknownLocationError{Kind: models.LocationKindDestinationDock, ID: form.DestinationDockID}
	}

	if !geo.IsValid(gate.Coordinates) {
		return models.RouteRequest{}, &InvalidCoordinatesError{Kind: models.LocationKindEntryGate, Name: gate.DisplayName}
	}
	if !geo.IsValid(dock.Coordinates) {
		return models.RouteRequest{}, &InvalidCoordinatesError{Kind: models.LocationKindDestinationDock, Name: dock.DisplayName}
	}

	createdAt := b.now().UnixMilli()

	return models.RouteRequest{
		ID:                 b.newID(),
		TruckPlate:         form.TruckPlate,
		TruckModel:         form.TruckModel,
		CompanyName:        form.CompanyName,
		DriverName:         form.DriverName,
		DriverDocument:     form.DriverDocument,
		EntryGateID:        gate.ID,
		DestinationDockID:  dock.ID,
		ExpiryHours:        form.ExpiryHours,
		ExpiryTimestamp:    createdAt + int64(form.ExpiryHours)*models.MillisPerHour,
		CreatedAtTimestamp: createdAt,
	}, nil
}
