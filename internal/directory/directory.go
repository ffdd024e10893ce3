// Package directory хранит справочники проходных и док площадки.
package directory

import (
	"fmt"
	"strconv"
	"strings"

	"truck-route-system/internal/config"
	"truck-route-system/internal/models"
)

// Table неизменяемая упорядоченная таблица точек одного вида
type Table struct {
	entries []models.Location
}

// NewTable создает таблицу из копии переданных записей
func NewTable(kind models.LocationKind, entries []models.Location) Table {
	copied := make([]models.Location, len(entries))
	copy(copied, entries)
	for i := range copied {
		copied[i].Table = kind
	}
	return Table{entries: copied}
}

// Len возвращает количество записей
func (t Table) Len() int {
	return len(t.entries)
}

// Directory представляет справочники, передаваемые в сборщик и валидатор
type Directory struct {
	EntryGates Table
	Docks      Table
}

// New создает справочники из загруженной конфигурации
func New(locations *config.Locations) *Directory {
	return &Directory{
		EntryGates: NewTable(models.LocationKindEntryGate, locations.EntryGates),
		Docks:      NewTable(models.LocationKindDestinationDock, locations.DestinationDocks),
	}
}

// ActiveEntries возвращает активные записи с сохранением порядка таблицы
func ActiveEntries(table Table) []models.Location {
	active := make([]models.Location, 0, len(table.entries))
	for _, loc := range table.entries {
		if loc.Active {
			active = append(active, loc)
		}
	}
	return active
}

// FindByID ищет запись по точному совпадению id
func FindByID(table Table, id int) (models.Location, bool) {
	for _, loc := range table.entries {
		if loc.ID == id {
			return loc, true
		}
	}
	return models.Location{}, false
}

// ParseID приводит строковый id из формы или URL к целому числу
func ParseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid location id %q: %w", s, err)
	}
	return id, nil
}
