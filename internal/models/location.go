package models

// LocationKind определяет, к какой справочной таблице относится точка
type LocationKind string

const (
	LocationKindEntryGate       LocationKind = "entry_gate"
	LocationKindDestinationDock LocationKind = "destination_dock"
)

// Coordinates представляет географические координаты точки
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location представляет проходную или доку площадки.
// Справочные данные: загружаются при старте и не меняются во время работы.
type Location struct {
	ID          int          `json:"id"`
	DisplayName string       `json:"displayName"`
	Description string       `json:"description,omitempty"`
	Sector      string       `json:"sector,omitempty"`
	Kind        string       `json:"kind,omitempty"`
	Hours       string       `json:"hours,omitempty"`
	Coordinates Coordinates  `json:"coordinates"`
	Active      bool         `json:"active"`
	Table       LocationKind `json:"table"`
}

// Label возвращает подпись для списков выбора
func (l Location) Label() string {
	switch {
	case l.Description != "":
		return l.DisplayName + " - " + l.Description
	case l.Sector != "" && l.Kind != "":
		return l.DisplayName + " - " + l.Sector + " (" + l.Kind + ")"
	default:
		return l.DisplayName
	}
}
