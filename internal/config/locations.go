package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"truck-route-system/internal/models"
)

// Locations представляет справочники проходных и док
type Locations struct {
	EntryGates       []models.Location
	DestinationDocks []models.Location
}

// locationEntry представляет запись справочника в файле.
// Поле active необязательно: отсутствие означает активную точку.
type locationEntry struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Sector      string `json:"sector"`
	Type        string `json:"type"`
	Hours       string `json:"hours"`
	Coordinates *struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"coordinates"`
	Active *bool `json:"active"`
}

type locationsFile struct {
	EntryGates       []locationEntry `json:"entryGates"`
	DestinationDocks []locationEntry `json:"destinationDocks"`
}

// LoadLocations загружает справочники из JSON файла.
// Пустой путь означает встроенные значения по умолчанию.
func LoadLocations(path string) (*Locations, error) {
	if path == "" {
		return DefaultLocations(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locations file %s: %w", path, err)
	}

	return ParseLocations(data)
}

// ParseLocations разбирает справочники из JSON
func ParseLocations(data []byte) (*Locations, error) {
	var file locationsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse locations: %w", err)
	}

	return &Locations{
		EntryGates:       convertEntries(file.EntryGates, models.LocationKindEntryGate),
		DestinationDocks: convertEntries(file.DestinationDocks, models.LocationKindDestinationDock),
	}, nil
}

func convertEntries(entries []locationEntry, kind models.LocationKind) []models.Location {
	out := make([]models.Location, 0, len(entries))
	for _, e := range entries {
		loc := models.Location{
			ID:          e.ID,
			DisplayName: e.Name,
			Description: e.Description,
			Sector:      e.Sector,
			Kind:        e.Type,
			Hours:       e.Hours,
			Active:      e.Active == nil || *e.Active,
			Table:       kind,
		}

		// Координаты без значения превращаются в NaN, чтобы проверка их отвергла
		loc.Coordinates = models.Coordinates{Latitude: math.NaN(), Longitude: math.NaN()}
		if e.Coordinates != nil {
			if e.Coordinates.Latitude != nil {
				loc.Coordinates.Latitude = *e.Coordinates.Latitude
			}
			if e.Coordinates.Longitude != nil {
				loc.Coordinates.Longitude = *e.Coordinates.Longitude
			}
		}

		out = append(out, loc)
	}
	return out
}

// DefaultLocations возвращает справочники площадки по умолчанию
func DefaultLocations() *Locations {
	return &Locations{
		EntryGates: []models.Location{
			{
				ID:          1,
				DisplayName: "Portaria Principal",
				Description: "Entrada principal - Recepção de caminhões",
				Hours:       "24h",
				Coordinates: models.Coordinates{Latitude: -23.550520, Longitude: -46.633308},
				Active:      true,
				Table:       models.LocationKindEntryGate,
			},
			{
				ID:          2,
				DisplayName: "Portaria Secundária",
				Description: "Entrada lateral - Veículos pequenos",
				Hours:       "06:00-18:00",
				Coordinates: models.Coordinates{Latitude: -23.550720, Longitude: -46.633508},
				Active:      true,
				Table:       models.LocationKindEntryGate,
			},
		},
		DestinationDocks: []models.Location{
			{
				ID:          1,
				DisplayName: "Doca A",
				Sector:      "Recebimento",
				Kind:        "descarga",
				Coordinates: models.Coordinates{Latitude: -23.558740, Longitude: -46.610429},
				Active:      true,
				Table:       models.LocationKindDestinationDock,
			},
			{
				ID:          2,
				DisplayName: "Doca B",
				Sector:      "Expedição",
				Kind:        "carregamento",
				Coordinates: models.Coordinates{Latitude: -23.551120, Longitude: -46.632908},
				Active:      true,
				Table:       models.LocationKindDestinationDock,
			},
			{
				ID:          3,
				DisplayName: "Doca C",
				Sector:      "Recebimento",
				Kind:        "descarga",
				Coordinates: models.Coordinates{Latitude: -23.551320, Longitude: -46.632708},
				Active:      true,
				Table:       models.LocationKindDestinationDock,
			},
		},
	}
}
