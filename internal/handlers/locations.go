package handlers

import (
	"net/http"

	"truck-route-system/internal/directory"
	"truck-route-system/internal/geo"
	"truck-route-system/internal/models"
)

// LocationView точка справочника для списков выбора
type LocationView struct {
	models.Location
	Label   string `json:"label"`
	Geohash string `json:"geohash"`
}

// LocationHandler отдает справочники проходных и док
type LocationHandler struct {
	dir *directory.Directory
}

// NewLocationHandler создает новый обработчик справочников
func NewLocationHandler(dir *directory.Directory) *LocationHandler {
	return &LocationHandler{dir: dir}
}

// Gates возвращает активные проходные
func (h *LocationHandler) Gates(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.dir.EntryGates)
}

// Docks возвращает активные доки
func (h *LocationHandler) Docks(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.dir.Docks)
}

func (h *LocationHandler) list(w http.ResponseWriter, r *http.Request, table directory.Table) {
	if r.Method != http.MethodGet {
		WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	active := directory.ActiveEntries(table)
	views := make([]LocationView, 0, len(active))
	for _, loc := range active {
		views = append(views, LocationView{
			Location: loc,
			Label:    loc.Label(),
			Geohash:  geo.Geohash(loc.Coordinates, geo.DefaultGeohashPrecision),
		})
	}

	writeJSONResponse(w, http.StatusOK, views)
}
