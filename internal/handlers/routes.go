package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"truck-route-system/internal/config"
	"truck-route-system/internal/directory"
	"truck-route-system/internal/logger"
	"truck-route-system/internal/models"
	"truck-route-system/internal/services"
	"truck-route-system/internal/token"
	"truck-route-system/internal/validator"

	"github.com/sirupsen/logrus"
)

// RouteHandler представляет обработчик маршрутных ссылок
type RouteHandler struct {
	routeService   *services.RouteService
	historyService *services.HistoryService
	config         *config.RouteConfig
	log            *logger.Logger
}

// NewRouteHandler создает новый обработчик маршрутов
func NewRouteHandler(routeService *services.RouteService, historyService *services.HistoryService, cfg *config.RouteConfig, log *logger.Logger) *RouteHandler {
	return &RouteHandler{
		routeService:   routeService,
		historyService: historyService,
		config:         cfg,
		log:            log,
	}
}

// IssueRoute выдает ссылку по форме проходной
func (h *RouteHandler) IssueRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	form, err := decodeRouteForm(r)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if form.ExpiryHours == 0 {
		form.ExpiryHours = h.config.DefaultExpiryHours
	}

	issued, err := h.routeService.Issue(r.Context(), form)
	if err != nil {
		h.writeIssueError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, issued)
}

// decodeRouteForm читает форму проходной из JSON или из обычной HTML формы.
// В HTML форме id точек приходят строками.
func decodeRouteForm(r *http.Request) (models.RouteForm, error) {
	var form models.RouteForm

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		err := json.NewDecoder(r.Body).Decode(&form)
		return form, err
	}

	if err := r.ParseForm(); err != nil {
		return form, err
	}

	form.TruckPlate = r.PostForm.Get("truckPlate")
	form.TruckModel = r.PostForm.Get("truckModel")
	form.CompanyName = r.PostForm.Get("companyName")
	form.DriverName = r.PostForm.Get("driverName")
	form.DriverDocument = r.PostForm.Get("driverDocument")

	var err error
	if v := r.PostForm.Get("entryGateId"); v != "" {
		if form.EntryGateID, err = directory.ParseID(v); err != nil {
			return form, err
		}
	}
	if v := r.PostForm.Get("destinationDockId"); v != "" {
		if form.DestinationDockID, err = directory.ParseID(v); err != nil {
			return form, err
		}
	}
	if v := r.PostForm.Get("expiryHours"); v != "" {
		if form.ExpiryHours, err = strconv.Atoi(strings.TrimSpace(v)); err != nil {
			return form, fmt.Errorf("invalid expiry hours %q: %w", v, err)
		}
	}

	return form, nil
}

func (h *RouteHandler) writeIssueError(w http.ResponseWriter, err error) {
	var fieldErr *validator.FieldError
	var unknownErr *services.UnknownLocationError
	var coordsErr *services.InvalidCoordinatesError

	switch {
	case errors.As(err, &fieldErr):
		WriteErrorResponse(w, http.StatusBadRequest, fieldErr.Error())
	case errors.Is(err, services.ErrInvalidExpiry):
		WriteErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &unknownErr), errors.As(err, &coordsErr):
		WriteErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.WithError(err).Error("Failed to issue route")
		WriteErrorResponse(w, http.StatusInternalServerError, "Failed to issue route")
	}
}

// OpenRoute открывает ссылку водителя
func (h *RouteHandler) OpenRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	result := h.routeService.Open(r.Context(), r.URL.Query().Get("data"))

	statusCode := http.StatusOK
	switch result.Status {
	case models.OpenStatusExpired:
		statusCode = http.StatusGone
	case models.OpenStatusInvalid:
		statusCode = http.StatusBadRequest
	}

	writeJSONResponse(w, statusCode, result)
}

// QRCode отдает PNG с QR-кодом ссылки для переданного токена
func (h *RouteHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	data := r.URL.Query().Get("data")
	if _, err := token.Decode(data); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid route token")
		return
	}

	png, err := services.QRCode(h.routeService.Link(data), h.config.QRCodeSize)
	if err != nil {
		h.log.WithError(err).Error("Failed to render QR code")
		WriteErrorResponse(w, http.StatusInternalServerError, "Failed to render QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.log.WithError(err).Debug("Failed to write QR code")
	}
}

// RecentCodes возвращает историю выданных ссылок, начиная с последней
func (h *RouteHandler) RecentCodes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	codes, err := h.historyService.List(r.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to list recent codes")
		WriteErrorResponse(w, http.StatusInternalServerError, "Failed to list recent codes")
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"codes": codes,
		"count": len(codes),
	})
}

// DeleteRecent удаляет запись из истории
func (h *RouteHandler) DeleteRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id, err := extractIDFromPath(r.URL.Path, "/api/routes/recent/")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid route ID")
		return
	}

	removed, err := h.historyService.Remove(r.Context(), id)
	if err != nil {
		h.log.WithError(err).WithField("route_id", id).Error("Failed to remove recent code")
		WriteErrorResponse(w, http.StatusInternalServerError, "Failed to remove recent code")
		return
	}
	if !removed {
		WriteErrorResponse(w, http.StatusNotFound, "Recent code not found")
		return
	}

	h.log.WithFields(logrus.Fields{"route_id": id}).Info("Recent code removed")
	w.WriteHeader(http.StatusNoContent)
}
