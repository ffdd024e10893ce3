package handlers

import (
	"errors"
	"net/http"

	"truck-route-system/internal/database"
	"truck-route-system/internal/logger"
	"truck-route-system/internal/services"
)

// PassHandler отдает записи реестра пропусков
type PassHandler struct {
	passService *services.PassService
	log         *logger.Logger
}

// NewPassHandler создает новый обработчик реестра
func NewPassHandler(passService *services.PassService, log *logger.Logger) *PassHandler {
	return &PassHandler{
		passService: passService,
		log:         log,
	}
}

// GetPass получает пропуск по ID
func (h *PassHandler) GetPass(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id, err := extractIDFromPath(r.URL.Path, "/api/passes/")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid pass ID")
		return
	}

	pass, err := h.passService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrPassNotFound) {
			WriteErrorResponse(w, http.StatusNotFound, "Pass not found")
			return
		}
		h.log.WithError(err).WithField("pass_id", id).Error("Failed to get pass")
		WriteErrorResponse(w, http.StatusInternalServerError, "Failed to get pass")
		return
	}

	writeJSONResponse(w, http.StatusOK, pass)
}
