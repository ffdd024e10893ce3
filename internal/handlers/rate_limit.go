package handlers

import (
	"net/http"
	"time"

	"truck-route-system/internal/logger"
	"truck-route-system/internal/middleware"
	"truck-route-system/internal/services"
)

// RateLimitHandler обрабатывает запросы связанные с rate limiting
type RateLimitHandler struct {
	rateLimiter *services.RateLimiterService
	log         *logger.Logger
}

// NewRateLimitHandler создает новый RateLimitHandler
func NewRateLimitHandler(rateLimiter *services.RateLimiterService, log *logger.Logger) *RateLimitHandler {
	return &RateLimitHandler{
		rateLimiter: rateLimiter,
		log:         log,
	}
}

// GetStatus возвращает текущий статус rate limit для клиента
func (h *RateLimitHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ip := middleware.ClientIP(r)

	// Статус читается без инкремента счетчика
	result, err := h.rateLimiter.GetStatus(r.Context(), ip, false)
	if err != nil {
		h.log.WithError(err).WithField("ip", ip).Error("Ошибка получения rate limit статуса")
		WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := map[string]interface{}{
		"ip":        ip,
		"limit":     result.Limit,
		"remaining": result.Remaining,
		"is_banned": !result.Allowed,
	}
	if !result.ResetAt.IsZero() {
		response["reset_at"] = result.ResetAt.Format(time.RFC3339)
	}

	if !result.Allowed {
		response["banned_until"] = result.BannedUntil.Format(time.RFC3339)
		response["retry_after"] = result.RetryAfter
	}

	writeJSONResponse(w, http.StatusOK, response)
}
