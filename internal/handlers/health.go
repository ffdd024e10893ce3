package handlers

import (
	"context"
	"net/http"
	"time"

	"truck-route-system/internal/directory"
)

// DatabaseChecker проверяет доступность базы данных
type DatabaseChecker interface {
	Health() error
}

// RedisChecker проверяет доступность Redis
type RedisChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler представляет обработчик для проверки здоровья системы
type HealthHandler struct {
	db          DatabaseChecker
	redisClient RedisChecker
	directory   directory.Report
}

// NewHealthHandler создает новый обработчик здоровья
func NewHealthHandler(db DatabaseChecker, redisClient RedisChecker, report directory.Report) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
		directory:   report,
	}
}

// HealthResponse представляет ответ проверки здоровья
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
	Warnings []string          `json:"warnings,omitempty"`
	Version  string            `json:"version"`
	Uptime   string            `json:"uptime"`
}

var startTime = time.Now()

// Health проверяет состояние всех компонентов системы
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	services := make(map[string]string)
	overallStatus := "healthy"

	// Проверка базы данных
	if err := h.db.Health(); err != nil {
		services["database"] = "unhealthy: " + err.Error()
		overallStatus = "unhealthy"
	} else {
		services["database"] = "healthy"
	}

	// Проверка Redis
	if err := h.redisClient.Health(ctx); err != nil {
		services["redis"] = "unhealthy: " + err.Error()
		overallStatus = "unhealthy"
	} else {
		services["redis"] = "healthy"
	}

	// Справочники проверяются один раз при старте
	if h.directory.OK() {
		services["directory"] = "healthy"
	} else {
		services["directory"] = "unhealthy: " + h.directory.Errors[0]
		overallStatus = "unhealthy"
	}

	response := HealthResponse{
		Status:   overallStatus,
		Services: services,
		Warnings: h.directory.Warnings,
		Version:  "1.0.0",
		Uptime:   time.Since(startTime).String(),
	}

	statusCode := http.StatusOK
	if overallStatus == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSONResponse(w, statusCode, response)
}

// Readiness проверяет готовность приложения к обработке запросов
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Health(); err != nil {
		WriteErrorResponse(w, http.StatusServiceUnavailable, "Database not ready")
		return
	}

	if err := h.redisClient.Health(ctx); err != nil {
		WriteErrorResponse(w, http.StatusServiceUnavailable, "Redis not ready")
		return
	}

	if !h.directory.OK() {
		WriteErrorResponse(w, http.StatusServiceUnavailable, "Location directory is invalid")
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Liveness проверяет, что приложение живо
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{
		"status": "alive",
		"uptime": time.Since(startTime).String(),
	})
}
