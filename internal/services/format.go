package services

import (
	"fmt"
	"math"
	"time"

	"truck-route-system/internal/models"
)

// Пороги обратного отсчета на странице проходной
const (
	dangerThreshold  = 10 * time.Minute
	warningThreshold = 30 * time.Minute
)

// ExpiredLabel подпись истекшей ссылки
const ExpiredLabel = "Expirado"

// FormatTimeRemaining форматирует остаток времени как HH:MM:SS или MM:SS
func FormatTimeRemaining(remaining time.Duration) string {
	if remaining <= 0 {
		return ExpiredLabel
	}

	ms := remaining.Milliseconds()
	hours := ms / 3_600_000
	minutes := (ms % 3_600_000) / 60_000
	seconds := (ms % 60_000) / 1000

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// CountdownLevelFor определяет уровень срочности для остатка времени
func CountdownLevelFor(remaining time.Duration) models.CountdownLevel {
	switch {
	case remaining <= 0:
		return models.CountdownExpired
	case remaining < dangerThreshold:
		return models.CountdownDanger
	case remaining < warningThreshold:
		return models.CountdownWarning
	default:
		return models.CountdownNormal
	}
}

// FormatDistance форматирует расстояние: метры до километра, дальше километры с одной цифрой
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", int64(math.Round(meters)))
	}
	return fmt.Sprintf("%.1fkm", meters/1000)
}

// FormatTravelTime форматирует время в пути как "1h 5min" или "12min"
func FormatTravelTime(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dmin", hours, minutes)
	}
	return fmt.Sprintf("%dmin", minutes)
}
