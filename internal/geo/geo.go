// Package geo содержит проверки и расчеты по географическим координатам.
package geo

import (
	"math"

	"truck-route-system/internal/models"

	"github.com/mmcloughlin/geohash"
)

// earthRadiusMeters радиус Земли в метрах
const earthRadiusMeters = 6371e3

// DefaultGeohashPrecision точность геохеша для справочников (~150 м)
const DefaultGeohashPrecision uint = 7

// IsValidCoordinate проверяет, что широта и долгота конечны и лежат в допустимых диапазонах
func IsValidCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// IsValid проверяет координаты точки
func IsValid(c models.Coordinates) bool {
	return IsValidCoordinate(c.Latitude, c.Longitude)
}

// Distance рассчитывает расстояние между двумя точками в метрах по формуле гаверсинусов
func Distance(a, b models.Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// Geohash кодирует координаты в геохеш указанной точности.
// Для некорректных координат возвращает пустую строку.
func Geohash(c models.Coordinates, precision uint) string {
	if !IsValid(c) {
		return ""
	}
	return geohash.EncodeWithPrecision(c.Latitude, c.Longitude, precision)
}
