package services

import (
	"math"

	"truck-route-system/internal/config"
	"truck-route-system/internal/geo"
	"truck-route-system/internal/logger"
	"truck-route-system/internal/models"
)

// EstimateService оценивает маршрут по прямой между проходной и докой
type EstimateService struct {
	config *config.EstimateConfig
	log    *logger.Logger
}

func NewEstimateService(cfg *config.EstimateConfig, log *logger.Logger) *EstimateService {
	return &EstimateService{
		config: cfg,
		log:    log,
	}
}

// Estimate считает расстояние и время в пути при средней скорости из конфигурации
func (s *EstimateService) Estimate(from, to models.Location) (*models.RouteEstimate, error) {
	if !geo.IsValid(from.Coordinates) {
		return nil, &InvalidCoordinatesError{Kind: from.Table, Name: from.DisplayName}
	}
	if !geo.IsValid(to.Coordinates) {
		return nil, &InvalidCoordinatesError{Kind: to.Table, Name: to.DisplayName}
	}

	distance := geo.Distance(from.Coordinates, to.Coordinates)
	duration := s.travelSeconds(distance)

	return &models.RouteEstimate{
		DistanceMeters:    math.Round(distance*10) / 10,
		DurationSeconds:   duration,
		DistanceFormatted: FormatDistance(distance),
		DurationFormatted: FormatTravelTime(duration),
	}, nil
}

func (s *EstimateService) travelSeconds(meters float64) int {
	speed := s.config.AverageSpeedKmh
	if speed <= 0 {
		speed = 50
	}
	return int(math.Round(meters / 1000 / speed * 3600))
}
