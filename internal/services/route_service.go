package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"truck-route-system/internal/config"
	"truck-route-system/internal/logger"
	"truck-route-system/internal/models"
	"truck-route-system/internal/token"
	"truck-route-system/internal/validator"

	"github.com/sirupsen/logrus"
)

// Сообщения страницы водителя
const (
	MessageValid          = "Rota válida"
	MessageExpired        = "Link expirado! Solicite um novo QR Code."
	MessageCorrupted      = "Link inválido ou corrompido"
	MessageMissingField   = "Dados incompletos no link"
	MessageUnknownGate    = "Portaria não encontrada"
	MessageUnknownDock    = "Doca não encontrada"
	MessageInvalidRequest = "Dados inválidos"
)

// PassStore регистрирует выданные пропуска
type PassStore interface {
	Save(ctx context.Context, pass *models.Pass) error
}

// HistoryStore хранит историю выданных ссылок
type HistoryStore interface {
	Push(ctx context.Context, issued models.IssuedRoute) error
}

// EventPublisher публикует события маршрутов
type EventPublisher interface {
	PublishRouteIssued(r models.RouteRequest) error
	PublishRouteAccess(access models.RouteAccessEvent) error
}

// RouteService выдает ссылки на проходной и открывает их на стороне водителя
type RouteService struct {
	builder   *RouteBuilder
	validator *token.Validator
	estimates *EstimateService
	passes    PassStore
	history   HistoryStore
	events    EventPublisher
	config    *config.RouteConfig
	log       *logger.Logger
	now       func() time.Time
}

// NewRouteService создает сервис маршрутов
func NewRouteService(
	builder *RouteBuilder,
	tokenValidator *token.Validator,
	estimates *EstimateService,
	passes PassStore,
	history HistoryStore,
	events EventPublisher,
	cfg *config.RouteConfig,
	log *logger.Logger,
) *RouteService {
	return &RouteService{
		builder:   builder,
		validator: tokenValidator,
		estimates: estimates,
		passes:    passes,
		history:   history,
		events:    events,
		config:    cfg,
		log:       log,
		now:       time.Now,
	}
}

// WithClock возвращает копию сервиса, где сборщик, валидатор и сервис читают одни часы
func (s *RouteService) WithClock(now func() time.Time) *RouteService {
	copied := *s
	copied.now = now
	copied.builder = s.builder.WithClock(now)
	copied.validator = s.validator.WithClock(now)
	return &copied
}

// Link строит ссылку для водителя вида <base>/<page>?data=<token>
func (s *RouteService) Link(encoded string) string {
	return fmt.Sprintf("%s/%s?data=%s", s.config.BaseURL, s.config.RoutePage, url.QueryEscape(encoded))
}

// Issue проверяет форму, собирает и кодирует запись, регистрирует пропуск.
// Ошибки формы и сборщика возвращаются как есть: ссылка в этом случае не выдается.
func (s *RouteService) Issue(ctx context.Context, form models.RouteForm) (*models.IssuedRoute, error) {
	normalized, err := validator.ValidateForm(form)
	if err != nil {
		return nil, err
	}

	request, err := s.builder.Build(normalized)
	if err != nil {
		return nil, err
	}

	encoded, err := token.Encode(request)
	if err != nil {
		return nil, err
	}

	link := s.Link(encoded)
	issued := &models.IssuedRoute{
		Request: request,
		Token:   encoded,
		URL:     link,
		WhatsAppURL: WhatsAppLink(
			ShareMessage(s.config.WhatsAppMessage, request.TruckPlate, request.DriverName, link), ""),
	}

	pass := models.NewPass(*issued)
	if err := s.passes.Save(ctx, &pass); err != nil {
		return nil, fmt.Errorf("failed to register pass: %w", err)
	}

	if err := s.history.Push(ctx, *issued); err != nil {
		s.log.WithError(err).WithField("route_id", request.ID).Warn("Failed to save recent code")
	}

	if err := s.events.PublishRouteIssued(request); err != nil {
		s.log.WithError(err).WithField("route_id", request.ID).Error("Failed to publish route issued event")
	}

	s.log.WithFields(logrus.Fields{
		"route_id":            request.ID,
		"truck_plate":         request.TruckPlate,
		"entry_gate_id":       request.EntryGateID,
		"destination_dock_id": request.DestinationDockID,
		"expiry_hours":        request.ExpiryHours,
	}).Info("Route pass issued")

	return issued, nil
}

// Open раскодирует и проверяет ссылку водителя. Ошибки декодирования превращаются
// в статус invalid и не возвращаются вызывающей стороне.
func (s *RouteService) Open(ctx context.Context, data string) *models.OpenResult {
	now := s.now()

	request, err := token.Decode(data)
	if err != nil {
		s.log.WithError(err).Debug("Route token rejected")
		result := &models.OpenResult{
			Status:         models.OpenStatusInvalid,
			Message:        MessageCorrupted,
			CountdownLevel: models.CountdownExpired,
		}
		s.publishAccess(result, "", "", now)
		return result
	}

	verdict := s.validator.ValidateAt(request, now)
	result := s.resultFor(request, verdict, now)
	s.publishAccess(result, request.ID, request.TruckPlate, now)

	return result
}

func (s *RouteService) resultFor(request models.RouteRequest, verdict models.Verdict, now time.Time) *models.OpenResult {
	if !verdict.Valid {
		result := &models.OpenResult{
			Status:         models.OpenStatusInvalid,
			Reason:         verdict.Reason,
			Message:        messageFor(verdict.Reason),
			CountdownLevel: models.CountdownExpired,
		}
		if verdict.Reason == models.ReasonExpired {
			result.Status = models.OpenStatusExpired
			result.Request = &request
			result.Remaining = ExpiredLabel
		}
		return result
	}

	remaining := token.TimeRemaining(request.ExpiryTimestamp, now)
	result := &models.OpenResult{
		Status:          models.OpenStatusValid,
		Message:         MessageValid,
		Request:         &request,
		EntryGate:       verdict.ResolvedEntryGate,
		DestinationDock: verdict.ResolvedDestinationDock,
		RemainingMillis: remaining.Milliseconds(),
		Remaining:       FormatTimeRemaining(remaining),
		CountdownLevel:  CountdownLevelFor(remaining),
	}

	estimate, err := s.estimates.Estimate(*verdict.ResolvedEntryGate, *verdict.ResolvedDestinationDock)
	if err != nil {
		s.log.WithError(err).WithField("route_id", request.ID).Warn("Route estimate unavailable")
	} else {
		result.Estimate = estimate
	}

	return result
}

func (s *RouteService) publishAccess(result *models.OpenResult, routeID, plate string, now time.Time) {
	err := s.events.PublishRouteAccess(models.RouteAccessEvent{
		RouteID:    routeID,
		TruckPlate: plate,
		Status:     result.Status,
		Reason:     result.Reason,
		Timestamp:  now,
	})
	if err != nil {
		s.log.WithError(err).WithField("route_id", routeID).Error("Failed to publish route access event")
	}
}

func messageFor(reason models.VerdictReason) string {
	switch reason {
	case models.ReasonExpired:
		return MessageExpired
	case models.ReasonMissingField:
		return MessageMissingField
	case models.ReasonUnknownGate:
		return MessageUnknownGate
	case models.ReasonUnknownDock:
		return MessageUnknownDock
	default:
		return MessageInvalidRequest
	}
}
