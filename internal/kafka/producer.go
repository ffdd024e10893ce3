package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"truck-route-system/internal/config"
	"truck-route-system/internal/logger"
	"truck-route-system/internal/models"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// Producer представляет Kafka producer
type Producer struct {
	producer sarama.SyncProducer
	log      *logger.Logger
	topics   config.Topics
	now      func() time.Time
}

// NewProducer создает новый Kafka producer
func NewProducer(cfg *config.KafkaConfig, log *logger.Logger) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll       // Ждем подтверждения от всех реплик
	config.Producer.Retry.Max = 3                          // Максимум 3 попытки
	config.Producer.Return.Successes = true                // Возвращаем успешные результаты
	config.Producer.Compression = sarama.CompressionSnappy // Сжатие данных

	producer, err := sarama.NewSyncProducer(cfg.Brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Info("Kafka producer created successfully")

	return NewProducerFromSync(producer, cfg.Topics, log), nil
}

// NewProducerFromSync оборачивает готовый sarama.SyncProducer
func NewProducerFromSync(producer sarama.SyncProducer, topics config.Topics, log *logger.Logger) *Producer {
	return &Producer{
		producer: producer,
		log:      log,
		topics:   topics,
		now:      time.Now,
	}
}

// Close закрывает producer
func (p *Producer) Close() error {
	return p.producer.Close()
}

// PublishRouteIssued публикует событие выдачи ссылки
func (p *Producer) PublishRouteIssued(r models.RouteRequest) error {
	event := models.Event{
		ID:        uuid.New(),
		Type:      models.EventTypeRouteIssued,
		Timestamp: p.now(),
		Data: models.RouteIssuedEvent{
			RouteID:           r.ID,
			TruckPlate:        r.TruckPlate,
			DriverName:        r.DriverName,
			EntryGateID:       r.EntryGateID,
			DestinationDockID: r.DestinationDockID,
			ExpiresAt:         r.ExpiresAt().UTC(),
		},
	}

	return p.publishEvent(p.topics.Routes, r.ID, event)
}

// PublishRouteAccess публикует событие открытия ссылки.
// Действительная ссылка дает route.opened, остальные route.rejected.
func (p *Producer) PublishRouteAccess(access models.RouteAccessEvent) error {
	eventType := models.EventTypeRouteRejected
	if access.Status == models.OpenStatusValid {
		eventType = models.EventTypeRouteOpened
	}

	event := models.Event{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: p.now(),
		Data:      access,
	}

	key := access.RouteID
	if key == "" {
		key = event.ID.String()
	}

	return p.publishEvent(p.topics.Access, key, event)
}

// publishEvent публикует событие в указанный топик.
// Ключ сообщения id маршрута: события одной ссылки попадают в одну партицию.
func (p *Producer) publishEvent(topic, key string, event models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("event_type"),
				Value: []byte(event.Type),
			},
			{
				Key:   []byte("timestamp"),
				Value: []byte(event.Timestamp.Format(time.RFC3339)),
			},
		},
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send message to topic %s: %w", topic, err)
	}

	p.log.WithField("topic", topic).
		WithField("partition", partition).
		WithField("offset", offset).
		WithField("event_type", event.Type).
		WithField("event_id", event.ID).
		Debug("Event published successfully")

	return nil
}
