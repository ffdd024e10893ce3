package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"truck-route-system/internal/config"
	"truck-route-system/internal/logger"
	"truck-route-system/internal/models"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTopics = config.Topics{Routes: "routes", Access: "route-access"}

func TestPublishRouteIssued(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := NewProducerFromSync(mockProducer, testTopics, logger.NewDiscard())
	defer producer.Close()

	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event struct {
			Type models.EventType        `json:"type"`
			Data models.RouteIssuedEvent `json:"data"`
		}
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.Type != models.EventTypeRouteIssued {
			return errors.New("unexpected event type " + string(event.Type))
		}
		if event.Data.RouteID != "r-1" || event.Data.TruckPlate != "ABC1234" {
			return errors.New("unexpected payload")
		}
		return nil
	})

	err := producer.PublishRouteIssued(models.RouteRequest{
		ID:                "r-1",
		TruckPlate:        "ABC1234",
		DriverName:        "João Silva",
		EntryGateID:       1,
		DestinationDockID: 2,
		ExpiryTimestamp:   1767232800000,
	})
	require.NoError(t, err)
}

func TestPublishRouteAccessChoosesEventType(t *testing.T) {
	tests := []struct {
		status   models.OpenStatus
		expected models.EventType
	}{
		{models.OpenStatusValid, models.EventTypeRouteOpened},
		{models.OpenStatusExpired, models.EventTypeRouteRejected},
		{models.OpenStatusInvalid, models.EventTypeRouteRejected},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			mockProducer := mocks.NewSyncProducer(t, nil)
			producer := NewProducerFromSync(mockProducer, testTopics, logger.NewDiscard())
			defer producer.Close()

			mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
				var event models.Event
				if err := json.Unmarshal(val, &event); err != nil {
					return err
				}
				if event.Type != tt.expected {
					return errors.New("unexpected event type " + string(event.Type))
				}
				return nil
			})

			err := producer.PublishRouteAccess(models.RouteAccessEvent{
				RouteID:   "r-1",
				Status:    tt.status,
				Timestamp: time.Now(),
			})
			require.NoError(t, err)
		})
	}
}

func TestPublishFailureIsReturned(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := NewProducerFromSync(mockProducer, testTopics, logger.NewDiscard())
	defer producer.Close()

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := producer.PublishRouteAccess(models.RouteAccessEvent{Status: models.OpenStatusInvalid})
	require.Error(t, err)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	assert.Contains(t, err.Error(), "route-access")
}

func newTestConsumer() *Consumer {
	return &Consumer{
		log:      logger.NewDiscard(),
		handlers: make(map[models.EventType]EventHandler),
		ctx:      context.Background(),
	}
}

func TestProcessMessageDispatchesToHandler(t *testing.T) {
	consumer := newTestConsumer()

	var received models.RouteAccessEvent
	consumer.RegisterHandler(models.EventTypeRouteOpened, func(ctx context.Context, event *models.Event) error {
		return DecodeData(event, &received)
	})

	payload, err := json.Marshal(models.Event{
		Type: models.EventTypeRouteOpened,
		Data: models.RouteAccessEvent{RouteID: "r-1", Status: models.OpenStatusValid},
	})
	require.NoError(t, err)

	err = consumer.processMessage(&sarama.ConsumerMessage{Topic: "route-access", Value: payload})
	require.NoError(t, err)
	assert.Equal(t, "r-1", received.RouteID)
	assert.Equal(t, models.OpenStatusValid, received.Status)
}

func TestProcessMessageSkipsUnknownTypes(t *testing.T) {
	consumer := newTestConsumer()

	payload, err := json.Marshal(models.Event{Type: models.EventTypeRouteIssued})
	require.NoError(t, err)

	assert.NoError(t, consumer.processMessage(&sarama.ConsumerMessage{Value: payload}))
}

func TestProcessMessageRejectsGarbage(t *testing.T) {
	consumer := newTestConsumer()

	err := consumer.processMessage(&sarama.ConsumerMessage{Value: []byte("not json")})
	assert.Error(t, err)
}

func TestProcessMessageWrapsHandlerError(t *testing.T) {
	consumer := newTestConsumer()
	consumer.RegisterHandler(models.EventTypeRouteRejected, func(ctx context.Context, event *models.Event) error {
		return errors.New("boom")
	})

	payload, err := json.Marshal(models.Event{Type: models.EventTypeRouteRejected})
	require.NoError(t, err)

	err = consumer.processMessage(&sarama.ConsumerMessage{Value: payload})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "route.rejected")
}
