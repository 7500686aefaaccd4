package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"search-service/internal/constants"
	"search-service/internal/contextkeys"
	"search-service/internal/contracts"
	"search-service/internal/core/domain"
	"search-service/internal/core/port"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// messagePublisher is satisfied by *rabbitmq_producer.Publisher.
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// SavedSearchPublisherAdapter implements port.SavedSearchEventPublisherPort.
type SavedSearchPublisherAdapter struct {
	producer   messagePublisher
	routingKey string
	now        func() time.Time
}

func NewSavedSearchPublisherAdapter(producer messagePublisher, routingKey string) (*SavedSearchPublisherAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &SavedSearchPublisherAdapter{
		producer:   producer,
		routingKey: routingKey,
		now:        time.Now,
	}, nil
}

func (a *SavedSearchPublisherAdapter) PublishSavedSearchCreated(ctx context.Context, s domain.SavedSearch) error {
	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":       "SavedSearchPublisherAdapter",
		"routing_key":     a.routingKey,
		"saved_search_id": s.ID,
	})

	amenities := s.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	traceID := contextkeys.TraceIDFromContext(ctx)
	event := SavedSearchCreatedEvent{
		EventID:      uuid.NewString(),
		EventType:    constants.SavedSearchCreatedEventName,
		EventVersion: constants.SavedSearchCreatedVersion,
		OccurredAt:   a.now().UTC(),
		TraceID:      traceID,
		Data: SavedSearchCreatedData{
			SavedSearchID: s.ID,
			UserID:        s.UserID,
			Location:      s.Location,
			MinPrice:      s.MinPrice,
			MaxPrice:      s.MaxPrice,
			HouseType:     s.HouseType,
			Amenities:     amenities,
			Bedrooms:      s.Bedrooms,
			MaxDistanceKm: s.MaxDistanceKm,
		},
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to marshal event: %w", err)
	}
	if err := contracts.ValidateEvent(event.EventType, event.EventVersion, body); err != nil {
		adapterLogger.Error("Outgoing event does not match its schema", err, nil)
		return fmt.Errorf("rabbitmq adapter: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		MessageId:    event.EventID,
		Type:         event.EventType,
		Headers: amqp.Table{
			"event_type":    event.EventType,
			"event_version": event.EventVersion,
		},
	}
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish saved search event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish saved search %d: %w", s.ID, err)
	}

	adapterLogger.Info("Published saved search event", port.Fields{"event_id": event.EventID})
	return nil
}

// NoopSavedSearchPublisher is used when RabbitMQ is disabled.
type NoopSavedSearchPublisher struct{}

func (NoopSavedSearchPublisher) PublishSavedSearchCreated(ctx context.Context, s domain.SavedSearch) error {
	contextkeys.LoggerFromContext(ctx).Debug("RabbitMQ disabled, saved search event not published", port.Fields{
		"saved_search_id": s.ID,
	})
	return nil
}
