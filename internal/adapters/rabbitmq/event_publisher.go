package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"landmark-service/internal/constants"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/contracts"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// messagePublisher is satisfied by rabbitmq_producer.Publisher.
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// EventPublisherAdapter publishes domain events to the topic exchange. The event
// type is the routing key.
type EventPublisherAdapter struct {
	producer messagePublisher
	now      func() time.Time
}

func NewEventPublisherAdapter(producer messagePublisher) (*EventPublisherAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	return &EventPublisherAdapter{producer: producer, now: time.Now}, nil
}

func (a *EventPublisherAdapter) Publish(ctx context.Context, event domain.Event) error {
	eventType := event.EventType()
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "EventPublisherAdapter",
		"routing_key": eventType,
	})

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: marshal %s: %w", eventType, err)
	}
	if err := contracts.ValidateEvent(eventType, domain.EventVersion, body); err != nil {
		logger.Error("Event does not match its contract", err, nil)
		return fmt.Errorf("rabbitmq adapter: %s: %w", eventType, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    a.now(),
		Type:         eventType,
		Headers: amqp.Table{
			constants.HeaderEventType:    eventType,
			constants.HeaderEventVersion: int32(domain.EventVersion),
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers[constants.HeaderTraceID] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, eventType, msg); err != nil {
		logger.Error("Failed to publish event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish %s: %w", eventType, err)
	}

	logger.Info("Event published", port.Fields{"message_id": msg.MessageId})
	return nil
}

// NoopEventPublisher is used when no broker is configured.
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(ctx context.Context, event domain.Event) error {
	contextkeys.LoggerFromContext(ctx).Debug("Event dropped, no broker configured", port.Fields{"event_type": event.EventType()})
	return nil
}
