package port

import (
	"context"
	"landmark-service/internal/core/domain"
)

// EventPublisherPort announces domain events to other services.
type EventPublisherPort interface {
	Publish(ctx context.Context, event domain.Event) error
}
