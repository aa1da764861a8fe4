package port

import (
	"context"
	"landmark-service/internal/core/domain"

	"github.com/google/uuid"
)

// NearbyIndexPort is the geo search index used by the map.
type NearbyIndexPort interface {
	Index(ctx context.Context, l *domain.Landmark) error
	Remove(ctx context.Context, id uuid.UUID) error
	// Nearby returns landmark ids ordered by distance from the point.
	Nearby(ctx context.Context, point domain.Geolocation, limit int) ([]uuid.UUID, error)
}
