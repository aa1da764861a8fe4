package port

import (
	"context"

	"github.com/google/uuid"
)

// FavoritesRepositoryPort keeps the user to landmark favourite links.
type FavoritesRepositoryPort interface {
	Add(ctx context.Context, userID, landmarkID uuid.UUID) error
	Remove(ctx context.Context, userID, landmarkID uuid.UUID) error
	Exists(ctx context.Context, userID, landmarkID uuid.UUID) (bool, error)
	// FindIDsByUser returns landmark ids, most recently favourited first.
	FindIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	RemoveLandmark(ctx context.Context, landmarkID uuid.UUID) error
}
