package port

import (
	"context"
	"landmark-service/internal/core/domain"

	"github.com/google/uuid"
)

// LandmarkRepositoryPort is the landmark document store.
type LandmarkRepositoryPort interface {
	// FindPage returns one page ordered by created_at DESC, id DESC.
	FindPage(ctx context.Context, req domain.PageRequest) (*domain.LandmarkPage, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Landmark, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Landmark, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Landmark, error)
	FindByGeohashPrefixes(ctx context.Context, prefixes []string, limit int) ([]domain.Landmark, error)

	// Create stores l, assigning CreatedAt and UpdatedAt.
	Create(ctx context.Context, l *domain.Landmark) error
	// Update overwrites the editable fields. Owner and CreatedAt are left as stored.
	Update(ctx context.Context, l *domain.Landmark) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AddLike and RemoveLike change the liker set atomically and return the new set.
	AddLike(ctx context.Context, landmarkID, userID uuid.UUID) ([]uuid.UUID, error)
	RemoveLike(ctx context.Context, landmarkID, userID uuid.UUID) ([]uuid.UUID, error)
}
