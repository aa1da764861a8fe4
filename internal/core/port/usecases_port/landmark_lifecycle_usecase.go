package usecases_port

import (
	"context"
	"landmark-service/internal/core/domain"

	"github.com/google/uuid"
)

type CreateLandmarkUseCasePort interface {
	Execute(ctx context.Context, identity domain.Identity, form domain.LandmarkForm, images []domain.ImageUpload, progress chan<- domain.UploadProgress) (*domain.Landmark, error)
}

type UpdateLandmarkUseCasePort interface {
	Execute(ctx context.Context, identity domain.Identity, landmarkID uuid.UUID, form domain.LandmarkForm, images []domain.ImageUpload, progress chan<- domain.UploadProgress) (*domain.Landmark, error)
}

type DeleteLandmarkUseCasePort interface {
	Execute(ctx context.Context, identity domain.Identity, landmarkID uuid.UUID) error
}

type GetLandmarkUseCasePort interface {
	Execute(ctx context.Context, landmarkID uuid.UUID) (*domain.Landmark, error)
}

type ListUserLandmarksUseCasePort interface {
	Execute(ctx context.Context, identity domain.Identity) ([]domain.Landmark, error)
}

type FindNearbyLandmarksUseCasePort interface {
	Execute(ctx context.Context, point domain.Geolocation, limit int) ([]domain.Landmark, error)
}
