package usecases_port

import (
	"context"
	"landmark-service/internal/core/domain"

	"github.com/google/uuid"
)

type ToggleLikeUseCasePort interface {
	Execute(ctx context.Context, identity domain.Identity, landmarkID uuid.UUID) (*domain.LikeState, error)
}

type ToggleFavouriteUseCasePort interface {
	// Returns whether the landmark is a favourite after the call.
	Execute(ctx context.Context, identity domain.Identity, landmarkID uuid.UUID) (bool, error)
}

type GetUserFavouritesUseCasePort interface {
	Execute(ctx context.Context, identity domain.Identity) ([]domain.Landmark, error)
}
