package usecase

import (
	"context"
	"fmt"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
)

type GetUserFavouritesUseCase struct {
	favorites port.FavoritesRepositoryPort
	landmarks port.LandmarkRepositoryPort
}

func NewGetUserFavouritesUseCase(favorites port.FavoritesRepositoryPort, landmarks port.LandmarkRepositoryPort) *GetUserFavouritesUseCase {
	return &GetUserFavouritesUseCase{favorites: favorites, landmarks: landmarks}
}

// Execute returns the caller's favourite landmarks, most recently added first.
func (uc *GetUserFavouritesUseCase) Execute(ctx context.Context, identity domain.Identity) ([]domain.Landmark, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "GetUserFavourites",
		"user_id":  identity.UserID.String(),
	})
	ucLogger.Info("Use case started", nil)

	if identity.IsAnonymous() {
		return nil, domain.ErrUnauthenticated
	}

	ids, err := uc.favorites.FindIDsByUser(ctx, identity.UserID)
	if err != nil {
		ucLogger.Error("Failed to get favourite ids from repository", err, nil)
		return nil, fmt.Errorf("failed to get favourite ids: %w", err)
	}
	if len(ids) == 0 {
		ucLogger.Info("User has no favourites", nil)
		return []domain.Landmark{}, nil
	}

	found, err := uc.landmarks.FindByIDs(ctx, ids)
	if err != nil {
		ucLogger.Error("Failed to load favourite landmarks", err, nil)
		return nil, fmt.Errorf("failed to load favourite landmarks: %w", err)
	}

	// the store does not keep the order of ids
	landmarks := orderByIDs(found, ids)

	ucLogger.Info("Use case finished successfully", port.Fields{"count": len(landmarks)})
	return landmarks, nil
}
