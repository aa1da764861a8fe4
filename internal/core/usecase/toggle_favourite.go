package usecase

import (
	"context"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"

	"github.com/google/uuid"
)

type ToggleFavouriteUseCase struct {
	landmarks port.LandmarkRepositoryPort
	favorites port.FavoritesRepositoryPort
}

func NewToggleFavouriteUseCase(landmarks port.LandmarkRepositoryPort, favorites port.FavoritesRepositoryPort) *ToggleFavouriteUseCase {
	return &ToggleFavouriteUseCase{landmarks: landmarks, favorites: favorites}
}

// Execute flips the favourite link and reports whether the landmark is now a favourite.
func (uc *ToggleFavouriteUseCase) Execute(ctx context.Context, identity domain.Identity, landmarkID uuid.UUID) (bool, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "ToggleFavourite",
		"user_id":     identity.UserID.String(),
		"landmark_id": landmarkID.String(),
	})
	ucLogger.Info("Use case started", nil)

	if identity.IsAnonymous() {
		return false, domain.ErrUnauthenticated
	}

	landmark, err := uc.landmarks.FindByID(ctx, landmarkID)
	if err != nil {
		ucLogger.Error("Repository failed to find landmark", err, nil)
		return false, err
	}
	if landmark == nil {
		return false, domain.ErrLandmarkNotFound
	}
	if landmark.IsOwner(identity.UserID) {
		ucLogger.Warn("Favourite refused: caller owns the landmark", nil)
		return false, domain.ErrOwnAction
	}

	exists, err := uc.favorites.Exists(ctx, identity.UserID, landmarkID)
	if err != nil {
		ucLogger.Error("Repository failed to check favourite", err, nil)
		return false, err
	}

	if exists {
		err = uc.favorites.Remove(ctx, identity.UserID, landmarkID)
	} else {
		err = uc.favorites.Add(ctx, identity.UserID, landmarkID)
	}
	if err != nil {
		ucLogger.Error("Repository failed to toggle favourite", err, nil)
		return false, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"favourite": !exists})
	return !exists, nil
}
