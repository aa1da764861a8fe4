package usecase

import (
	"context"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
	"slices"

	"github.com/google/uuid"
)

type ToggleLikeUseCase struct {
	repo port.LandmarkRepositoryPort
}

func NewToggleLikeUseCase(repo port.LandmarkRepositoryPort) *ToggleLikeUseCase {
	return &ToggleLikeUseCase{repo: repo}
}

// Execute adds the caller to the liker set, or removes them if already present.
// Owners cannot like their own landmark.
func (uc *ToggleLikeUseCase) Execute(ctx context.Context, identity domain.Identity, landmarkID uuid.UUID) (*domain.LikeState, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "ToggleLike",
		"user_id":     identity.UserID.String(),
		"landmark_id": landmarkID.String(),
	})
	ucLogger.Info("Use case started", nil)

	if identity.IsAnonymous() {
		return nil, domain.ErrUnauthenticated
	}

	landmark, err := uc.repo.FindByID(ctx, landmarkID)
	if err != nil {
		ucLogger.Error("Repository failed to find landmark", err, nil)
		return nil, err
	}
	if landmark == nil {
		return nil, domain.ErrLandmarkNotFound
	}
	if landmark.IsOwner(identity.UserID) {
		ucLogger.Warn("Like refused: caller owns the landmark", nil)
		return nil, domain.ErrOwnAction
	}

	var likes []uuid.UUID
	if landmark.LikedBy(identity.UserID) {
		likes, err = uc.repo.RemoveLike(ctx, landmarkID, identity.UserID)
	} else {
		likes, err = uc.repo.AddLike(ctx, landmarkID, identity.UserID)
	}
	if err != nil {
		ucLogger.Error("Repository failed to toggle like", err, nil)
		return nil, err
	}

	result := &domain.LikeState{
		Liked: slices.Contains(likes, identity.UserID),
		Count: len(likes),
	}
	ucLogger.Info("Use case finished successfully", port.Fields{"liked": result.Liked, "likes": result.Count})
	return result, nil
}
