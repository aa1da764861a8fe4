package usecase

import (
	"context"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
)

// ListUserLandmarksUseCase returns the caller's own landmarks, newest first.
type ListUserLandmarksUseCase struct {
	repo port.LandmarkRepositoryPort
}

func NewListUserLandmarksUseCase(repo port.LandmarkRepositoryPort) *ListUserLandmarksUseCase {
	return &ListUserLandmarksUseCase{repo: repo}
}

func (uc *ListUserLandmarksUseCase) Execute(ctx context.Context, identity domain.Identity) ([]domain.Landmark, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "ListUserLandmarks",
		"user_id":  identity.UserID.String(),
	})
	ucLogger.Info("Use case started", nil)

	if identity.IsAnonymous() {
		return nil, domain.ErrUnauthenticated
	}

	landmarks, err := uc.repo.FindByOwner(ctx, identity.UserID)
	if err != nil {
		ucLogger.Error("Repository failed to find user landmarks", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"count": len(landmarks)})
	return landmarks, nil
}
