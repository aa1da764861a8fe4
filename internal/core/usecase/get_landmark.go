package usecase

import (
	"context"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"

	"github.com/google/uuid"
)

type GetLandmarkUseCase struct {
	repo port.LandmarkRepositoryPort
}

func NewGetLandmarkUseCase(repo port.LandmarkRepositoryPort) *GetLandmarkUseCase {
	return &GetLandmarkUseCase{repo: repo}
}

func (uc *GetLandmarkUseCase) Execute(ctx context.Context, landmarkID uuid.UUID) (*domain.Landmark, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "GetLandmark",
		"landmark_id": landmarkID.String(),
	})

	landmark, err := uc.repo.FindByID(ctx, landmarkID)
	if err != nil {
		ucLogger.Error("Repository failed to find landmark", err, nil)
		return nil, err
	}
	if landmark == nil {
		ucLogger.Info("Landmark not found", nil)
		return nil, domain.ErrLandmarkNotFound
	}
	return landmark, nil
}
