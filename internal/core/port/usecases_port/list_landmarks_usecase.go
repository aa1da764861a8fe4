package usecases_port

import (
	"context"
	"landmark-service/internal/core/domain"
)

type ListLandmarksUseCasePort interface {
	Execute(ctx context.Context, req domain.PageRequest) (*domain.LandmarkPage, error)
}

type GetHomeLandmarksUseCasePort interface {
	Execute(ctx context.Context) (*domain.HomeLandmarks, error)
}
