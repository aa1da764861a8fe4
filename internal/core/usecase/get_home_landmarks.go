package usecase

import (
	"context"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"

	"golang.org/x/sync/errgroup"
)

// GetHomeLandmarksUseCase loads the newest small and large landmarks side by side.
type GetHomeLandmarksUseCase struct {
	pages port.LandmarkPageFetcherPort
}

func NewGetHomeLandmarksUseCase(pages port.LandmarkPageFetcherPort) *GetHomeLandmarksUseCase {
	return &GetHomeLandmarksUseCase{pages: pages}
}

func (uc *GetHomeLandmarksUseCase) Execute(ctx context.Context) (*domain.HomeLandmarks, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "GetHomeLandmarks"})
	ucLogger.Info("Use case started", nil)

	var small, large *domain.LandmarkPage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		small, err = uc.fetch(gctx, domain.SizeSmall)
		return err
	})
	g.Go(func() error {
		var err error
		large, err = uc.fetch(gctx, domain.SizeLarge)
		return err
	})
	if err := g.Wait(); err != nil {
		ucLogger.Error("Failed to load home landmarks", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"small": len(small.Records),
		"large": len(large.Records),
	})
	return &domain.HomeLandmarks{Small: small.Records, Large: large.Records}, nil
}

func (uc *GetHomeLandmarksUseCase) fetch(ctx context.Context, size domain.Size) (*domain.LandmarkPage, error) {
	return uc.pages.FetchPage(ctx, domain.PageRequest{Size: &size, Limit: domain.HomePageSize})
}
