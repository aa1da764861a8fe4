package usecase

import (
	"context"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
)

// ListLandmarksUseCase is the query builder of the listing pipeline: it turns a page
// request into one store query with the fixed newest-first order.
type ListLandmarksUseCase struct {
	repo port.LandmarkRepositoryPort
}

func NewListLandmarksUseCase(repo port.LandmarkRepositoryPort) *ListLandmarksUseCase {
	return &ListLandmarksUseCase{repo: repo}
}

func (uc *ListLandmarksUseCase) Execute(ctx context.Context, req domain.PageRequest) (*domain.LandmarkPage, error) {
	req = req.Normalize()

	fields := port.Fields{
		"use_case": "ListLandmarks",
		"limit":    req.Limit,
	}
	if req.Size != nil {
		fields["size"] = string(*req.Size)
	}
	if req.Cursor != nil {
		fields["cursor_id"] = req.Cursor.ID.String()
	}
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(fields)
	ucLogger.Debug("Use case started", nil)

	if req.Size != nil && !req.Size.Valid() {
		ucLogger.Warn("Rejected page request with unknown size", nil)
		_, err := domain.ParseSize(string(*req.Size))
		return nil, err
	}

	page, err := uc.repo.FindPage(ctx, req)
	if err != nil {
		ucLogger.Error("Repository failed to fetch landmark page", err, nil)
		return nil, err
	}

	ucLogger.Debug("Use case finished successfully", port.Fields{
		"count":    len(page.Records),
		"has_more": page.HasMore,
	})
	return page, nil
}

// FetchPage lets the use case back a ListingSession directly.
func (uc *ListLandmarksUseCase) FetchPage(ctx context.Context, req domain.PageRequest) (*domain.LandmarkPage, error) {
	return uc.Execute(ctx, req)
}
