package port

import (
	"context"
	"landmark-service/internal/core/domain"
)

// LandmarkPageFetcherPort is what a listing session reads pages from. Both the
// store-backed use case and the HTTP client of the CLI satisfy it.
type LandmarkPageFetcherPort interface {
	FetchPage(ctx context.Context, req domain.PageRequest) (*domain.LandmarkPage, error)
}
