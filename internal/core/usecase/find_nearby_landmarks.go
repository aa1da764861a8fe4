package usecase

import (
	"context"
	"fmt"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
	"math"
	"slices"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
)

const (
	defaultNearbyLimit = 20
	nearbyCellChars    = 5 // roughly 5 km cells
	earthRadiusKm      = 6371.0
)

// FindNearbyLandmarksUseCase serves the map. It asks the search index when one is
// configured and falls back to geohash cells in the store otherwise.
type FindNearbyLandmarksUseCase struct {
	repo  port.LandmarkRepositoryPort
	index port.NearbyIndexPort // may be nil
}

func NewFindNearbyLandmarksUseCase(repo port.LandmarkRepositoryPort, index port.NearbyIndexPort) *FindNearbyLandmarksUseCase {
	return &FindNearbyLandmarksUseCase{repo: repo, index: index}
}

func (uc *FindNearbyLandmarksUseCase) Execute(ctx context.Context, point domain.Geolocation, limit int) ([]domain.Landmark, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "FindNearbyLandmarks",
		"lat":      point.Lat,
		"lng":      point.Lng,
	})
	ucLogger.Info("Use case started", nil)

	if point.Lat < -90 || point.Lat > 90 || point.Lng < -180 || point.Lng > 180 {
		return nil, fmt.Errorf("%w: coordinates out of range", domain.ErrValidation)
	}
	if limit <= 0 {
		limit = defaultNearbyLimit
	}
	limit = min(limit, domain.MaxPageSize)

	if uc.index != nil {
		landmarks, err := uc.fromIndex(ctx, point, limit)
		if err == nil {
			ucLogger.Info("Use case finished successfully", port.Fields{"source": "index", "count": len(landmarks)})
			return landmarks, nil
		}
		ucLogger.Warn("Search index failed, falling back to geohash cells", port.Fields{"error": err.Error()})
	}

	landmarks, err := uc.fromGeohash(ctx, point, limit)
	if err != nil {
		ucLogger.Error("Repository failed to find nearby landmarks", err, nil)
		return nil, err
	}
	ucLogger.Info("Use case finished successfully", port.Fields{"source": "geohash", "count": len(landmarks)})
	return landmarks, nil
}

func (uc *FindNearbyLandmarksUseCase) fromIndex(ctx context.Context, point domain.Geolocation, limit int) ([]domain.Landmark, error) {
	ids, err := uc.index.Nearby(ctx, point, limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Landmark{}, nil
	}
	found, err := uc.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return orderByIDs(found, ids), nil
}

func (uc *FindNearbyLandmarksUseCase) fromGeohash(ctx context.Context, point domain.Geolocation, limit int) ([]domain.Landmark, error) {
	cell := geohash.EncodeWithPrecision(point.Lat, point.Lng, nearbyCellChars)
	prefixes := append([]string{cell}, geohash.Neighbors(cell)...)

	found, err := uc.repo.FindByGeohashPrefixes(ctx, prefixes, limit*2)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(found, func(a, b domain.Landmark) int {
		da, db := distanceKm(point, a.Geolocation), distanceKm(point, b.Geolocation)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})
	if len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

// orderByIDs returns the landmarks in the order of ids, skipping ids that were not found.
func orderByIDs(landmarks []domain.Landmark, ids []uuid.UUID) []domain.Landmark {
	byID := make(map[uuid.UUID]domain.Landmark, len(landmarks))
	for _, l := range landmarks {
		byID[l.ID] = l
	}
	ordered := make([]domain.Landmark, 0, len(ids))
	for _, id := range ids {
		if l, ok := byID[id]; ok {
			ordered = append(ordered, l)
		}
	}
	return ordered
}

// distanceKm is the haversine distance.
func distanceKm(a, b domain.Geolocation) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
