package port

import (
	"context"
	"landmark-service/internal/core/domain"
)

// GeocoderPort resolves a street address. Unknown addresses return domain.ErrAddressNotFound.
type GeocoderPort interface {
	Geocode(ctx context.Context, address string) (domain.Geolocation, error)
}
