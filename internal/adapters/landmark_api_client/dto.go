package landmark_api_client

import (
	"landmark-service/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

type landmarkDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Size        string    `json:"size"`
	Place       string    `json:"place"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	Geolocation struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"geolocation"`
	ImgURLs   []string    `json:"imgUrls"`
	Likes     []uuid.UUID `json:"likes"`
	OwnerID   uuid.UUID   `json:"ownerId"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type pageDTO struct {
	Landmarks  []landmarkDTO `json:"landmarks"`
	NextCursor string        `json:"nextCursor"`
	HasMore    bool          `json:"hasMore"`
}

type errorDTO struct {
	Error string `json:"error"`
}

func (d landmarkDTO) toDomain() domain.Landmark {
	return domain.Landmark{
		ID:          d.ID,
		Name:        d.Name,
		Type:        d.Type,
		Size:        domain.Size(d.Size),
		Place:       d.Place,
		Address:     d.Address,
		Description: d.Description,
		Geolocation: domain.Geolocation{Lat: d.Geolocation.Lat, Lng: d.Geolocation.Lng},
		ImgURLs:     d.ImgURLs,
		Likes:       d.Likes,
		OwnerID:     d.OwnerID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
