package rest

import (
	"landmark-service/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

type GeolocationDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type LandmarkResponse struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	Size        string         `json:"size"`
	Place       string         `json:"place"`
	Address     string         `json:"address"`
	Description string         `json:"description"`
	Geolocation GeolocationDTO `json:"geolocation"`
	ImgURLs     []string       `json:"imgUrls"`
	Likes       []uuid.UUID    `json:"likes"`
	LikesCount  int            `json:"likesCount"`
	OwnerID     uuid.UUID      `json:"ownerId"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type LandmarkPageResponse struct {
	Landmarks  []LandmarkResponse `json:"landmarks"`
	NextCursor string             `json:"nextCursor,omitempty"`
	HasMore    bool               `json:"hasMore"`
}

type HomeResponse struct {
	Small []LandmarkResponse `json:"small"`
	Large []LandmarkResponse `json:"large"`
}

type LikeResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

type FavouriteResponse struct {
	Favourite bool `json:"favourite"`
}

type SignUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetConfirmRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type ProfileResponse struct {
	ID         uuid.UUID   `json:"id"`
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	Favourites []uuid.UUID `json:"favourites"`
	CreatedAt  time.Time   `json:"createdAt"`
}

type UpdateProfileRequest struct {
	Username string `json:"username"`
}

func toLandmarkResponse(l domain.Landmark) LandmarkResponse {
	imgURLs := l.ImgURLs
	if imgURLs == nil {
		imgURLs = []string{}
	}
	likes := l.Likes
	if likes == nil {
		likes = []uuid.UUID{}
	}
	return LandmarkResponse{
		ID:          l.ID,
		Name:        l.Name,
		Type:        l.Type,
		Size:        string(l.Size),
		Place:       l.Place,
		Address:     l.Address,
		Description: l.Description,
		Geolocation: GeolocationDTO{Lat: l.Geolocation.Lat, Lng: l.Geolocation.Lng},
		ImgURLs:     imgURLs,
		Likes:       likes,
		LikesCount:  l.LikesCount(),
		OwnerID:     l.OwnerID,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func toLandmarkResponses(records []domain.Landmark) []LandmarkResponse {
	out := make([]LandmarkResponse, len(records))
	for i, l := range records {
		out[i] = toLandmarkResponse(l)
	}
	return out
}

func toPageResponse(page *domain.LandmarkPage) LandmarkPageResponse {
	resp := LandmarkPageResponse{
		Landmarks: toLandmarkResponses(page.Records),
		HasMore:   page.HasMore,
	}
	if page.Cursor != nil {
		resp.NextCursor = page.Cursor.Encode()
	}
	return resp
}

func toProfileResponse(u *domain.User) ProfileResponse {
	favourites := u.Favourites
	if favourites == nil {
		favourites = []uuid.UUID{}
	}
	return ProfileResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Favourites: favourites,
		CreatedAt:  u.CreatedAt,
	}
}
