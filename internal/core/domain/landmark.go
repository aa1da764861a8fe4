package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Size is the size classification of a landmark. It is also the category used by
// the category listings.
type Size string

const (
	SizeSmall Size = "small"
	SizeLarge Size = "large"
)

// Valid reports whether s is one of the known sizes.
func (s Size) Valid() bool {
	return s == SizeSmall || s == SizeLarge
}

// ParseSize converts a raw category value into a Size.
func ParseSize(raw string) (Size, error) {
	s := Size(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown size %q", ErrValidation, raw)
	}
	return s, nil
}

// Geolocation is a point in WGS84 degrees.
type Geolocation struct {
	Lat float64
	Lng float64
}

// Landmark is the persisted landmark record.
type Landmark struct {
	ID          uuid.UUID
	Name        string
	Type        string
	Size        Size
	Place       string
	Address     string
	Description string
	Geolocation Geolocation
	Geohash     string
	ImgURLs     []string    // first one is the cover image
	Likes       []uuid.UUID // each user at most once
	OwnerID     uuid.UUID
	CreatedAt   time.Time // set once by the store
	UpdatedAt   time.Time
}

// IsOwner reports whether userID created the landmark.
func (l *Landmark) IsOwner(userID uuid.UUID) bool {
	return userID != uuid.Nil && l.OwnerID == userID
}

// LikedBy reports whether userID is in the liker set.
func (l *Landmark) LikedBy(userID uuid.UUID) bool {
	return slices.Contains(l.Likes, userID)
}

func (l *Landmark) LikesCount() int {
	return len(l.Likes)
}

// CoverImage returns the first image url or an empty string.
func (l *Landmark) CoverImage() string {
	if len(l.ImgURLs) == 0 {
		return ""
	}
	return l.ImgURLs[0]
}

// LikeState is the caller's view of a liker set after a toggle.
type LikeState struct {
	Liked bool
	Count int
}
