package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event types published to the landmarks exchange. The type doubles as the routing key.
const (
	EventLandmarkCreated        = "landmark.created"
	EventLandmarkUpdated        = "landmark.updated"
	EventLandmarkDeleted        = "landmark.deleted"
	EventPasswordResetRequested = "user.password_reset_requested"

	EventVersion = 1
)

// Event is anything the service announces after a state change.
type Event interface {
	EventType() string
}

type LandmarkCreated struct {
	LandmarkID uuid.UUID `json:"landmarkId"`
	OwnerID    uuid.UUID `json:"ownerId"`
	Name       string    `json:"name"`
	Size       Size      `json:"size"`
	Type       string    `json:"type"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (LandmarkCreated) EventType() string { return EventLandmarkCreated }

type LandmarkUpdated struct {
	LandmarkID uuid.UUID `json:"landmarkId"`
	OwnerID    uuid.UUID `json:"ownerId"`
	Name       string    `json:"name"`
	Size       Size      `json:"size"`
	Type       string    `json:"type"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (LandmarkUpdated) EventType() string { return EventLandmarkUpdated }

type LandmarkDeleted struct {
	LandmarkID uuid.UUID `json:"landmarkId"`
	OwnerID    uuid.UUID `json:"ownerId"`
	DeletedAt  time.Time `json:"deletedAt"`
}

func (LandmarkDeleted) EventType() string { return EventLandmarkDeleted }

// PasswordResetRequested is consumed by the mailer, which sends ResetToken to Email.
type PasswordResetRequested struct {
	UserID     uuid.UUID `json:"userId"`
	Email      string    `json:"email"`
	ResetToken string    `json:"resetToken"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

func (PasswordResetRequested) EventType() string { return EventPasswordResetRequested }

func NewLandmarkCreated(l *Landmark) LandmarkCreated {
	return LandmarkCreated{
		LandmarkID: l.ID,
		OwnerID:    l.OwnerID,
		Name:       l.Name,
		Size:       l.Size,
		Type:       l.Type,
		CreatedAt:  l.CreatedAt,
	}
}

func NewLandmarkUpdated(l *Landmark) LandmarkUpdated {
	return LandmarkUpdated{
		LandmarkID: l.ID,
		OwnerID:    l.OwnerID,
		Name:       l.Name,
		Size:       l.Size,
		Type:       l.Type,
		UpdatedAt:  l.UpdatedAt,
	}
}
