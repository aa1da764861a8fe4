package port

import (
	"context"
	"landmark-service/internal/core/domain"

	"github.com/google/uuid"
)

// UserRepositoryPort stores user profiles. Find methods return nil, nil when nothing matches.
type UserRepositoryPort interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateUsername(ctx context.Context, id uuid.UUID, username string) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}
