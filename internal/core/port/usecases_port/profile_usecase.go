package usecases_port

import (
	"context"
	"landmark-service/internal/core/domain"
)

type GetProfileUseCasePort interface {
	Execute(ctx context.Context, identity domain.Identity) (*domain.User, error)
}

type UpdateProfileUseCasePort interface {
	Execute(ctx context.Context, identity domain.Identity, form domain.ProfileForm) (*domain.User, error)
}
