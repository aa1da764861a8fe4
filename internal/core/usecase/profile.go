package usecase

import (
	"context"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
	"strings"
)

type GetProfileUseCase struct {
	userRepo port.UserRepositoryPort
}

func NewGetProfileUseCase(userRepo port.UserRepositoryPort) *GetProfileUseCase {
	return &GetProfileUseCase{userRepo: userRepo}
}

func (uc *GetProfileUseCase) Execute(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	if identity.IsAnonymous() {
		return nil, domain.ErrUnauthenticated
	}
	user, err := uc.userRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Repository failed to find user", err, port.Fields{
			"use_case": "GetProfile",
			"user_id":  identity.UserID.String(),
		})
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

type UpdateProfileUseCase struct {
	userRepo port.UserRepositoryPort
}

func NewUpdateProfileUseCase(userRepo port.UserRepositoryPort) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{userRepo: userRepo}
}

// Execute changes the caller's username.
func (uc *UpdateProfileUseCase) Execute(ctx context.Context, identity domain.Identity, form domain.ProfileForm) (*domain.User, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "UpdateProfile",
		"user_id":  identity.UserID.String(),
	})
	ucLogger.Info("Use case started", nil)

	if identity.IsAnonymous() {
		return nil, domain.ErrUnauthenticated
	}

	form.Username = strings.TrimSpace(form.Username)
	if err := form.Validate(); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		ucLogger.Error("Repository failed to find user", err, nil)
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if user.Username != form.Username {
		if err := uc.userRepo.UpdateUsername(ctx, user.ID, form.Username); err != nil {
			ucLogger.Error("Repository failed to update username", err, nil)
			return nil, err
		}
		user.Username = form.Username
	}

	ucLogger.Info("Use case finished successfully", nil)
	return user, nil
}
