package usecase

import (
	"context"
	"fmt"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
	"strings"
	"time"
)

type RegisterUserUseCase struct {
	userRepo       port.UserRepositoryPort
	tokenSvc       port.TokenServicePort
	accessTokenTTL time.Duration
}

func NewRegisterUserUseCase(userRepo port.UserRepositoryPort, tokenSvc port.TokenServicePort, accessTokenTTL time.Duration) *RegisterUserUseCase {
	return &RegisterUserUseCase{
		userRepo:       userRepo,
		tokenSvc:       tokenSvc,
		accessTokenTTL: accessTokenTTL,
	}
}

func (uc *RegisterUserUseCase) Execute(ctx context.Context, form domain.SignUpForm) (*domain.User, string, error) {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = domain.NormalizeEmail(form.Email)

	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "RegisterUser",
		"email":    form.Email,
	})
	ucLogger.Info("Use case started: attempting to register user", nil)

	if err := form.Validate(); err != nil {
		ucLogger.Warn("Registration form is invalid", port.Fields{"error": err.Error()})
		return nil, "", err
	}

	existingUser, err := uc.userRepo.FindByEmail(ctx, form.Email)
	if err != nil {
		ucLogger.Error("Repository failed while checking for existing email", err, nil)
		return nil, "", fmt.Errorf("internal server error: %w", err)
	}
	if existingUser != nil {
		ucLogger.Warn("Registration failed: email already in use", nil)
		return nil, "", domain.ErrEmailInUse
	}

	user, err := domain.NewUser(form.Username, form.Email, form.Password)
	if err != nil {
		ucLogger.Error("Failed to create new user domain object", err, nil)
		return nil, "", err
	}
	ucLogger = ucLogger.WithFields(port.Fields{"user_id": user.ID.String()})

	if err := uc.userRepo.Create(ctx, user); err != nil {
		ucLogger.Error("Repository failed to create user", err, nil)
		return nil, "", err
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, user, domain.PurposeAccess, uc.accessTokenTTL)
	if err != nil {
		ucLogger.Error("Failed to generate token after successful registration", err, nil)
		return nil, "", err
	}

	ucLogger.Info("Use case finished: user registered successfully", nil)
	return user, token, nil
}
