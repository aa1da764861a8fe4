package usecase

import (
	"context"
	"errors"
	"fmt"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
	"time"
)

// OAuthSignInUseCase signs a user in through an external provider and makes sure a
// profile exists for them.
type OAuthSignInUseCase struct {
	provider       port.OAuthProviderPort
	userRepo       port.UserRepositoryPort
	tokenSvc       port.TokenServicePort
	accessTokenTTL time.Duration
}

func NewOAuthSignInUseCase(
	provider port.OAuthProviderPort,
	userRepo port.UserRepositoryPort,
	tokenSvc port.TokenServicePort,
	accessTokenTTL time.Duration,
) *OAuthSignInUseCase {
	return &OAuthSignInUseCase{
		provider:       provider,
		userRepo:       userRepo,
		tokenSvc:       tokenSvc,
		accessTokenTTL: accessTokenTTL,
	}
}

// LoginURL is where the browser is sent to start the flow.
func (uc *OAuthSignInUseCase) LoginURL(state string) string {
	return uc.provider.AuthCodeURL(state)
}

func (uc *OAuthSignInUseCase) Execute(ctx context.Context, code string) (*domain.User, string, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "OAuthSignIn",
		"provider": uc.provider.Name(),
	})
	ucLogger.Info("Use case started", nil)

	ext, err := uc.provider.Exchange(ctx, code)
	if err != nil {
		ucLogger.Warn("Provider exchange failed", port.Fields{"error": err.Error()})
		return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}
	if ext.Email == "" {
		return nil, "", fmt.Errorf("%w: provider returned no email", domain.ErrInvalidCredentials)
	}

	user, err := uc.EnsureProfile(ctx, *ext)
	if err != nil {
		ucLogger.Error("Failed to ensure user profile", err, nil)
		return nil, "", err
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, user, domain.PurposeAccess, uc.accessTokenTTL)
	if err != nil {
		ucLogger.Error("Failed to generate token", err, nil)
		return nil, "", err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"user_id": user.ID.String()})
	return user, token, nil
}

// EnsureProfile returns the profile with ext's email, creating it the first time.
func (uc *OAuthSignInUseCase) EnsureProfile(ctx context.Context, ext domain.ExternalIdentity) (*domain.User, error) {
	email := domain.NormalizeEmail(ext.Email)
	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = domain.NewExternalUser(ext)
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if !errors.Is(err, domain.ErrEmailInUse) {
			return nil, err
		}
		// created concurrently by another callback
		existing, findErr := uc.userRepo.FindByEmail(ctx, email)
		if findErr != nil || existing == nil {
			return nil, err
		}
		return existing, nil
	}

	contextkeys.LoggerFromContext(ctx).Info("Created profile for external user", port.Fields{
		"user_id":  user.ID.String(),
		"provider": ext.Provider,
	})
	return user, nil
}
