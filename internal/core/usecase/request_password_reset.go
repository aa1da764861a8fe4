package usecase

import (
	"context"
	"fmt"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
	"time"
)

// RequestPasswordResetUseCase issues a short-lived reset token and hands it to the mailer
// through an event. Unknown addresses succeed silently.
type RequestPasswordResetUseCase struct {
	userRepo  port.UserRepositoryPort
	tokenSvc  port.TokenServicePort
	publisher port.EventPublisherPort
	resetTTL  time.Duration
}

func NewRequestPasswordResetUseCase(
	userRepo port.UserRepositoryPort,
	tokenSvc port.TokenServicePort,
	publisher port.EventPublisherPort,
	resetTTL time.Duration,
) *RequestPasswordResetUseCase {
	return &RequestPasswordResetUseCase{
		userRepo:  userRepo,
		tokenSvc:  tokenSvc,
		publisher: publisher,
		resetTTL:  resetTTL,
	}
}

func (uc *RequestPasswordResetUseCase) Execute(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "RequestPasswordReset",
		"email":    email,
	})
	ucLogger.Info("Use case started", nil)

	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		ucLogger.Error("Repository failed to find user by email", err, nil)
		return fmt.Errorf("internal server error: %w", err)
	}
	if user == nil {
		ucLogger.Warn("Password reset requested for unknown email", nil)
		return nil
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, user, domain.PurposePasswordReset, uc.resetTTL)
	if err != nil {
		ucLogger.Error("Failed to generate reset token", err, nil)
		return err
	}

	event := domain.PasswordResetRequested{
		UserID:     user.ID,
		Email:      user.Email,
		ResetToken: token,
		ExpiresAt:  time.Now().UTC().Add(uc.resetTTL),
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		ucLogger.Error("Failed to publish password reset event", err, nil)
		return err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"user_id": user.ID.String()})
	return nil
}
