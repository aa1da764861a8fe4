package usecase

import (
	"context"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
)

type ResetPasswordUseCase struct {
	userRepo port.UserRepositoryPort
	tokenSvc port.TokenServicePort
}

func NewResetPasswordUseCase(userRepo port.UserRepositoryPort, tokenSvc port.TokenServicePort) *ResetPasswordUseCase {
	return &ResetPasswordUseCase{userRepo: userRepo, tokenSvc: tokenSvc}
}

func (uc *ResetPasswordUseCase) Execute(ctx context.Context, resetToken string, form domain.PasswordForm) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "ResetPassword"})
	ucLogger.Info("Use case started", nil)

	if err := form.Validate(); err != nil {
		return err
	}

	claims, err := uc.tokenSvc.ValidateToken(ctx, resetToken)
	if err != nil {
		ucLogger.Warn("Reset token rejected", port.Fields{"error": err.Error()})
		return err
	}
	if claims.Purpose != domain.PurposePasswordReset {
		ucLogger.Warn("Token is not a reset token", port.Fields{"purpose": claims.Purpose})
		return domain.ErrTokenInvalid
	}

	ucLogger = ucLogger.WithFields(port.Fields{"user_id": claims.UserID.String()})

	user, err := uc.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		ucLogger.Error("Repository failed to find user", err, nil)
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	if err := user.SetPassword(form.Password); err != nil {
		ucLogger.Error("Failed to hash new password", err, nil)
		return err
	}
	if err := uc.userRepo.UpdatePasswordHash(ctx, user.ID, user.PasswordHash); err != nil {
		ucLogger.Error("Repository failed to store new password", err, nil)
		return err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
