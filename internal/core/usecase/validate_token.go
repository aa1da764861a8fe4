package usecase

import (
	"context"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
)

// ValidateTokenUseCase resolves a bearer token into the caller identity.
type ValidateTokenUseCase struct {
	tokenSvc port.TokenServicePort
}

func NewValidateTokenUseCase(tokenSvc port.TokenServicePort) *ValidateTokenUseCase {
	return &ValidateTokenUseCase{tokenSvc: tokenSvc}
}

func (uc *ValidateTokenUseCase) Execute(ctx context.Context, tokenString string) (domain.Identity, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "ValidateToken"})
	ucLogger.Debug("Use case started: validating token", nil)

	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		ucLogger.Warn("Token validation failed", port.Fields{"error": err.Error()})
		return domain.Identity{}, err
	}
	if claims.Purpose != domain.PurposeAccess {
		ucLogger.Warn("Token is not an access token", port.Fields{"purpose": claims.Purpose})
		return domain.Identity{}, domain.ErrTokenInvalid
	}

	ucLogger.Debug("Use case finished: token validated successfully", port.Fields{
		"user_id": claims.UserID.String(),
		"role":    claims.Role,
	})
	return domain.IdentityFromClaims(claims), nil
}
