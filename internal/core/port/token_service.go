package port

import (
	"context"
	"landmark-service/internal/core/domain"
	"time"
)

// TokenServicePort issues and checks signed tokens.
type TokenServicePort interface {
	GenerateToken(ctx context.Context, user *domain.User, purpose string, ttl time.Duration) (string, error)
	ValidateToken(ctx context.Context, tokenString string) (*domain.Claims, error)
}
