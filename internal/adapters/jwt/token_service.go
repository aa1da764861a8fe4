package token_adapter

import (
	"context"
	"errors"
	"fmt"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "landmark-service"

// TokenService signs and checks HS256 tokens.
type TokenService struct {
	signingKey []byte
	now        func() time.Time
}

func NewTokenService(signingKey string) (*TokenService, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("JWT signing key cannot be empty")
	}
	return &TokenService{signingKey: []byte(signingKey), now: time.Now}, nil
}

type jwtCustomClaims struct {
	UserID  uuid.UUID `json:"user_id"`
	Email   string    `json:"email"`
	Role    string    `json:"role"`
	Purpose string    `json:"purpose"`
	jwt.RegisteredClaims
}

func (s *TokenService) GenerateToken(ctx context.Context, user *domain.User, purpose string, ttl time.Duration) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "TokenService",
		"method":    "GenerateToken",
		"user_id":   user.ID.String(),
		"purpose":   purpose,
	})

	now := s.now()
	claims := &jwtCustomClaims{
		UserID:  user.ID,
		Email:   user.Email,
		Role:    user.Role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   user.ID.String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		logger.Error("Failed to sign token", err, nil)
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	logger.Debug("Token generated", port.Fields{"ttl": ttl.String()})
	return signed, nil
}

func (s *TokenService) ValidateToken(ctx context.Context, tokenString string) (*domain.Claims, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "TokenService",
		"method":    "ValidateToken",
	})

	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Warn("Token has expired", nil)
		} else {
			logger.Warn("Invalid token format or signature", port.Fields{"error": err.Error()})
		}
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		logger.Error("Token was parsed without error, but claims are unusable", nil, nil)
		return nil, domain.ErrTokenInvalid
	}

	return &domain.Claims{
		UserID:  claims.UserID,
		Email:   claims.Email,
		Role:    claims.Role,
		Purpose: claims.Purpose,
	}, nil
}
