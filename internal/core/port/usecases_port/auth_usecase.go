package usecases_port

import (
	"context"
	"landmark-service/internal/core/domain"
)

type RegisterUserUseCasePort interface {
	Execute(ctx context.Context, form domain.SignUpForm) (*domain.User, string, error)
}

type LoginUserUseCasePort interface {
	Execute(ctx context.Context, email, password string) (*domain.User, string, error)
}

type ValidateTokenUseCasePort interface {
	Execute(ctx context.Context, tokenString string) (domain.Identity, error)
}

type RequestPasswordResetUseCasePort interface {
	Execute(ctx context.Context, email string) error
}

type ResetPasswordUseCasePort interface {
	Execute(ctx context.Context, resetToken string, form domain.PasswordForm) error
}

type OAuthSignInUseCasePort interface {
	LoginURL(state string) string
	Execute(ctx context.Context, code string) (*domain.User, string, error)
}
