package port

import (
	"context"
	"landmark-service/internal/core/domain"
)

// OAuthProviderPort is an external identity provider.
type OAuthProviderPort interface {
	Name() string
	AuthCodeURL(state string) string
	// Exchange trades an authorization code for the user's identity.
	Exchange(ctx context.Context, code string) (*domain.ExternalIdentity, error)
}
