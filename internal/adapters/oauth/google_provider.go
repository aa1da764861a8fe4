package oauth_adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const (
	ProviderGoogle     = "google"
	DefaultUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Endpoint and UserInfoURL are overridden in tests.
	Endpoint    *oauth2.Endpoint
	UserInfoURL string
}

// GoogleProvider signs users in with their Google account.
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogleProvider(cfg GoogleConfig) (*GoogleProvider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("google oauth client id and secret are required")
	}
	endpoint := endpoints.Google
	if cfg.Endpoint != nil {
		endpoint = *cfg.Endpoint
	}
	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = DefaultUserInfoURL
	}
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: userInfoURL,
	}, nil
}

func (p *GoogleProvider) Name() string { return ProviderGoogle }

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type userInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*domain.ExternalIdentity, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "GoogleProvider",
		"method":    "Exchange",
	})

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		logger.Warn("Authorization code exchange failed", port.Fields{"error": err.Error()})
		return nil, fmt.Errorf("%w: code exchange failed", domain.ErrInvalidCredentials)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		logger.Error("User info request failed", err, nil)
		return nil, fmt.Errorf("user info request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("user info returned status %d: %s", resp.StatusCode, string(body))
		logger.Error("Received error response from provider", err, nil)
		return nil, err
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	if info.Email == "" || !info.EmailVerified {
		logger.Warn("Provider returned no verified email", port.Fields{"subject": info.Sub})
		return nil, fmt.Errorf("%w: no verified email", domain.ErrInvalidCredentials)
	}

	return &domain.ExternalIdentity{
		Provider: ProviderGoogle,
		Subject:  info.Sub,
		Email:    info.Email,
		Name:     info.Name,
	}, nil
}
