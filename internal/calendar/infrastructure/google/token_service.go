package google

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const defaultTokenURL = "https://oauth2.googleapis.com/token"

// OAuthConfig holds the credentials for a single Google account configured
// through the environment.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	TokenURL     string
}

// EnvTokenService issues token sources from a statically configured refresh
// token. It serves single-user deployments where the OAuth dance happened out
// of band; every user ID maps to the same account.
type EnvTokenService struct {
	config OAuthConfig
}

// NewEnvTokenService creates a token service backed by environment credentials.
func NewEnvTokenService(config OAuthConfig) *EnvTokenService {
	if config.TokenURL == "" {
		config.TokenURL = defaultTokenURL
	}
	return &EnvTokenService{config: config}
}

// TokenSource returns a self-refreshing token source for the configured account.
func (s *EnvTokenService) TokenSource(ctx context.Context, _ uuid.UUID) (oauth2.TokenSource, error) {
	oauthConfig := &oauth2.Config{
		ClientID:     s.config.ClientID,
		ClientSecret: s.config.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: s.config.TokenURL},
	}
	token := &oauth2.Token{RefreshToken: s.config.RefreshToken}
	return oauthConfig.TokenSource(ctx, token), nil
}
