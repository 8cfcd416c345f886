package provider

import (
	"context"

	"tiktok-login/internal/auth"
)

// AuthURLBuilder builds the consent-screen URL for a given state.
type AuthURLBuilder interface {
	AuthCodeURL(state string) string
}

// Backend performs the two provider calls of the login. Both methods return
// the provider payload untouched in auth.Result; a non-nil error is a
// transport failure wrapping auth.ErrGateway.
type Backend interface {
	// ExchangeCode trades a one-time authorization code for a token.
	// Implementations must not call the provider more than once per call.
	ExchangeCode(ctx context.Context, code string) (*auth.Result, error)

	// UserInfo fetches the profile the access token belongs to.
	UserInfo(ctx context.Context, accessToken string) (*auth.Result, error)
}
