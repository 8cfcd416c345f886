package flow

import (
	"context"
	"errors"
	"fmt"

	"tiktok-login/internal/auth"
	"tiktok-login/internal/auth/provider"
	"tiktok-login/internal/auth/state"
	"tiktok-login/internal/logger"
)

// Phase is where a login attempt stands. The path is linear:
// idle -> awaiting_provider_redirect -> exchanging_token -> authenticated,
// and error is reachable from every phase before authenticated.
type Phase string

const (
	PhaseIdle                     Phase = "idle"
	PhaseAwaitingProviderRedirect Phase = "awaiting_provider_redirect"
	PhaseExchangingToken          Phase = "exchanging_token"
	PhaseAuthenticated            Phase = "authenticated"
	PhaseError                    Phase = "error"
)

// Callback carries the query parameters the provider redirects back with.
type Callback struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// IsCallback reports whether the request looks like a provider redirect.
func (c Callback) IsCallback() bool {
	return c.Code != "" || c.State != "" || c.Error != ""
}

// Outcome is the result of one callback. AccessToken and Profile are set only
// in PhaseAuthenticated, Err only in PhaseError.
type Outcome struct {
	Phase       Phase
	AccessToken string
	Profile     *auth.Profile
	Err         error
}

// Idle is what a fresh page load or a logout shows.
func Idle() Outcome {
	return Outcome{Phase: PhaseIdle}
}

func failed(err error) Outcome {
	return Outcome{Phase: PhaseError, Err: err}
}

var (
	errTokenStage   = errors.New("token exchange")
	errProfileStage = errors.New("user info")
)

type Flow struct {
	urls     provider.AuthURLBuilder
	verifier *state.Verifier
	backend  provider.Backend
}

func New(urls provider.AuthURLBuilder, verifier *state.Verifier, backend provider.Backend) *Flow {
	return &Flow{
		urls:     urls,
		verifier: verifier,
		backend:  backend,
	}
}

// Begin moves an attempt from idle to awaiting_provider_redirect and returns
// the URL the browser must be sent to.
func (f *Flow) Begin(ctx context.Context, attemptID string) (string, error) {
	s, err := f.verifier.Begin(ctx, attemptID)
	if err != nil {
		return "", err
	}
	return f.urls.AuthCodeURL(s), nil
}

// Complete handles the provider redirect. The stored state is consumed
// first; on mismatch the code is never sent to the token endpoint.
func (f *Flow) Complete(ctx context.Context, attemptID string, cb Callback) Outcome {
	if err := f.verifier.Check(ctx, attemptID, cb.State); err != nil {
		logger.Warn("oauth state check failed", map[string]any{
			"error":          err.Error(),
			"attempt_exists": attemptID != "",
		})
		return failed(err)
	}

	if cb.Error != "" {
		logger.Warn("oauth callback returned error", map[string]any{
			"error": cb.Error,
			"desc":  cb.ErrorDescription,
		})
		return failed(&auth.ProviderError{
			Code:        cb.Error,
			Description: cb.ErrorDescription,
		})
	}

	if cb.Code == "" {
		return failed(&auth.ProviderError{
			Code:        "missing_code",
			Description: "callback carried no authorization code",
		})
	}

	// exchanging_token
	res, err := f.backend.ExchangeCode(ctx, cb.Code)
	if err != nil {
		return failed(err)
	}
	if res.Err != nil {
		return failed(fmt.Errorf("%w: %w", errTokenStage, res.Err))
	}

	tok, err := auth.DecodeToken(res.Body)
	if err != nil {
		return failed(fmt.Errorf("%w: %v", auth.ErrGateway, err))
	}
	if tok.AccessToken == "" {
		return failed(fmt.Errorf("%w: %w", errTokenStage, &auth.ProviderError{
			Code:        "missing_access_token",
			Description: "token response carried no access_token",
		}))
	}

	res, err = f.backend.UserInfo(ctx, tok.AccessToken)
	if err != nil {
		return failed(err)
	}
	if res.Err != nil {
		return failed(fmt.Errorf("%w: %w", errProfileStage, res.Err))
	}

	profile, err := auth.DecodeProfile(res.Body)
	if err != nil {
		return failed(fmt.Errorf("%w: %v", auth.ErrGateway, err))
	}

	logger.Info("oauth login completed", map[string]any{
		"open_id_present": profile.OpenID != "",
		"expires_in":      tok.ExpiresIn,
	})

	return Outcome{
		Phase:       PhaseAuthenticated,
		AccessToken: tok.AccessToken,
		Profile:     profile,
	}
}

// Logout returns to idle. Nothing is revoked at the provider; only the
// pending attempt, if any, is dropped.
func (f *Flow) Logout(ctx context.Context, attemptID string) Outcome {
	if err := f.verifier.Discard(ctx, attemptID); err != nil {
		logger.Warn("discard login attempt failed", map[string]any{
			"error": err.Error(),
		})
	}
	return Idle()
}

// Message renders an outcome error for the user.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var pe *auth.ProviderError

	switch {
	case errors.Is(err, auth.ErrStateMismatch):
		return "State mismatch - possible CSRF attack. Please sign in again."
	case errors.As(err, &pe):
		if errors.Is(err, errTokenStage) {
			return "Token exchange failed: " + pe.Message()
		}
		if errors.Is(err, errProfileStage) {
			return "Profile fetch failed: " + pe.Message()
		}
		return "Sign-in failed: " + pe.Message()
	case errors.Is(err, auth.ErrGateway):
		return "TikTok could not be reached. Please try again."
	default:
		return "Sign-in failed. Please try again."
	}
}
