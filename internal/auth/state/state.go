package state

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"tiktok-login/internal/auth"
	"tiktok-login/internal/session"
	"tiktok-login/internal/utils"
)

// 256 bits, well above the 128-bit floor for an unguessable nonce.
const stateBytes = 32

// Generate returns a fresh anti-CSRF state value.
func Generate() (string, error) {
	s, err := utils.RandomString(stateBytes)
	if err != nil {
		return "", fmt.Errorf("state: generate: %w", err)
	}
	return s, nil
}

// Verify compares the state returned by the provider with the stored one.
// An empty value on either side never matches.
func Verify(returned string, stored string) error {
	if returned == "" || stored == "" {
		return auth.ErrStateMismatch
	}
	if subtle.ConstantTimeCompare([]byte(returned), []byte(stored)) != 1 {
		return auth.ErrStateMismatch
	}
	return nil
}

// Verifier binds generated states to login attempts through a session.Store.
type Verifier struct {
	store session.Store
	ttl   time.Duration
	now   func() time.Time
}

func NewVerifier(store session.Store, ttl time.Duration) *Verifier {
	return &Verifier{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Begin generates a state for attemptID and stores it, replacing any earlier
// state of the same attempt.
func (v *Verifier) Begin(ctx context.Context, attemptID string) (string, error) {
	s, err := Generate()
	if err != nil {
		return "", err
	}

	now := v.now()
	err = v.store.Save(ctx, session.Attempt{
		ID:        attemptID,
		State:     s,
		CreatedAt: now,
		ExpiresAt: now.Add(v.ttl),
	})
	if err != nil {
		return "", fmt.Errorf("state: store: %w", err)
	}

	return s, nil
}

// Check consumes the stored state for attemptID and compares it with
// returned. The stored state is gone afterwards whatever the outcome.
func (v *Verifier) Check(ctx context.Context, attemptID string, returned string) error {
	if attemptID == "" {
		return auth.ErrStateMismatch
	}

	a, err := v.store.Take(ctx, attemptID)
	if err != nil {
		return fmt.Errorf("state: load: %w", err)
	}
	if a == nil {
		return auth.ErrStateMismatch
	}

	return Verify(returned, a.State)
}

// Discard drops a pending attempt, e.g. on logout.
func (v *Verifier) Discard(ctx context.Context, attemptID string) error {
	if attemptID == "" {
		return nil
	}
	return v.store.Delete(ctx, attemptID)
}
