package session

import (
	"context"
	"time"
)

// Attempt is one in-flight login. It holds the anti-CSRF state between the
// redirect to the provider and the callback, and nothing else.
type Attempt struct {
	ID        string    // opaque id carried in the attempt cookie
	State     string    // value sent to the provider
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store keeps login attempts until the callback takes them.
// Save on an existing id overwrites it.
type Store interface {
	Save(ctx context.Context, a Attempt) error
	// Take returns the attempt and removes it. A missing or expired
	// attempt yields (nil, nil).
	Take(ctx context.Context, id string) (*Attempt, error)
	Delete(ctx context.Context, id string) error
}
