package driven

import (
	"context"
	"time"
)

// OAuthState represents a pending Gmail authorization flow.
// Used for CSRF protection; states are single-use and short-lived.
type OAuthState struct {
	// State is a cryptographically random string used for CSRF protection.
	State string

	// RedirectURI is the callback URL the consent URL was built with.
	RedirectURI string

	// CreatedAt is when the state was created.
	CreatedAt time.Time

	// ExpiresAt is when the state expires (typically 10 minutes).
	ExpiresAt time.Time
}

// OAuthStateStore manages OAuth flow state for CSRF protection.
type OAuthStateStore interface {
	// Save stores a new OAuth state.
	Save(ctx context.Context, state *OAuthState) error

	// GetAndDelete atomically retrieves and deletes the state.
	// This ensures single-use semantics.
	// Returns nil, nil if the state doesn't exist or has expired.
	GetAndDelete(ctx context.Context, state string) (*OAuthState, error)

	// Cleanup removes expired states.
	Cleanup(ctx context.Context) error
}
