package driven

import (
	"context"
	"time"

	"github.com/dealdesk-labs/dealdesk-core/internal/core/domain"
)

// TokenUpdate carries the encrypted Gmail credential fields persisted
// after a successful code exchange or refresh. The store writes all
// fields plus connected=true in a single statement; partial updates are
// never observable.
type TokenUpdate struct {
	// EncryptedAccessToken is the cipher envelope for the access token.
	EncryptedAccessToken string

	// EncryptedRefreshToken is the cipher envelope for the refresh
	// token, nil when the provider did not grant one (re-consent
	// without prompt=consent).
	EncryptedRefreshToken *string

	// TokenExpiry is the absolute access-token expiry.
	TokenExpiry time.Time
}

// UserStore handles user persistence (PostgreSQL)
type UserStore interface {
	// Save creates or updates a user
	Save(ctx context.Context, user *domain.User) error

	// Get retrieves a user by ID
	Get(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// SetEncryptionKey persists the per-user encryption key. Must be
	// committed before any ciphertext encrypted under it is stored.
	SetEncryptionKey(ctx context.Context, id, keyHex string) error

	// UpdateTokens stores encrypted tokens, expiry, and connected=true
	// as one atomic update
	UpdateTokens(ctx context.Context, id string, update TokenUpdate) error

	// ClearTokens nulls both ciphertexts and the expiry and sets
	// connected=false as one atomic update
	ClearTokens(ctx context.Context, id string) error

	// UpdateLastLogin updates the last login timestamp
	UpdateLastLogin(ctx context.Context, id string) error
}
