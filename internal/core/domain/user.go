package domain

import "time"

// Token lifetime defaults, in seconds.
const (
	// DefaultTokenLifetime is assumed when the provider omits expires_in.
	DefaultTokenLifetime = 3600

	// MinTokenLifetime is the floor applied when deriving a lifetime from
	// a provider-supplied absolute expiry. Guards against storing a token
	// already dead from clock skew or a slow exchange round trip.
	MinTokenLifetime = 300
)

// User represents an account holder. The encryption key and token fields
// form the Gmail credential projection: the key is created lazily on first
// connect and never rotated, and the token columns hold cipher envelopes,
// never plaintext.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"` // Never serialize

	// Gmail credential fields
	EncryptionKey         string     `json:"-"` // 64-char lowercase hex, never serialize
	EncryptedAccessToken  *string    `json:"-"` // Never serialize
	EncryptedRefreshToken *string    `json:"-"` // Never serialize
	TokenExpiry           *time.Time `json:"token_expiry,omitempty"`
	GmailConnected        bool       `json:"gmail_connected"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// IsTokenExpired reports whether an access-token expiry has passed.
// A nil expiry is treated as already expired. The comparison is strictly
// after: an expiry equal to now is still valid.
func IsTokenExpired(expiry *time.Time) bool {
	if expiry == nil {
		return true
	}
	return time.Now().After(*expiry)
}

// CalculateTokenExpiry converts a provider expires_in value into an
// absolute expiry. Non-positive values fall back to DefaultTokenLifetime.
func CalculateTokenExpiry(expiresIn int) time.Time {
	if expiresIn <= 0 {
		expiresIn = DefaultTokenLifetime
	}
	return time.Now().Add(time.Duration(expiresIn) * time.Second)
}

// TokenExpired reports whether the stored access token has expired.
func (u *User) TokenExpired() bool {
	return IsTokenExpired(u.TokenExpiry)
}

// NeedsRefresh reports whether the row still holds a connection whose
// access token has lapsed. Recovery is possible via the refresh token
// without a full re-consent.
func (u *User) NeedsRefresh() bool {
	return u.GmailConnected && u.TokenExpired()
}

// UserSummary provides a safe view of user data (no password hash or
// credential material)
type UserSummary struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	GmailConnected bool       `json:"gmail_connected"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
}

// ToSummary converts a User to UserSummary
func (u *User) ToSummary() *UserSummary {
	return &UserSummary{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		GmailConnected: u.GmailConnected,
		LastLoginAt:    u.LastLoginAt,
	}
}
