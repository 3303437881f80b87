package driven

import "context"

// OAuthToken is the validated provider response from a code exchange or
// refresh. AccessToken is always present; everything else is optional
// depending on grant and prompt parameters.
type OAuthToken struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scope        string

	// ExpiresIn is the token lifetime in seconds, 0 when omitted.
	ExpiresIn int
}

// OAuthUserInfo identifies the Google account that granted consent.
type OAuthUserInfo struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

// GoogleOAuth drives the three-legged OAuth flow against Google.
// Client credentials and the redirect URI are fixed per adapter
// instance; no per-call mutable state is shared between requests.
type GoogleOAuth interface {
	// BuildAuthURL constructs the consent URL for the given CSRF state.
	// Requests offline access with a forced consent prompt so a refresh
	// token is issued even for returning users.
	BuildAuthURL(state string) string

	// ExchangeCode exchanges an authorization code for tokens.
	ExchangeCode(ctx context.Context, code string) (*OAuthToken, error)

	// RefreshToken obtains a new access token from a refresh token.
	RefreshToken(ctx context.Context, refreshToken string) (*OAuthToken, error)

	// RevokeToken revokes an access or refresh token at the provider.
	RevokeToken(ctx context.Context, token string) error

	// GetUserInfo fetches the email identity of the token's account.
	GetUserInfo(ctx context.Context, accessToken string) (*OAuthUserInfo, error)
}
