package driving

import (
	"context"
	"fmt"

	"github.com/dealdesk-labs/dealdesk-core/internal/core/domain"
)

// GmailAuthService drives the Gmail OAuth token lifecycle: consent URL,
// callback handling, status, transparent refresh, and disconnect.
type GmailAuthService interface {
	// Authorize starts the consent flow. The returned state is stored
	// single-use for CSRF validation during callback.
	Authorize(ctx context.Context) (*AuthorizeResponse, error)

	// Callback handles the provider redirect. It validates state,
	// exchanges the code, encrypts and persists the tokens, and issues
	// a session for the connected account.
	Callback(ctx context.Context, req CallbackRequest) (*CallbackResponse, error)

	// Status reports the connection state for a user. A stored
	// connection whose access token has lapsed reports connected=false
	// with needs_refresh=true.
	Status(ctx context.Context, userID string) (*ConnectionStatus, error)

	// ValidAccessToken returns a decrypted, unexpired access token,
	// refreshing through the provider first when the stored one has
	// lapsed. Pure read when the token is still valid.
	ValidAccessToken(ctx context.Context, userID string) (string, error)

	// Disconnect revokes the live token best-effort and unconditionally
	// clears the stored credential fields.
	Disconnect(ctx context.Context, userID string) error
}

// AuthorizeResponse contains the consent URL and CSRF state.
type AuthorizeResponse struct {
	// AuthorizationURL is the Google consent URL to redirect the user to.
	AuthorizationURL string `json:"auth_url"`

	// State is the CSRF token that will be returned in the callback.
	State string `json:"state"`

	// ExpiresAt is when the authorization state expires.
	ExpiresAt string `json:"expires_at"`
}

// CallbackRequest represents the OAuth callback from the provider.
type CallbackRequest struct {
	// Code is the authorization code from the provider.
	Code string `json:"code"`

	// State is the CSRF token returned by the provider.
	State string `json:"state"`

	// Error is set if the provider returned an error.
	Error string `json:"error,omitempty"`

	// ErrorDescription provides details about the error.
	ErrorDescription string `json:"error_description,omitempty"`
}

// CallbackResponse contains the result of a successful callback.
type CallbackResponse struct {
	// User is the connected account.
	User *domain.UserSummary `json:"user"`

	// Session carries the signed token for subsequent requests.
	Session *domain.LoginResponse `json:"session"`

	// Message provides a human-readable status message.
	Message string `json:"message"`
}

// ConnectionStatus is the caller-facing connection state.
type ConnectionStatus struct {
	Connected    bool    `json:"connected"`
	Email        string  `json:"email"`
	TokenExpiry  *string `json:"token_expiry,omitempty"`
	NeedsRefresh bool    `json:"needs_refresh"`
}

// OAuthError represents a provider-side OAuth failure.
type OAuthError struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *OAuthError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("oauth error: %s - %s", e.Code, e.Description)
	}
	return fmt.Sprintf("oauth error: %s", e.Code)
}
