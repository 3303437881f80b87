package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the user lacks permission for this action
	ErrForbidden = errors.New("forbidden")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrSessionNotFound indicates the session does not exist
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidCredentials indicates wrong email/password combination
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrOAuthExchange indicates the provider rejected the authorization
	// code exchange. Codes are single-use; the flow must be restarted.
	ErrOAuthExchange = errors.New("oauth code exchange failed")

	// ErrOAuthState indicates the callback state was missing, expired,
	// or already consumed
	ErrOAuthState = errors.New("invalid oauth state")

	// ErrNoRefreshToken indicates the stored credentials hold no refresh
	// token, so an expired access token cannot be recovered without a
	// new consent flow
	ErrNoRefreshToken = errors.New("no refresh token available")

	// ErrRefreshFailed indicates the provider refused the refresh grant
	// (revoked consent, network failure). The stored connected flag is
	// left as-is; the caller decides whether to re-prompt for consent.
	ErrRefreshFailed = errors.New("token refresh failed")

	// ErrNotConnected indicates the user has no Gmail connection on record
	ErrNotConnected = errors.New("gmail not connected")
)
