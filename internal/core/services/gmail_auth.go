package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/dealdesk-labs/dealdesk-core/internal/core/domain"
	"github.com/dealdesk-labs/dealdesk-core/internal/core/ports/driven"
	"github.com/dealdesk-labs/dealdesk-core/internal/core/ports/driving"
	"github.com/dealdesk-labs/dealdesk-core/internal/secrets"
)

// Ensure gmailAuthService implements GmailAuthService
var _ driving.GmailAuthService = (*gmailAuthService)(nil)

// oauthStateTTL bounds how long a consent URL stays redeemable.
const oauthStateTTL = 10 * time.Minute

// refreshLockTTL bounds the per-user refresh lock. Longer than any
// reasonable provider round trip, short enough to self-heal on crash.
const refreshLockTTL = 30 * time.Second

// GmailAuthConfig holds dependencies for the Gmail auth service.
type GmailAuthConfig struct {
	// OAuth is the Google OAuth client for this deployment.
	OAuth driven.GoogleOAuth

	// UserStore persists the credential fields of the user row.
	UserStore driven.UserStore

	// OAuthStateStore manages single-use CSRF states.
	OAuthStateStore driven.OAuthStateStore

	// AuthService issues the session returned from the callback.
	AuthService driving.AuthService

	// Lock de-duplicates concurrent refreshes per user. Optional; when
	// nil, simultaneous expired-token requests may both hit the
	// provider's refresh endpoint. That race is accepted.
	Lock driven.DistributedLock

	// DisconnectOnRefreshFailure clears the stored connection when the
	// provider refuses a refresh grant, forcing a re-consent prompt.
	// Off by default: a transient provider outage should not destroy
	// otherwise-usable refresh material.
	DisconnectOnRefreshFailure bool
}

// gmailAuthService implements the GmailAuthService interface.
type gmailAuthService struct {
	oauth                      driven.GoogleOAuth
	userStore                  driven.UserStore
	stateStore                 driven.OAuthStateStore
	authService                driving.AuthService
	lock                       driven.DistributedLock
	disconnectOnRefreshFailure bool
}

// NewGmailAuthService creates a new Gmail auth service.
func NewGmailAuthService(cfg GmailAuthConfig) driving.GmailAuthService {
	return &gmailAuthService{
		oauth:                      cfg.OAuth,
		userStore:                  cfg.UserStore,
		stateStore:                 cfg.OAuthStateStore,
		authService:                cfg.AuthService,
		lock:                       cfg.Lock,
		disconnectOnRefreshFailure: cfg.DisconnectOnRefreshFailure,
	}
}

// Authorize starts the consent flow: generate and store a single-use
// CSRF state, then build the Google consent URL for it.
func (s *gmailAuthService) Authorize(ctx context.Context) (*driving.AuthorizeResponse, error) {
	state, err := generateRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(oauthStateTTL)
	oauthState := &driven.OAuthState{
		State:     state,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}

	if err := s.stateStore.Save(ctx, oauthState); err != nil {
		return nil, fmt.Errorf("save oauth state: %w", err)
	}

	return &driving.AuthorizeResponse{
		AuthorizationURL: s.oauth.BuildAuthURL(state),
		State:            state,
		ExpiresAt:        expiresAt.Format(time.RFC3339),
	}, nil
}

// Callback handles the provider redirect. It validates state, exchanges
// the code, finds or creates the user for the Google account's email,
// encrypts the tokens under the user's key, persists everything in one
// update, and issues a session.
func (s *gmailAuthService) Callback(ctx context.Context, req driving.CallbackRequest) (*driving.CallbackResponse, error) {
	if req.Error != "" {
		return nil, &driving.OAuthError{
			Code:        req.Error,
			Description: req.ErrorDescription,
		}
	}

	// Validate and consume state (single-use)
	oauthState, err := s.stateStore.GetAndDelete(ctx, req.State)
	if err != nil {
		return nil, fmt.Errorf("get oauth state: %w", err)
	}
	if oauthState == nil {
		return nil, domain.ErrOAuthState
	}

	// Exchange code for tokens. Codes are single-use and short-lived,
	// so a failure here is final; the flow restarts from Authorize.
	token, err := s.oauth.ExchangeCode(ctx, req.Code)
	if err != nil {
		return nil, &driving.OAuthError{
			Code:        "exchange_failed",
			Description: err.Error(),
		}
	}
	if token.AccessToken == "" {
		return nil, &driving.OAuthError{
			Code:        "exchange_failed",
			Description: "provider response missing access token",
		}
	}

	// The Google account email is the account identity.
	userInfo, err := s.oauth.GetUserInfo(ctx, token.AccessToken)
	if err != nil {
		return nil, &driving.OAuthError{
			Code:        "user_info_failed",
			Description: err.Error(),
		}
	}
	if userInfo.Email == "" {
		return nil, &driving.OAuthError{
			Code:        "user_info_failed",
			Description: "provider response missing email",
		}
	}

	user, err := s.findOrCreateUser(ctx, userInfo)
	if err != nil {
		return nil, err
	}

	// The per-user key must be persisted before any ciphertext that
	// depends on it.
	if user.EncryptionKey == "" {
		key, err := secrets.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("generate encryption key: %w", err)
		}
		if err := s.userStore.SetEncryptionKey(ctx, user.ID, key); err != nil {
			return nil, fmt.Errorf("persist encryption key: %w", err)
		}
		user.EncryptionKey = key
	}

	update, err := s.encryptTokens(token, user.EncryptionKey)
	if err != nil {
		return nil, err
	}

	if err := s.userStore.UpdateTokens(ctx, user.ID, *update); err != nil {
		return nil, fmt.Errorf("store tokens: %w", err)
	}

	user.EncryptedAccessToken = &update.EncryptedAccessToken
	user.EncryptedRefreshToken = update.EncryptedRefreshToken
	user.TokenExpiry = &update.TokenExpiry
	user.GmailConnected = true

	session, err := s.authService.IssueSession(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	return &driving.CallbackResponse{
		User:    user.ToSummary(),
		Session: session,
		Message: fmt.Sprintf("Successfully connected Gmail as %s", user.Email),
	}, nil
}

// Status reports the connection state. A stored connection with an
// expired access token reports connected=false; needs_refresh signals
// that recovery is possible without a new consent.
func (s *gmailAuthService) Status(ctx context.Context, userID string) (*driving.ConnectionStatus, error) {
	user, err := s.userStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := &driving.ConnectionStatus{
		Connected:    user.GmailConnected && !user.TokenExpired(),
		Email:        user.Email,
		NeedsRefresh: user.NeedsRefresh(),
	}
	if user.TokenExpiry != nil {
		expiry := user.TokenExpiry.Format(time.RFC3339)
		status.TokenExpiry = &expiry
	}
	return status, nil
}

// ValidAccessToken returns a decrypted, unexpired access token. When the
// stored token has lapsed it refreshes through the provider, re-encrypts,
// and persists before returning. A refresh failure leaves the stored
// connected flag untouched unless DisconnectOnRefreshFailure is set.
func (s *gmailAuthService) ValidAccessToken(ctx context.Context, userID string) (string, error) {
	user, err := s.userStore.Get(ctx, userID)
	if err != nil {
		return "", err
	}

	if !user.GmailConnected || user.EncryptedAccessToken == nil {
		return "", domain.ErrNotConnected
	}

	if !user.TokenExpired() {
		plaintext, err := secrets.Decrypt(*user.EncryptedAccessToken, user.EncryptionKey)
		if err != nil {
			return "", fmt.Errorf("decrypt access token: %w", err)
		}
		return plaintext, nil
	}

	if user.EncryptedRefreshToken == nil || user.EncryptionKey == "" {
		return "", domain.ErrNoRefreshToken
	}

	if s.lock != nil {
		lockName := "gmail-refresh:" + userID
		acquired, lockErr := s.lock.Acquire(ctx, lockName, refreshLockTTL)
		if lockErr != nil {
			// Lock backend trouble degrades to the accepted race.
			log.Printf("gmail auth: refresh lock unavailable for user %s: %v", userID, lockErr)
		} else if acquired {
			defer func() { _ = s.lock.Release(ctx, lockName) }()
		} else {
			// Another request is refreshing. Re-read once; if it
			// finished first, reuse its token instead of burning a
			// second refresh grant.
			if fresh, err := s.userStore.Get(ctx, userID); err == nil && !fresh.TokenExpired() && fresh.EncryptedAccessToken != nil {
				return secrets.Decrypt(*fresh.EncryptedAccessToken, fresh.EncryptionKey)
			}
		}
	}

	return s.refresh(ctx, user)
}

// refresh exchanges the stored refresh token for a new access token and
// persists the re-encrypted result.
func (s *gmailAuthService) refresh(ctx context.Context, user *domain.User) (string, error) {
	refreshToken, err := secrets.Decrypt(*user.EncryptedRefreshToken, user.EncryptionKey)
	if err != nil {
		return "", fmt.Errorf("decrypt refresh token: %w", err)
	}

	token, err := s.oauth.RefreshToken(ctx, refreshToken)
	if err != nil {
		if s.disconnectOnRefreshFailure {
			if clearErr := s.userStore.ClearTokens(ctx, user.ID); clearErr != nil {
				log.Printf("gmail auth: clear tokens after failed refresh for user %s: %v", user.ID, clearErr)
			}
		}
		return "", fmt.Errorf("%w: %v", domain.ErrRefreshFailed, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: provider response missing access token", domain.ErrRefreshFailed)
	}

	update, err := s.encryptTokens(token, user.EncryptionKey)
	if err != nil {
		return "", err
	}
	// Google only rotates the refresh token occasionally; keep the old
	// one when the response omits it.
	if update.EncryptedRefreshToken == nil {
		update.EncryptedRefreshToken = user.EncryptedRefreshToken
	}

	if err := s.userStore.UpdateTokens(ctx, user.ID, *update); err != nil {
		return "", fmt.Errorf("store refreshed tokens: %w", err)
	}

	return token.AccessToken, nil
}

// Disconnect revokes the live token best-effort and unconditionally
// clears the stored credential fields. Revocation failure never blocks
// local cleanup: the user can always disconnect, even when the token is
// already dead at the provider.
func (s *gmailAuthService) Disconnect(ctx context.Context, userID string) error {
	user, err := s.userStore.Get(ctx, userID)
	if err != nil {
		return err
	}

	if user.EncryptedAccessToken != nil && user.EncryptionKey != "" {
		if accessToken, err := secrets.Decrypt(*user.EncryptedAccessToken, user.EncryptionKey); err != nil {
			log.Printf("gmail auth: decrypt token for revocation for user %s: %v", userID, err)
		} else if err := s.oauth.RevokeToken(ctx, accessToken); err != nil {
			log.Printf("gmail auth: revoke token for user %s: %v", userID, err)
		}
	}

	if err := s.userStore.ClearTokens(ctx, userID); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	return nil
}

// findOrCreateUser resolves the account for a Google identity. A
// first-seen email creates a new user row.
func (s *gmailAuthService) findOrCreateUser(ctx context.Context, info *driven.OAuthUserInfo) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, info.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	now := time.Now()
	user = &domain.User{
		ID:        uuid.NewString(),
		Email:     info.Email,
		Name:      info.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.userStore.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// encryptTokens seals a provider token response under the user's key.
func (s *gmailAuthService) encryptTokens(token *driven.OAuthToken, key string) (*driven.TokenUpdate, error) {
	encryptedAccess, err := secrets.Encrypt(token.AccessToken, key)
	if err != nil {
		return nil, fmt.Errorf("encrypt access token: %w", err)
	}

	update := &driven.TokenUpdate{
		EncryptedAccessToken: encryptedAccess,
		TokenExpiry:          domain.CalculateTokenExpiry(clampLifetime(token.ExpiresIn)),
	}

	if token.RefreshToken != "" {
		encryptedRefresh, err := secrets.Encrypt(token.RefreshToken, key)
		if err != nil {
			return nil, fmt.Errorf("encrypt refresh token: %w", err)
		}
		update.EncryptedRefreshToken = &encryptedRefresh
	}

	return update, nil
}

// clampLifetime floors a provider lifetime so a slow exchange or clock
// skew never stores an effectively-dead token. Zero passes through and
// falls back to the default lifetime downstream.
func clampLifetime(expiresIn int) int {
	if expiresIn > 0 && expiresIn < domain.MinTokenLifetime {
		return domain.MinTokenLifetime
	}
	return expiresIn
}

// generateRandomString generates a cryptographically secure random string.
func generateRandomString(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes)[:length], nil
}
