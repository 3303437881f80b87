// Package google implements the Google-facing adapters: the OAuth2
// client driving the consent flow and a thin Gmail REST client.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dealdesk-labs/dealdesk-core/internal/core/ports/driven"
)

// Ensure OAuth implements the interface.
var _ driven.GoogleOAuth = (*OAuth)(nil)

// Scopes requested during consent: read-only mail access, label
// management, and the email/profile identity of the granting account.
var scopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.labels",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// OAuthConfig holds the OAuth app credentials for this deployment.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string

	// RedirectURI is the callback URL registered with Google.
	RedirectURI string
}

// OAuth handles OAuth operations against Google. One instance is shared
// across requests; it holds only immutable configuration.
type OAuth struct {
	cfg        OAuthConfig
	httpClient *http.Client

	// Endpoint overrides for tests.
	authURL     string
	tokenURL    string
	revokeURL   string
	userInfoURL string
}

// NewOAuth creates a new Google OAuth client.
func NewOAuth(cfg OAuthConfig) *OAuth {
	return &OAuth{
		cfg:         cfg,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		authURL:     "https://accounts.google.com/o/oauth2/v2/auth",
		tokenURL:    "https://oauth2.googleapis.com/token",
		revokeURL:   "https://oauth2.googleapis.com/revoke",
		userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
	}
}

// BuildAuthURL constructs the Google consent URL. access_type=offline
// plus prompt=consent forces refresh-token issuance on every consent;
// Google otherwise only grants one on the first approval.
func (o *OAuth) BuildAuthURL(state string) string {
	params := url.Values{
		"client_id":     {o.cfg.ClientID},
		"redirect_uri":  {o.cfg.RedirectURI},
		"response_type": {"code"},
		"scope":         {strings.Join(scopes, " ")},
		"state":         {state},
		"access_type":   {"offline"},
		"prompt":        {"consent"},
	}
	return o.authURL + "?" + params.Encode()
}

// ExchangeCode exchanges an authorization code for tokens.
func (o *OAuth) ExchangeCode(ctx context.Context, code string) (*driven.OAuthToken, error) {
	params := url.Values{
		"client_id":     {o.cfg.ClientID},
		"client_secret": {o.cfg.ClientSecret},
		"code":          {code},
		"redirect_uri":  {o.cfg.RedirectURI},
		"grant_type":    {"authorization_code"},
	}
	return o.requestToken(ctx, params)
}

// RefreshToken obtains a new access token from a refresh token.
func (o *OAuth) RefreshToken(ctx context.Context, refreshToken string) (*driven.OAuthToken, error) {
	params := url.Values{
		"client_id":     {o.cfg.ClientID},
		"client_secret": {o.cfg.ClientSecret},
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	return o.requestToken(ctx, params)
}

func (o *OAuth) requestToken(ctx context.Context, params url.Values) (*driven.OAuthToken, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", o.tokenURL,
		strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var tokenResp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
		Scope        string `json:"scope"`
		ExpiresIn    int    `json:"expires_in"`
		Error        string `json:"error"`
		ErrorDesc    string `json:"error_description"`
	}

	if err := json.Unmarshal(body, &tokenResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("token request failed: status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if tokenResp.Error != "" {
		return nil, fmt.Errorf("oauth error: %s - %s", tokenResp.Error, tokenResp.ErrorDesc)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token request failed: status %d", resp.StatusCode)
	}

	return &driven.OAuthToken{
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: tokenResp.RefreshToken,
		TokenType:    tokenResp.TokenType,
		Scope:        tokenResp.Scope,
		ExpiresIn:    tokenResp.ExpiresIn,
	}, nil
}

// RevokeToken revokes an access or refresh token. Google returns 200 on
// success and 400 when the token is already invalid.
func (o *OAuth) RevokeToken(ctx context.Context, token string) error {
	params := url.Values{"token": {token}}

	req, err := http.NewRequestWithContext(ctx, "POST", o.revokeURL,
		strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("revoke failed: status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// GetUserInfo fetches the email identity of the token's account.
func (o *OAuth) GetUserInfo(ctx context.Context, accessToken string) (*driven.OAuthUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", o.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get user info failed: %s", string(body))
	}

	var user struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}

	return &driven.OAuthUserInfo{
		ID:      user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Picture: user.Picture,
	}, nil
}
