package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dealdesk-labs/dealdesk-core/internal/core/domain"
	"github.com/dealdesk-labs/dealdesk-core/internal/core/ports/driven/mocks"
	"github.com/dealdesk-labs/dealdesk-core/internal/core/ports/driving"
)

type authFixture struct {
	userStore    *mocks.MockUserStore
	sessionStore *mocks.MockSessionStore
	svc          driving.AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	userStore := mocks.NewMockUserStore()
	sessionStore := mocks.NewMockSessionStore()
	svc := NewAuthService(userStore, sessionStore, mocks.NewMockAuthAdapter())

	_ = userStore.Save(context.Background(), &domain.User{
		ID:           "user-1",
		Email:        "creator@example.com",
		PasswordHash: "correct-password",
		CreatedAt:    time.Now(),
	})

	return &authFixture{userStore: userStore, sessionStore: sessionStore, svc: svc}
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid credentials", "creator@example.com", "correct-password", nil},
		{"wrong password", "creator@example.com", "wrong", domain.ErrInvalidCredentials},
		{"unknown email", "nobody@example.com", "correct-password", domain.ErrInvalidCredentials},
		{"empty email", "", "correct-password", domain.ErrInvalidInput},
		{"empty password", "creator@example.com", "", domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)

			resp, err := f.svc.Authenticate(context.Background(), domain.LoginRequest{
				Email:    tt.email,
				Password: tt.password,
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("got error %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate: %v", err)
			}
			if resp.Token == "" || resp.RefreshToken == "" {
				t.Error("expected token and refresh token")
			}
			if resp.User.Email != tt.email {
				t.Errorf("user email: got %q", resp.User.Email)
			}
		})
	}
}

func TestAuthenticate_OAuthOnlyAccount(t *testing.T) {
	f := newAuthFixture(t)
	_ = f.userStore.Save(context.Background(), &domain.User{
		ID:    "user-2",
		Email: "oauth-only@example.com",
		// no password hash: account was created via the consent flow
	})

	_, err := f.svc.Authenticate(context.Background(), domain.LoginRequest{
		Email:    "oauth-only@example.com",
		Password: "anything",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestValidateToken(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.svc.Authenticate(context.Background(), domain.LoginRequest{
		Email:    "creator@example.com",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	authCtx, err := f.svc.ValidateToken(context.Background(), resp.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if authCtx.UserID != "user-1" {
		t.Errorf("user id: got %q", authCtx.UserID)
	}

	if _, err := f.svc.ValidateToken(context.Background(), "garbage"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("garbage token: got %v, want ErrTokenInvalid", err)
	}
	if _, err := f.svc.ValidateToken(context.Background(), ""); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("empty token: got %v, want ErrTokenInvalid", err)
	}
}

func TestValidateToken_SessionRevoked(t *testing.T) {
	f := newAuthFixture(t)

	resp, _ := f.svc.Authenticate(context.Background(), domain.LoginRequest{
		Email:    "creator@example.com",
		Password: "correct-password",
	})

	if err := f.svc.Logout(context.Background(), resp.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, err := f.svc.ValidateToken(context.Background(), resp.Token); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("revoked session: got %v, want ErrSessionNotFound", err)
	}
}

func TestRefreshToken_RotatesSession(t *testing.T) {
	f := newAuthFixture(t)

	first, _ := f.svc.Authenticate(context.Background(), domain.LoginRequest{
		Email:    "creator@example.com",
		Password: "correct-password",
	})

	second, err := f.svc.RefreshToken(context.Background(), domain.RefreshRequest{
		RefreshToken: first.RefreshToken,
	})
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	// The old refresh token is dead after rotation
	if _, err := f.svc.RefreshToken(context.Background(), domain.RefreshRequest{
		RefreshToken: first.RefreshToken,
	}); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("old refresh token: got %v, want ErrTokenInvalid", err)
	}
}

func TestLogoutAll(t *testing.T) {
	f := newAuthFixture(t)

	first, _ := f.svc.Authenticate(context.Background(), domain.LoginRequest{
		Email:    "creator@example.com",
		Password: "correct-password",
	})
	second, _ := f.svc.Authenticate(context.Background(), domain.LoginRequest{
		Email:    "creator@example.com",
		Password: "correct-password",
	})

	if err := f.svc.LogoutAll(context.Background(), "user-1"); err != nil {
		t.Fatalf("LogoutAll: %v", err)
	}

	for _, token := range []string{first.Token, second.Token} {
		if _, err := f.svc.ValidateToken(context.Background(), token); err == nil {
			t.Error("expected all sessions invalidated")
		}
	}
}
