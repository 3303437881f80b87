package auth

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dealdesk-labs/dealdesk-core/internal/core/domain"
)

func testAdapter() *Adapter {
	return NewAdapterWithCost("test-secret", bcrypt.MinCost)
}

func TestAdapter_PasswordRoundTrip(t *testing.T) {
	a := testAdapter()

	hash, err := a.HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2hunter2" {
		t.Fatal("hash equals plaintext")
	}

	if !a.VerifyPassword("hunter2hunter2", hash) {
		t.Error("correct password rejected")
	}
	if a.VerifyPassword("wrong", hash) {
		t.Error("wrong password accepted")
	}
}

func TestAdapter_TokenRoundTrip(t *testing.T) {
	a := testAdapter()

	claims := &domain.TokenClaims{
		UserID:    "user-123",
		Email:     "creator@example.com",
		SessionID: "sess-1",
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}

	token, err := a.GenerateToken(claims)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	parsed, err := a.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}

	if parsed.UserID != claims.UserID {
		t.Errorf("UserID: got %q, want %q", parsed.UserID, claims.UserID)
	}
	if parsed.Email != claims.Email {
		t.Errorf("Email: got %q, want %q", parsed.Email, claims.Email)
	}
	if parsed.SessionID != claims.SessionID {
		t.Errorf("SessionID: got %q, want %q", parsed.SessionID, claims.SessionID)
	}
}

func TestAdapter_ParseToken_WrongSecret(t *testing.T) {
	a := testAdapter()
	other := NewAdapter("different-secret")

	claims := &domain.TokenClaims{
		UserID:    "user-123",
		Email:     "creator@example.com",
		SessionID: "sess-1",
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}

	token, err := a.GenerateToken(claims)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := other.ParseToken(token); err == nil {
		t.Error("expected parse failure with wrong secret")
	}
}

func TestAdapter_ParseToken_Garbage(t *testing.T) {
	a := testAdapter()

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := a.ParseToken(tok); err == nil {
			t.Errorf("expected error for token %q", tok)
		}
	}
}
