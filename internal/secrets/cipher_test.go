package secrets

import (
	"errors"
	"regexp"
	"strings"
	"testing"
)

const testKey = "3031323334353637383930313233343536373839303132333435363738393031"

func TestEncrypt_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		plaintext string
	}{
		{"access token", "ya29.a0AfB_byC-example-access-token"},
		{"refresh token", "1//0gexample-refresh-token"},
		{"empty string", ""},
		{"unicode", "tøken-ünïcode-é"},
		{"contains colons", "a:b:c:d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelope, err := Encrypt(tt.plaintext, testKey)
			if err != nil {
				t.Fatalf("Encrypt: %v", err)
			}

			decrypted, err := Decrypt(envelope, testKey)
			if err != nil {
				t.Fatalf("Decrypt: %v", err)
			}
			if decrypted != tt.plaintext {
				t.Errorf("got %q, want %q", decrypted, tt.plaintext)
			}
		})
	}
}

func TestEncrypt_EnvelopeShape(t *testing.T) {
	envelope, err := Encrypt("secret", testKey)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	parts := strings.Split(envelope, ":")
	if len(parts) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(parts))
	}
	if len(parts[0]) != ivSize*2 {
		t.Errorf("iv segment: got %d chars, want %d", len(parts[0]), ivSize*2)
	}
	if len(parts[1]) != 64 {
		t.Errorf("tag segment: got %d chars, want 64", len(parts[1]))
	}

	hexOnly := regexp.MustCompile(`^[0-9a-f]*$`)
	for i, p := range parts {
		if !hexOnly.MatchString(p) {
			t.Errorf("segment %d is not lowercase hex: %q", i, p)
		}
	}
}

func TestEncrypt_FreshIVPerCall(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		envelope, err := Encrypt("same value", testKey)
		if err != nil {
			t.Fatalf("Encrypt %d: %v", i, err)
		}
		iv := strings.SplitN(envelope, ":", 2)[0]
		if seen[iv] {
			t.Fatalf("duplicate iv at iteration %d", i)
		}
		seen[iv] = true
	}
}

func TestEncrypt_InvalidKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"too short", "abcd"},
		{"too long", testKey + "00"},
		{"not hex", strings.Repeat("zz", 32)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encrypt("secret", tt.key)
			if !errors.Is(err, ErrEncrypt) {
				t.Errorf("expected ErrEncrypt, got %v", err)
			}
			if !errors.Is(err, ErrInvalidKey) {
				t.Errorf("expected ErrInvalidKey cause, got %v", err)
			}
		})
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	otherKey := "6162636465666768696a6b6c6d6e6f707172737475767778797a303132333435"

	envelope, err := Encrypt("secret data", testKey)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	_, err = Decrypt(envelope, otherKey)
	if !errors.Is(err, ErrDecrypt) {
		t.Fatalf("expected ErrDecrypt with wrong key, got %v", err)
	}
}

func TestDecrypt_InvalidFormat(t *testing.T) {
	tests := []struct {
		name     string
		envelope string
	}{
		{"empty", ""},
		{"one part", "deadbeef"},
		{"two parts", "deadbeef:cafe"},
		{"four parts", "aa:bb:cc:dd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt(tt.envelope, testKey)
			if !errors.Is(err, ErrDecrypt) {
				t.Fatalf("expected ErrDecrypt, got %v", err)
			}
			if !errors.Is(err, ErrInvalidEnvelope) {
				t.Errorf("expected ErrInvalidEnvelope cause, got %v", err)
			}
		})
	}
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	envelope, err := Encrypt("secret data", testKey)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	parts := strings.Split(envelope, ":")

	// Flip one ciphertext nibble
	tampered := []byte(parts[2])
	if tampered[0] == '0' {
		tampered[0] = '1'
	} else {
		tampered[0] = '0'
	}

	_, err = Decrypt(parts[0]+":"+parts[1]+":"+string(tampered), testKey)
	if !errors.Is(err, ErrDecrypt) {
		t.Fatalf("expected ErrDecrypt, got %v", err)
	}
	if !errors.Is(err, ErrIntegrity) {
		t.Errorf("expected ErrIntegrity cause, got %v", err)
	}
}

func TestDecrypt_TamperedTag(t *testing.T) {
	envelope, err := Encrypt("secret data", testKey)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	parts := strings.Split(envelope, ":")
	parts[1] = strings.Repeat("00", 32)

	_, err = Decrypt(strings.Join(parts, ":"), testKey)
	if !errors.Is(err, ErrIntegrity) {
		t.Errorf("expected ErrIntegrity cause, got %v", err)
	}
}

func TestGenerateKey(t *testing.T) {
	k1, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	k2, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	if k1 == k2 {
		t.Error("two generated keys are identical")
	}

	hexOnly := regexp.MustCompile(`^[0-9a-f]{64}$`)
	for _, k := range []string{k1, k2} {
		if !hexOnly.MatchString(k) {
			t.Errorf("key is not 64 lowercase hex chars: %q", k)
		}
	}
}

func TestSecureCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"equal", "abcdef", "abcdef", true},
		{"equal empty", "", "", true},
		{"differ same length", "abcdef", "abcdeg", false},
		{"differ first char", "xbcdef", "abcdef", false},
		{"different lengths", "abc", "abcd", false},
		{"one empty", "", "a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SecureCompare(tt.a, tt.b); got != tt.want {
				t.Errorf("SecureCompare(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
