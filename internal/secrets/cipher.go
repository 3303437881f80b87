// Package secrets encrypts bearer tokens for at-rest storage.
//
// Each user owns a random 32-byte key, stored hex-encoded on the user row.
// Envelopes are self-describing strings of the form "iv:authTag:encrypted"
// (all lowercase hex) so they survive any text column unchanged. The
// envelope layout is a storage contract; do not reorder the segments.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	// keySize is the required key size for AES-256.
	keySize = 32

	// ivSize is the AES block size, one IV per encryption.
	ivSize = 16

	// KeyHexLength is the length of a hex-encoded key string.
	KeyHexLength = keySize * 2
)

var (
	// ErrInvalidKey is returned when the key does not decode to 32 bytes.
	ErrInvalidKey = errors.New("encryption key must be 32 hex-encoded bytes")

	// ErrInvalidEnvelope is returned when a stored value does not have
	// the three colon-separated segments.
	ErrInvalidEnvelope = errors.New("invalid envelope: expected iv:authTag:encrypted")

	// ErrIntegrity is returned when the recomputed auth tag does not
	// match the stored one.
	ErrIntegrity = errors.New("integrity verification failed")

	// ErrEncrypt wraps any failure during encryption.
	ErrEncrypt = errors.New("encryption failed")

	// ErrDecrypt wraps every decryption failure. Callers get one opaque
	// error regardless of cause; the wrapped detail is for logs only.
	ErrDecrypt = errors.New("decryption failed")
)

// GenerateKey produces a fresh random key as a 64-character lowercase
// hex string.
func GenerateKey() (string, error) {
	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// Encrypt seals plaintext under the given hex key and returns the
// "iv:authTag:encrypted" envelope. A fresh IV is drawn per call, so two
// encryptions of the same value never produce the same envelope.
func Encrypt(plaintext, keyHex string) (string, error) {
	key, err := decodeKey(keyHex)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncrypt, err)
	}

	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("%w: generate iv: %w", ErrEncrypt, err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncrypt, err)
	}

	ciphertext := make([]byte, len(plaintext))
	cipher.NewCTR(block, iv).XORKeyStream(ciphertext, []byte(plaintext))

	ivHex := hex.EncodeToString(iv)
	ciphertextHex := hex.EncodeToString(ciphertext)
	tag := computeTag(key, ivHex+ciphertextHex)

	return ivHex + ":" + tag + ":" + ciphertextHex, nil
}

// Decrypt opens an envelope produced by Encrypt. The auth tag is verified
// with SecureCompare before any decryption happens; on mismatch the
// ciphertext is never touched. Every failure surfaces as ErrDecrypt so
// callers cannot distinguish format, integrity, and key errors.
func Decrypt(envelope, keyHex string) (string, error) {
	parts := strings.Split(envelope, ":")
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: %w", ErrDecrypt, ErrInvalidEnvelope)
	}
	ivHex, tag, ciphertextHex := parts[0], parts[1], parts[2]

	key, err := decodeKey(keyHex)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecrypt, err)
	}

	if !SecureCompare(computeTag(key, ivHex+ciphertextHex), tag) {
		return "", fmt.Errorf("%w: %w", ErrDecrypt, ErrIntegrity)
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != ivSize {
		return "", fmt.Errorf("%w: %w", ErrDecrypt, ErrInvalidEnvelope)
	}
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecrypt, ErrInvalidEnvelope)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecrypt, err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCTR(block, iv).XORKeyStream(plaintext, ciphertext)

	return string(plaintext), nil
}

// SecureCompare compares two strings in constant time for equal lengths.
// Unequal lengths return false immediately; leaking the length is an
// accepted tradeoff since tags and keys are fixed-width hex.
func SecureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := 0; i < len(a); i++ {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}

// computeTag produces the hex HMAC-SHA256 tag over the hex-encoded
// iv-plus-ciphertext, keyed with the raw encryption key. The CTR mode
// carries no authentication of its own, so integrity lives here.
func computeTag(key []byte, message string) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func decodeKey(keyHex string) ([]byte, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil || len(key) != keySize {
		return nil, ErrInvalidKey
	}
	return key, nil
}
