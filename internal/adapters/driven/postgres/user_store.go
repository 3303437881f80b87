package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/dealdesk-labs/dealdesk-core/internal/core/domain"
	"github.com/dealdesk-labs/dealdesk-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.UserStore = (*UserStore)(nil)

// UserStore implements driven.UserStore using PostgreSQL
type UserStore struct {
	db *DB
}

// NewUserStore creates a new UserStore
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, name, password_hash, encryption_key,
	encrypted_access_token, encrypted_refresh_token, token_expiry,
	gmail_connected, created_at, updated_at, last_login_at`

// Save creates or updates a user
func (s *UserStore) Save(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, encryption_key,
			encrypted_access_token, encrypted_refresh_token, token_expiry,
			gmail_connected, created_at, updated_at, last_login_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash,
			encryption_key = EXCLUDED.encryption_key,
			encrypted_access_token = EXCLUDED.encrypted_access_token,
			encrypted_refresh_token = EXCLUDED.encrypted_refresh_token,
			token_expiry = EXCLUDED.token_expiry,
			gmail_connected = EXCLUDED.gmail_connected,
			updated_at = EXCLUDED.updated_at,
			last_login_at = EXCLUDED.last_login_at
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.EncryptionKey,
		NullString(user.EncryptedAccessToken),
		NullString(user.EncryptedRefreshToken),
		NullTime(user.TokenExpiry),
		user.GmailConnected,
		user.CreatedAt,
		user.UpdatedAt,
		NullTime(user.LastLoginAt),
	)
	return err
}

// Get retrieves a user by ID
func (s *UserStore) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail retrieves a user by email
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *UserStore) queryOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	var accessToken, refreshToken sql.NullString
	var tokenExpiry, lastLoginAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.EncryptionKey,
		&accessToken,
		&refreshToken,
		&tokenExpiry,
		&user.GmailConnected,
		&user.CreatedAt,
		&user.UpdatedAt,
		&lastLoginAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	user.EncryptedAccessToken = StringPtr(accessToken)
	user.EncryptedRefreshToken = StringPtr(refreshToken)
	user.TokenExpiry = TimePtr(tokenExpiry)
	user.LastLoginAt = TimePtr(lastLoginAt)
	return &user, nil
}

// SetEncryptionKey persists the per-user encryption key. This runs as
// its own statement so the key is committed before any ciphertext that
// depends on it.
func (s *UserStore) SetEncryptionKey(ctx context.Context, id, keyHex string) error {
	query := `UPDATE users SET encryption_key = $1, updated_at = $2 WHERE id = $3`
	result, err := s.db.ExecContext(ctx, query, keyHex, time.Now(), id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// UpdateTokens stores encrypted tokens, expiry, and connected=true as a
// single statement. Readers never observe tokens without the flag or
// the flag without tokens.
func (s *UserStore) UpdateTokens(ctx context.Context, id string, update driven.TokenUpdate) error {
	query := `
		UPDATE users SET
			encrypted_access_token = $1,
			encrypted_refresh_token = $2,
			token_expiry = $3,
			gmail_connected = TRUE,
			updated_at = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(ctx, query,
		update.EncryptedAccessToken,
		NullString(update.EncryptedRefreshToken),
		update.TokenExpiry,
		time.Now(),
		id,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// ClearTokens nulls all credential fields and drops the connected flag
// as a single statement
func (s *UserStore) ClearTokens(ctx context.Context, id string) error {
	query := `
		UPDATE users SET
			encrypted_access_token = NULL,
			encrypted_refresh_token = NULL,
			token_expiry = NULL,
			gmail_connected = FALSE,
			updated_at = $1
		WHERE id = $2
	`
	result, err := s.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// UpdateLastLogin updates the last login timestamp
func (s *UserStore) UpdateLastLogin(ctx context.Context, id string) error {
	query := `UPDATE users SET last_login_at = $1, updated_at = $1 WHERE id = $2`
	result, err := s.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
