package mocks

import (
	"context"
	"sync"

	"github.com/dealdesk-labs/dealdesk-core/internal/core/domain"
	"github.com/dealdesk-labs/dealdesk-core/internal/core/ports/driven"
)

// MockUserStore is a mock implementation of UserStore for testing
type MockUserStore struct {
	mu      sync.RWMutex
	users   map[string]*domain.User
	byEmail map[string]*domain.User

	// Writes counts mutating calls, letting tests assert that failed
	// operations performed no store write.
	Writes int
}

// NewMockUserStore creates a new MockUserStore
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (m *MockUserStore) Save(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
	copied := *user
	m.users[user.ID] = &copied
	m.byEmail[user.Email] = &copied
	return nil
}

func (m *MockUserStore) Get(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserStore) SetEncryptionKey(ctx context.Context, id, keyHex string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Writes++
	user.EncryptionKey = keyHex
	return nil
}

func (m *MockUserStore) UpdateTokens(ctx context.Context, id string, update driven.TokenUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Writes++
	access := update.EncryptedAccessToken
	expiry := update.TokenExpiry
	user.EncryptedAccessToken = &access
	user.EncryptedRefreshToken = update.EncryptedRefreshToken
	user.TokenExpiry = &expiry
	user.GmailConnected = true
	return nil
}

func (m *MockUserStore) ClearTokens(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Writes++
	user.EncryptedAccessToken = nil
	user.EncryptedRefreshToken = nil
	user.TokenExpiry = nil
	user.GmailConnected = false
	return nil
}

func (m *MockUserStore) UpdateLastLogin(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.ErrNotFound
	}
	return nil
}
