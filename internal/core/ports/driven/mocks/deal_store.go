package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/dealdesk-labs/dealdesk-core/internal/core/domain"
)

// MockDealStore is a mock implementation of DealStore for testing
type MockDealStore struct {
	mu    sync.RWMutex
	deals map[string]*domain.Deal
}

// NewMockDealStore creates a new MockDealStore
func NewMockDealStore() *MockDealStore {
	return &MockDealStore{
		deals: make(map[string]*domain.Deal),
	}
}

func (m *MockDealStore) Save(ctx context.Context, deal *domain.Deal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *deal
	m.deals[deal.ID] = &copied
	return nil
}

func (m *MockDealStore) Get(ctx context.Context, id string) (*domain.Deal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	deal, ok := m.deals[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *deal
	return &copied, nil
}

func (m *MockDealStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Deal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Deal
	for _, deal := range m.deals {
		if deal.OwnerID == ownerID {
			copied := *deal
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func (m *MockDealStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.deals[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.deals, id)
	return nil
}
