package driven

import (
	"context"

	"github.com/dealdesk-labs/dealdesk-core/internal/core/domain"
)

// DealStore handles sponsorship deal persistence (PostgreSQL)
type DealStore interface {
	// Save creates or updates a deal
	Save(ctx context.Context, deal *domain.Deal) error

	// Get retrieves a deal by ID
	Get(ctx context.Context, id string) (*domain.Deal, error)

	// ListByOwner retrieves all deals for a user, most recently
	// updated first
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Deal, error)

	// Delete deletes a deal
	Delete(ctx context.Context, id string) error
}
