package driving

import (
	"context"

	"github.com/dealdesk-labs/dealdesk-core/internal/core/domain"
)

// CreateDealRequest carries the writable fields of a new deal.
type CreateDealRequest struct {
	SponsorName   string           `json:"sponsor_name"`
	ContactEmail  string           `json:"contact_email,omitempty"`
	AmountCents   int64            `json:"amount_cents"`
	Currency      string           `json:"currency,omitempty"`
	Stage         domain.DealStage `json:"stage,omitempty"`
	GmailThreadID string           `json:"gmail_thread_id,omitempty"`
	Notes         string           `json:"notes,omitempty"`
}

// UpdateDealRequest carries a partial update; nil fields are untouched.
type UpdateDealRequest struct {
	SponsorName   *string           `json:"sponsor_name,omitempty"`
	ContactEmail  *string           `json:"contact_email,omitempty"`
	AmountCents   *int64            `json:"amount_cents,omitempty"`
	Currency      *string           `json:"currency,omitempty"`
	Stage         *domain.DealStage `json:"stage,omitempty"`
	GmailThreadID *string           `json:"gmail_thread_id,omitempty"`
	Notes         *string           `json:"notes,omitempty"`
}

// DealService manages sponsorship deal records.
type DealService interface {
	// Create stores a new deal owned by the given user
	Create(ctx context.Context, ownerID string, req CreateDealRequest) (*domain.Deal, error)

	// Get retrieves a deal, enforcing ownership
	Get(ctx context.Context, ownerID, dealID string) (*domain.Deal, error)

	// List retrieves all deals for a user
	List(ctx context.Context, ownerID string) ([]*domain.Deal, error)

	// Update applies a partial update, enforcing ownership
	Update(ctx context.Context, ownerID, dealID string, req UpdateDealRequest) (*domain.Deal, error)

	// Delete removes a deal, enforcing ownership
	Delete(ctx context.Context, ownerID, dealID string) error
}
