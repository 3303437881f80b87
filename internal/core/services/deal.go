package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dealdesk-labs/dealdesk-core/internal/core/domain"
	"github.com/dealdesk-labs/dealdesk-core/internal/core/ports/driven"
	"github.com/dealdesk-labs/dealdesk-core/internal/core/ports/driving"
)

// Ensure dealService implements DealService
var _ driving.DealService = (*dealService)(nil)

// dealService implements the DealService interface
type dealService struct {
	dealStore driven.DealStore
}

// NewDealService creates a new DealService
func NewDealService(dealStore driven.DealStore) driving.DealService {
	return &dealService{dealStore: dealStore}
}

// Create stores a new deal owned by the given user
func (s *dealService) Create(ctx context.Context, ownerID string, req driving.CreateDealRequest) (*domain.Deal, error) {
	now := time.Now()
	deal := &domain.Deal{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		SponsorName:   req.SponsorName,
		ContactEmail:  req.ContactEmail,
		AmountCents:   req.AmountCents,
		Currency:      req.Currency,
		Stage:         req.Stage,
		GmailThreadID: req.GmailThreadID,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if deal.Currency == "" {
		deal.Currency = "USD"
	}
	if deal.Stage == "" {
		deal.Stage = domain.StageProspect
	}

	if err := deal.Validate(); err != nil {
		return nil, err
	}
	if err := s.dealStore.Save(ctx, deal); err != nil {
		return nil, err
	}
	return deal, nil
}

// Get retrieves a deal, enforcing ownership
func (s *dealService) Get(ctx context.Context, ownerID, dealID string) (*domain.Deal, error) {
	deal, err := s.dealStore.Get(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if deal.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return deal, nil
}

// List retrieves all deals for a user
func (s *dealService) List(ctx context.Context, ownerID string) ([]*domain.Deal, error) {
	return s.dealStore.ListByOwner(ctx, ownerID)
}

// Update applies a partial update, enforcing ownership
func (s *dealService) Update(ctx context.Context, ownerID, dealID string, req driving.UpdateDealRequest) (*domain.Deal, error) {
	deal, err := s.Get(ctx, ownerID, dealID)
	if err != nil {
		return nil, err
	}

	if req.SponsorName != nil {
		deal.SponsorName = *req.SponsorName
	}
	if req.ContactEmail != nil {
		deal.ContactEmail = *req.ContactEmail
	}
	if req.AmountCents != nil {
		deal.AmountCents = *req.AmountCents
	}
	if req.Currency != nil {
		deal.Currency = *req.Currency
	}
	if req.Stage != nil {
		deal.Stage = *req.Stage
	}
	if req.GmailThreadID != nil {
		deal.GmailThreadID = *req.GmailThreadID
	}
	if req.Notes != nil {
		deal.Notes = *req.Notes
	}
	deal.UpdatedAt = time.Now()

	if err := deal.Validate(); err != nil {
		return nil, err
	}
	if err := s.dealStore.Save(ctx, deal); err != nil {
		return nil, err
	}
	return deal, nil
}

// Delete removes a deal, enforcing ownership
func (s *dealService) Delete(ctx context.Context, ownerID, dealID string) error {
	if _, err := s.Get(ctx, ownerID, dealID); err != nil {
		return err
	}
	return s.dealStore.Delete(ctx, dealID)
}
