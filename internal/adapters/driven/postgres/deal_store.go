package postgres

import (
	"context"
	"database/sql"

	"github.com/dealdesk-labs/dealdesk-core/internal/core/domain"
	"github.com/dealdesk-labs/dealdesk-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DealStore = (*DealStore)(nil)

// DealStore implements driven.DealStore using PostgreSQL
type DealStore struct {
	db *DB
}

// NewDealStore creates a new DealStore
func NewDealStore(db *DB) *DealStore {
	return &DealStore{db: db}
}

// Save creates or updates a deal
func (s *DealStore) Save(ctx context.Context, deal *domain.Deal) error {
	query := `
		INSERT INTO deals (id, owner_id, sponsor_name, contact_email,
			amount_cents, currency, stage, gmail_thread_id, notes,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			sponsor_name = EXCLUDED.sponsor_name,
			contact_email = EXCLUDED.contact_email,
			amount_cents = EXCLUDED.amount_cents,
			currency = EXCLUDED.currency,
			stage = EXCLUDED.stage,
			gmail_thread_id = EXCLUDED.gmail_thread_id,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		deal.ID,
		deal.OwnerID,
		deal.SponsorName,
		deal.ContactEmail,
		deal.AmountCents,
		deal.Currency,
		string(deal.Stage),
		deal.GmailThreadID,
		deal.Notes,
		deal.CreatedAt,
		deal.UpdatedAt,
	)
	return err
}

// Get retrieves a deal by ID
func (s *DealStore) Get(ctx context.Context, id string) (*domain.Deal, error) {
	query := `
		SELECT id, owner_id, sponsor_name, contact_email, amount_cents,
			   currency, stage, gmail_thread_id, notes, created_at, updated_at
		FROM deals
		WHERE id = $1
	`

	var deal domain.Deal
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&deal.ID,
		&deal.OwnerID,
		&deal.SponsorName,
		&deal.ContactEmail,
		&deal.AmountCents,
		&deal.Currency,
		&deal.Stage,
		&deal.GmailThreadID,
		&deal.Notes,
		&deal.CreatedAt,
		&deal.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &deal, nil
}

// ListByOwner retrieves all deals for a user, most recently updated first
func (s *DealStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Deal, error) {
	query := `
		SELECT id, owner_id, sponsor_name, contact_email, amount_cents,
			   currency, stage, gmail_thread_id, notes, created_at, updated_at
		FROM deals
		WHERE owner_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deals []*domain.Deal
	for rows.Next() {
		var deal domain.Deal
		err := rows.Scan(
			&deal.ID,
			&deal.OwnerID,
			&deal.SponsorName,
			&deal.ContactEmail,
			&deal.AmountCents,
			&deal.Currency,
			&deal.Stage,
			&deal.GmailThreadID,
			&deal.Notes,
			&deal.CreatedAt,
			&deal.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		deals = append(deals, &deal)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return deals, nil
}

// Delete deletes a deal
func (s *DealStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}
