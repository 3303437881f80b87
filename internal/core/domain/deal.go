package domain

import "time"

// DealStage labels where a sponsorship deal sits on the board. The stage
// is an opaque column as far as this service is concerned; board ordering
// and transition rules live in the frontend.
type DealStage string

const (
	StageProspect    DealStage = "prospect"
	StageOutreach    DealStage = "outreach"
	StageNegotiation DealStage = "negotiation"
	StageContract    DealStage = "contract"
	StageLive        DealStage = "live"
	StagePaid        DealStage = "paid"
)

// Deal is a sponsorship deal record, optionally linked to the Gmail
// thread the negotiation happened on.
type Deal struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	SponsorName   string    `json:"sponsor_name"`
	ContactEmail  string    `json:"contact_email,omitempty"`
	AmountCents   int64     `json:"amount_cents"`
	Currency      string    `json:"currency"`
	Stage         DealStage `json:"stage"`
	GmailThreadID string    `json:"gmail_thread_id,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

var validStages = map[DealStage]bool{
	StageProspect:    true,
	StageOutreach:    true,
	StageNegotiation: true,
	StageContract:    true,
	StageLive:        true,
	StagePaid:        true,
}

// Validate checks the fields a deal cannot be stored without.
func (d *Deal) Validate() error {
	if d.OwnerID == "" || d.SponsorName == "" {
		return ErrInvalidInput
	}
	if d.AmountCents < 0 {
		return ErrInvalidInput
	}
	if !validStages[d.Stage] {
		return ErrInvalidInput
	}
	return nil
}
