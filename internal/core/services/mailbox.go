package services

import (
	"context"
	"fmt"

	"github.com/dealdesk-labs/dealdesk-core/internal/core/ports/driven"
	"github.com/dealdesk-labs/dealdesk-core/internal/core/ports/driving"
)

// Ensure mailboxService implements MailboxService
var _ driving.MailboxService = (*mailboxService)(nil)

// defaultThreadPageSize caps a thread listing when the caller does not say.
const defaultThreadPageSize = 50

// mailboxService implements the MailboxService interface
type mailboxService struct {
	gmailAuth driving.GmailAuthService
	gmail     driven.GmailClient
}

// NewMailboxService creates a new MailboxService
func NewMailboxService(gmailAuth driving.GmailAuthService, gmail driven.GmailClient) driving.MailboxService {
	return &mailboxService{
		gmailAuth: gmailAuth,
		gmail:     gmail,
	}
}

// ListLabels lists the labels of the connected mailbox
func (s *mailboxService) ListLabels(ctx context.Context, userID string) ([]driven.GmailLabel, error) {
	accessToken, err := s.gmailAuth.ValidAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	labels, err := s.gmail.ListLabels(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	return labels, nil
}

// ListThreads lists thread summaries for a label
func (s *mailboxService) ListThreads(ctx context.Context, userID, labelID string, maxResults int) ([]driven.GmailThread, error) {
	accessToken, err := s.gmailAuth.ValidAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	if maxResults <= 0 {
		maxResults = defaultThreadPageSize
	}

	threads, err := s.gmail.ListThreads(ctx, accessToken, labelID, maxResults)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	return threads, nil
}
