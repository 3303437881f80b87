package driving

import (
	"context"

	"github.com/dealdesk-labs/dealdesk-core/internal/core/ports/driven"
)

// MailboxService exposes the read-only Gmail surface. Every call obtains
// a valid access token through the Gmail auth service, refreshing
// transparently when needed.
type MailboxService interface {
	// ListLabels lists the labels of the connected mailbox
	ListLabels(ctx context.Context, userID string) ([]driven.GmailLabel, error)

	// ListThreads lists thread summaries for a label
	ListThreads(ctx context.Context, userID, labelID string, maxResults int) ([]driven.GmailThread, error)
}
