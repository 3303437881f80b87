package driven

import "context"

// GmailLabel is a label in the connected mailbox.
type GmailLabel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// GmailThread is a thread summary. Message bodies are never fetched or
// parsed by this service.
type GmailThread struct {
	ID      string `json:"id"`
	Snippet string `json:"snippet"`
}

// GmailClient is a thin read-only wrapper over the Gmail REST API.
// Callers supply a valid plaintext access token per call.
type GmailClient interface {
	// ListLabels lists all labels in the mailbox.
	ListLabels(ctx context.Context, accessToken string) ([]GmailLabel, error)

	// ListThreads lists thread summaries carrying the given label.
	ListThreads(ctx context.Context, accessToken, labelID string, maxResults int) ([]GmailThread, error)
}
