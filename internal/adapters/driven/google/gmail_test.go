package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestGmailClient(server *httptest.Server) *GmailClient {
	return &GmailClient{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    server.URL,
	}
}

func TestListLabels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me/labels" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer ya29.access" {
			t.Errorf("authorization: got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"labels": [
			{"id": "INBOX", "name": "INBOX", "type": "system"},
			{"id": "Label_7", "name": "Sponsorships", "type": "user"}
		]}`))
	}))
	defer server.Close()

	c := newTestGmailClient(server)
	labels, err := c.ListLabels(context.Background(), "ya29.access")
	if err != nil {
		t.Fatalf("ListLabels: %v", err)
	}
	if len(labels) != 2 {
		t.Fatalf("got %d labels, want 2", len(labels))
	}
	if labels[1].Name != "Sponsorships" || labels[1].Type != "user" {
		t.Errorf("label: got %+v", labels[1])
	}
}

func TestListThreads(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me/threads" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		q := r.URL.Query()
		if got := q.Get("labelIds"); got != "Label_7" {
			t.Errorf("labelIds: got %q", got)
		}
		if got := q.Get("maxResults"); got != "25" {
			t.Errorf("maxResults: got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"threads": [{"id": "t1", "snippet": "Re: collab proposal"}]}`))
	}))
	defer server.Close()

	c := newTestGmailClient(server)
	threads, err := c.ListThreads(context.Background(), "ya29.access", "Label_7", 25)
	if err != nil {
		t.Fatalf("ListThreads: %v", err)
	}
	if len(threads) != 1 || threads[0].Snippet != "Re: collab proposal" {
		t.Errorf("threads: got %+v", threads)
	}
}

func TestGmailAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"code": 401, "message": "Invalid Credentials"}}`))
	}))
	defer server.Close()

	c := newTestGmailClient(server)
	_, err := c.ListLabels(context.Background(), "expired-token")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error %q does not carry the status", err)
	}
}
