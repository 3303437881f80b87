package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dealdesk-labs/dealdesk-core/internal/core/domain"
	"github.com/dealdesk-labs/dealdesk-core/internal/core/ports/driving"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse represents a simple status response
type StatusResponse struct {
	Status string `json:"status"`
}

// Health endpoints

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady checks the backing stores. Redis is optional; readiness
// only fails on the database.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Auth endpoints

// handleLogin authenticates with email and password. Accounts created
// through the Gmail consent flow have no password and must use that
// flow instead.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.Authenticate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "email and password are required")
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			writeError(w, http.StatusInternalServerError, "authentication failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.RefreshToken(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	_ = s.authService.Logout(r.Context(), token)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetMe returns the caller's identity and Gmail connection state.
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	status, err := s.gmailAuthService.Status(r.Context(), authCtx.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": authCtx.UserID,
		"email":   authCtx.Email,
		"gmail":   status,
	})
}

// Gmail connection endpoints

func (s *Server) handleGmailAuthorize(w http.ResponseWriter, r *http.Request) {
	resp, err := s.gmailAuthService.Authorize(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start authorization")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleGmailCallback receives the redirect from Google. Query
// parameters mirror the OAuth2 spec: code and state on success, error
// and error_description on denial.
func (s *Server) handleGmailCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := driving.CallbackRequest{
		Code:             q.Get("code"),
		State:            q.Get("state"),
		Error:            q.Get("error"),
		ErrorDescription: q.Get("error_description"),
	}

	resp, err := s.gmailAuthService.Callback(r.Context(), req)
	if err != nil {
		var oauthErr *driving.OAuthError
		switch {
		case errors.As(err, &oauthErr):
			writeJSON(w, http.StatusBadGateway, map[string]string{
				"error":             oauthErr.Code,
				"error_description": oauthErr.Description,
			})
		case errors.Is(err, domain.ErrOAuthState):
			writeError(w, http.StatusBadRequest, "invalid or expired state")
		default:
			writeError(w, http.StatusInternalServerError, "callback failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGmailStatus(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	status, err := s.gmailAuthService.Status(r.Context(), authCtx.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load status")
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleGmailRefresh(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	// Forces the stored token through the refresh path. The plaintext
	// token never leaves the server; the caller gets the resulting
	// connection state.
	if _, err := s.gmailAuthService.ValidAccessToken(r.Context(), authCtx.UserID); err != nil {
		writeMailboxError(w, err)
		return
	}

	status, err := s.gmailAuthService.Status(r.Context(), authCtx.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load status")
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleGmailDisconnect(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := s.gmailAuthService.Disconnect(r.Context(), authCtx.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "disconnect failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "disconnected"})
}

// Mailbox endpoints

func (s *Server) handleListLabels(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	labels, err := s.mailboxService.ListLabels(r.Context(), authCtx.UserID)
	if err != nil {
		writeMailboxError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"labels": labels})
}

func (s *Server) handleListThreads(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	labelID := r.URL.Query().Get("label")
	maxResults, _ := strconv.Atoi(r.URL.Query().Get("max_results"))

	threads, err := s.mailboxService.ListThreads(r.Context(), authCtx.UserID, labelID, maxResults)
	if err != nil {
		writeMailboxError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"threads": threads})
}

// writeMailboxError maps token lifecycle failures to statuses the
// frontend can act on: 409 means "connect Gmail", 401 means "the
// connection is dead, re-consent".
func writeMailboxError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotConnected):
		writeError(w, http.StatusConflict, "gmail not connected")
	case errors.Is(err, domain.ErrNoRefreshToken), errors.Is(err, domain.ErrRefreshFailed):
		writeError(w, http.StatusUnauthorized, "gmail reauthorization required")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	default:
		writeError(w, http.StatusBadGateway, "gmail request failed")
	}
}

// Deal endpoints

func (s *Server) handleListDeals(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	deals, err := s.dealService.List(r.Context(), authCtx.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list deals")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"deals": deals})
}

func (s *Server) handleCreateDeal(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req driving.CreateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	deal, err := s.dealService.Create(r.Context(), authCtx.UserID, req)
	if err != nil {
		writeDealError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, deal)
}

func (s *Server) handleGetDeal(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	deal, err := s.dealService.Get(r.Context(), authCtx.UserID, r.PathValue("id"))
	if err != nil {
		writeDealError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deal)
}

func (s *Server) handleUpdateDeal(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req driving.UpdateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	deal, err := s.dealService.Update(r.Context(), authCtx.UserID, r.PathValue("id"), req)
	if err != nil {
		writeDealError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deal)
}

func (s *Server) handleDeleteDeal(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := s.dealService.Delete(r.Context(), authCtx.UserID, r.PathValue("id")); err != nil {
		writeDealError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func writeDealError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid deal")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "deal not found")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "not your deal")
	default:
		writeError(w, http.StatusInternalServerError, "deal operation failed")
	}
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
