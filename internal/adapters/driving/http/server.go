package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dealdesk-labs/dealdesk-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	authService      driving.AuthService
	gmailAuthService driving.GmailAuthService
	dealService      driving.DealService
	mailboxService   driving.MailboxService

	// Infrastructure
	db          Pinger // PostgreSQL health check
	redisClient Pinger // Redis health check (optional)
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string

	// AllowedOrigins configures CORS for the frontend.
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8080,
		Version:        "dev",
		AllowedOrigins: []string{"*"},
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	authService driving.AuthService,
	gmailAuthService driving.GmailAuthService,
	dealService driving.DealService,
	mailboxService driving.MailboxService,
	db Pinger,
	redisClient Pinger, // can be nil
) *Server {
	s := &Server{
		router:           http.NewServeMux(),
		version:          cfg.Version,
		authService:      authService,
		gmailAuthService: gmailAuthService,
		dealService:      dealService,
		mailboxService:   mailboxService,
		db:               db,
		redisClient:      redisClient,
	}

	logging := NewLoggingMiddleware()
	recovery := NewRecoveryMiddleware()
	cors := NewCORSMiddleware(cfg.AllowedOrigins)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      recovery.Handler(logging.Handler(cors.Handler(s.router))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.authService)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Auth endpoints (public)
	s.router.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	s.router.HandleFunc("POST /api/v1/auth/refresh", s.handleRefresh)

	// Auth endpoints (authenticated)
	s.router.Handle("POST /api/v1/auth/logout",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleLogout)))
	s.router.Handle("GET /api/v1/me",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetMe)))

	// Gmail connection flow. Authorize and callback are public: the
	// consent flow doubles as sign-up, so there is no session yet when
	// Google redirects back.
	s.router.HandleFunc("POST /api/v1/gmail/authorize", s.handleGmailAuthorize)
	s.router.HandleFunc("GET /api/v1/gmail/callback", s.handleGmailCallback)

	s.router.Handle("GET /api/v1/gmail/status",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGmailStatus)))
	s.router.Handle("POST /api/v1/gmail/refresh",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGmailRefresh)))
	s.router.Handle("DELETE /api/v1/gmail/connection",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGmailDisconnect)))

	// Mailbox endpoints (authenticated)
	s.router.Handle("GET /api/v1/gmail/labels",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleListLabels)))
	s.router.Handle("GET /api/v1/gmail/threads",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleListThreads)))

	// Deal endpoints (authenticated)
	s.router.Handle("GET /api/v1/deals",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleListDeals)))
	s.router.Handle("POST /api/v1/deals",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleCreateDeal)))
	s.router.Handle("GET /api/v1/deals/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetDeal)))
	s.router.Handle("PATCH /api/v1/deals/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleUpdateDeal)))
	s.router.Handle("DELETE /api/v1/deals/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleDeleteDeal)))
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
