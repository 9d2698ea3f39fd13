// Package http provides the HTTP server, routing, and middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerHTTP "github.com/hearthledger/hearthledger/internal/ledger/http"
	sharingHTTP "github.com/hearthledger/hearthledger/internal/sharing/http"
	vaultHTTP "github.com/hearthledger/hearthledger/internal/vault/http"
)

// Handlers groups the route handlers registered on the API server.
type Handlers struct {
	Key     *vaultHTTP.KeyHandler
	Session *vaultHTTP.SessionHandler
	Share   *sharingHTTP.ShareHandler
	Default *sharingHTTP.DefaultHandler
	Entity  *ledgerHTTP.EntityHandler
}

// Options carries the optional middleware configuration for the API server.
type Options struct {
	// MetricsMiddleware records per-route HTTP metrics. Nil disables it.
	MetricsMiddleware gin.HandlerFunc

	// UnlockRateLimit throttles unlock attempts per user. Nil disables it.
	UnlockRateLimit gin.HandlerFunc

	CORSEnabled      bool
	CORSAllowOrigins string
}

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	db     *sql.DB
	logger *slog.Logger
}

// NewServer creates the API server with all routes and middleware registered.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
	handlers Handlers,
	opts Options,
) *Server {
	s := &Server{
		db:     db,
		logger: logger,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(opts.CORSEnabled, opts.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if opts.MetricsMiddleware != nil {
		router.Use(opts.MetricsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	v1.Use(UserIdentityMiddleware())

	if handlers.Key != nil {
		v1.POST("/keys", handlers.Key.EnableProtectionHandler)
		v1.POST("/keys/escrow-backup", handlers.Key.EscrowBackupHandler)
	}

	if handlers.Session != nil {
		v1.GET("/session", handlers.Session.StatusHandler)
		v1.POST("/session/lock", handlers.Session.LockHandler)
		v1.POST("/session/lock-all", handlers.Session.LockAllHandler)

		// Unlock is the password-guessing surface, so it alone is throttled.
		unlock := v1.Group("/session")
		if opts.UnlockRateLimit != nil {
			unlock.Use(opts.UnlockRateLimit)
		}
		unlock.POST("/unlock", handlers.Session.UnlockHandler)
	}

	if handlers.Share != nil {
		v1.POST("/shares", handlers.Share.CreateShareHandler)
		v1.GET("/shares/:entity_type/:entity_id", handlers.Share.ListSharesHandler)
		v1.PUT("/shares/:entity_type/:entity_id/:recipient_id", handlers.Share.UpdatePermissionsHandler)
		v1.DELETE("/shares/:entity_type/:entity_id/:recipient_id", handlers.Share.RevokeShareHandler)
	}

	if handlers.Default != nil {
		v1.PUT("/sharing-defaults", handlers.Default.SetDefaultHandler)
		v1.GET("/sharing-defaults", handlers.Default.ListDefaultsHandler)
		v1.DELETE("/sharing-defaults/:recipient_id/:entity_type", handlers.Default.DeleteDefaultHandler)
	}

	if handlers.Entity != nil {
		v1.POST("/entities", handlers.Entity.CreateEntityHandler)
		v1.GET("/entities/:entity_type", handlers.Entity.ListEntitiesHandler)
		v1.GET("/entities/:entity_type/:entity_id", handlers.Entity.GetEntityHandler)
		v1.PUT("/entities/:entity_type/:entity_id", handlers.Entity.UpdateEntityHandler)
		v1.DELETE("/entities/:entity_type/:entity_id", handlers.Entity.DeleteEntityHandler)
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can take traffic. The database
// is the only hard dependency.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	ready := true

	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(pingCtx); err != nil {
			components["database"] = "error"
			ready = false
		} else {
			components["database"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}
