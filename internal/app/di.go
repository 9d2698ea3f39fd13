// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/hearthledger/hearthledger/internal/config"
	"github.com/hearthledger/hearthledger/internal/database"
	"github.com/hearthledger/hearthledger/internal/http"
	ledgerHTTP "github.com/hearthledger/hearthledger/internal/ledger/http"
	ledgerUsecase "github.com/hearthledger/hearthledger/internal/ledger/usecase"
	"github.com/hearthledger/hearthledger/internal/metrics"
	sharingHTTP "github.com/hearthledger/hearthledger/internal/sharing/http"
	sharingUsecase "github.com/hearthledger/hearthledger/internal/sharing/usecase"
	vaultHTTP "github.com/hearthledger/hearthledger/internal/vault/http"
	vaultService "github.com/hearthledger/hearthledger/internal/vault/service"
	vaultUsecase "github.com/hearthledger/hearthledger/internal/vault/usecase"
)

// Container holds all application dependencies and provides methods to access
// them. Components are created lazily on first access.
type Container struct {
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Vault
	dekRepo        vaultUsecase.DekRepository
	userKeyRepo    vaultUsecase.UserKeyRepository
	fieldCodec     vaultService.FieldCodec
	keyPairManager vaultService.KeyPairManager
	keyWrapper     vaultService.KeyWrapper
	sessionStore   vaultService.SessionStore
	escrowService  vaultService.EscrowService
	keyUseCase     vaultUsecase.KeyUseCase
	dekUseCase     vaultUsecase.DekUseCase

	// Sharing
	shareRepo      sharingUsecase.ShareRepository
	defaultRepo    sharingUsecase.DefaultRepository
	shareUseCase   sharingUsecase.ShareUseCase
	defaultUseCase sharingUsecase.DefaultUseCase

	// Ledger
	entityRepo    ledgerUsecase.EntityRepository
	entityUseCase ledgerUsecase.EntityUseCase

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization guards
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	txManagerInit       sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	dekRepoInit         sync.Once
	userKeyRepoInit     sync.Once
	servicesInit        sync.Once
	keyUseCaseInit      sync.Once
	dekUseCaseInit      sync.Once
	shareRepoInit       sync.Once
	defaultRepoInit     sync.Once
	shareUseCaseInit    sync.Once
	defaultUseCaseInit  sync.Once
	entityRepoInit      sync.Once
	entityUseCaseInit   sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided
// configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := database.Connect(database.Config{
			Driver:             c.config.DBDriver,
			ConnectionString:   c.config.DBConnectionString,
			MaxOpenConnections: c.config.DBMaxOpenConnections,
			MaxIdleConnections: c.config.DBMaxIdleConnections,
			ConnMaxLifetime:    c.config.DBConnMaxLifetime,
		})
		if err != nil {
			c.initErrors["db"] = fmt.Errorf("failed to connect to database: %w", err)
			return
		}
		c.db = db
	})
	if err, exists := c.initErrors["db"]; exists {
		return nil, err
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["txManager"] = fmt.Errorf("failed to get database for tx manager: %w", err)
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if err, exists := c.initErrors["txManager"]; exists {
		return nil, err
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are
// disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if err, exists := c.initErrors["metricsProvider"]; exists {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder is
// used when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to create business metrics: %w", err)
			return
		}
		c.businessMetrics = bm
	})
	if err, exists := c.initErrors["businessMetrics"]; exists {
		return nil, err
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if err, exists := c.initErrors["httpServer"]; exists {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if err, exists := c.initErrors["metricsServer"]; exists {
		return nil, err
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Clearing sessions on exit keeps no private key in memory longer than
	// the process needs it.
	if c.sessionStore != nil {
		c.sessionStore.ClearAll()
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates a structured logger based on the configured level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initHTTPServer creates the API server with all its handlers and middleware.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	keyUseCase, err := c.KeyUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get key use case for http server: %w", err)
	}
	shareUseCase, err := c.ShareUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get share use case for http server: %w", err)
	}
	defaultUseCase, err := c.DefaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get default use case for http server: %w", err)
	}
	entityUseCase, err := c.EntityUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get entity use case for http server: %w", err)
	}

	handlers := http.Handlers{
		Key:     vaultHTTP.NewKeyHandler(keyUseCase, logger),
		Session: vaultHTTP.NewSessionHandler(keyUseCase, logger),
		Share:   sharingHTTP.NewShareHandler(shareUseCase, logger),
		Default: sharingHTTP.NewDefaultHandler(defaultUseCase, logger),
		Entity:  ledgerHTTP.NewEntityHandler(entityUseCase, logger),
	}

	opts := http.Options{
		CORSEnabled:      c.config.CORSEnabled,
		CORSAllowOrigins: c.config.CORSAllowOrigins,
	}

	if provider, err := c.MetricsProvider(); err != nil {
		return nil, err
	} else if provider != nil {
		opts.MetricsMiddleware = metrics.HTTPMetricsMiddleware(
			provider.MeterProvider(),
			c.config.MetricsNamespace,
		)
	}

	if c.config.UnlockRateLimitEnabled {
		opts.UnlockRateLimit = http.UnlockRateLimitMiddleware(
			c.config.UnlockRateLimitRequestsPerSec,
			c.config.UnlockRateLimitBurst,
			logger,
		)
	}

	return http.NewServer(
		db,
		c.config.ServerHost,
		c.config.ServerPort,
		logger,
		handlers,
		opts,
	), nil
}
