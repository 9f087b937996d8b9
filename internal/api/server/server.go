package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/loyaltytoken/loyalty-platform/internal/api/middleware"
	"github.com/loyaltytoken/loyalty-platform/internal/api/rest"
	"github.com/loyaltytoken/loyalty-platform/internal/domain"
	"github.com/loyaltytoken/loyalty-platform/internal/ledger"
	"github.com/loyaltytoken/loyalty-platform/internal/logger"
	"github.com/loyaltytoken/loyalty-platform/internal/providers/pinata"
	"github.com/loyaltytoken/loyalty-platform/internal/redemption"
	"github.com/loyaltytoken/loyalty-platform/internal/store"
)

// Config holds the server configuration
type Config struct {
	Debug        bool
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Operator     domain.Address
	GatewayURL   string
	Auth         middleware.AuthConfig
}

// Server wraps the HTTP server
type Server struct {
	config     Config
	ledger     *ledger.Ledger
	engine     *redemption.Engine
	content    pinata.ContentStore
	store      store.Store
	httpServer *http.Server
}

// New creates a new API server
func New(cfg Config, l *ledger.Ledger, engine *redemption.Engine, content pinata.ContentStore, st store.Store) *Server {
	return &Server{
		config:  cfg,
		ledger:  l,
		engine:  engine,
		content: content,
		store:   st,
	}
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Setup middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS())

	// Create REST handler
	handler := rest.NewHandler(rest.HandlerConfig{
		Operator:   s.config.Operator,
		GatewayURL: s.config.GatewayURL,
	}, s.ledger, s.engine, s.content, s.store)

	// Setup REST routes
	rest.SetupRoutes(router, handler, s.config.Auth)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
