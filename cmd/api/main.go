package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/loyaltytoken/loyalty-platform/internal/adapter"
	"github.com/loyaltytoken/loyalty-platform/internal/api/middleware"
	"github.com/loyaltytoken/loyalty-platform/internal/api/server"
	"github.com/loyaltytoken/loyalty-platform/internal/certificate"
	"github.com/loyaltytoken/loyalty-platform/internal/config"
	"github.com/loyaltytoken/loyalty-platform/internal/domain"
	"github.com/loyaltytoken/loyalty-platform/internal/ledger"
	"github.com/loyaltytoken/loyalty-platform/internal/logger"
	"github.com/loyaltytoken/loyalty-platform/internal/providers/ethereum"
	"github.com/loyaltytoken/loyalty-platform/internal/providers/pinata"
	"github.com/loyaltytoken/loyalty-platform/internal/ratelimit"
	"github.com/loyaltytoken/loyalty-platform/internal/redemption"
	"github.com/loyaltytoken/loyalty-platform/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags: map[string]string{
			"service": "api-server",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Loyalty Platform API")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("dsn", cfg.Database.DSN()))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize store
	dataStore, err := store.NewDBStore(db)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to initialize store", zap.Error(err))
	}

	// Initialize clock adapter
	clock := adapter.NewClock()

	// Initialize content store
	httpClient := adapter.NewHTTPClient(30*time.Second, 3)
	contentStore := pinata.NewClient(httpClient, &pinata.Config{
		APIURL:     cfg.Pinata.APIURL,
		GatewayURL: cfg.Pinata.GatewayURL,
		APIKey:     cfg.Pinata.APIKey,
		APISecret:  cfg.Pinata.APISecret,
	})

	// Throttle outbound pinning calls when a Redis endpoint is configured
	if cfg.RateLimiter.RedisAddr != "" {
		redisClient := adapter.NewRedisClient(cfg.RateLimiter.RedisAddr, cfg.RateLimiter.RedisPassword, cfg.RateLimiter.RedisDB)
		limiter, err := ratelimit.NewProxy(cfg.RateLimiter, redisClient, clock)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to initialize rate limit proxy", zap.Error(err))
		}
		defer func() {
			if err := limiter.Close(); err != nil {
				logger.ErrorCtx(ctx, err, zap.String("component", "rate_limiter"))
			}
		}()
		contentStore = pinata.WithRateLimit(contentStore, limiter)
	}

	// Initialize ledger
	operator, err := domain.ParseAddress(cfg.Ledger.OperatorAddress)
	if err != nil {
		logger.FatalCtx(ctx, "Invalid operator address", zap.Error(err))
	}
	engineAddress := operator
	if cfg.Ledger.EngineAddress != "" {
		engineAddress, err = domain.ParseAddress(cfg.Ledger.EngineAddress)
		if err != nil {
			logger.FatalCtx(ctx, "Invalid engine address", zap.Error(err))
		}
	}
	tokenLedger := ledger.New(ledger.Config{
		Owner:    operator,
		Name:     cfg.Ledger.TokenName,
		Symbol:   cfg.Ledger.TokenSymbol,
		Decimals: cfg.Ledger.TokenDecimals,
	})
	logger.InfoCtx(ctx, "Initialized token ledger",
		zap.String("operator", operator.Short()),
		zap.Int("decimals", tokenLedger.Decimals()),
	)

	// Bind to the deployed contracts when configured. The chain client is a
	// read-side check against the in-process ledger, not a hot dependency.
	if cfg.Ethereum.RPCURL != "" && cfg.Ethereum.DeploymentPath != "" {
		deployment, err := ethereum.LoadDeployment(cfg.Ethereum.DeploymentPath)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to load deployment record",
				zap.Error(err),
				zap.String("path", cfg.Ethereum.DeploymentPath))
		}

		ethClient, err := adapter.DialEthClient(ctx, cfg.Ethereum.RPCURL)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to Ethereum RPC", zap.Error(err))
		}

		chainClient, err := ethereum.NewClient(cfg.Ethereum.ChainID, ethClient, deployment)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to bind loyalty contracts", zap.Error(err))
		}
		defer chainClient.Close()

		if _, err := chainClient.RewardCost(ctx, 1); err != nil {
			logger.WarnCtx(ctx, "On-chain deployment unreachable, continuing with local ledger only", zap.Error(err))
		} else {
			logger.InfoCtx(ctx, "Bound to deployed loyalty contracts",
				zap.String("chain_id", string(deployment.ChainID)))
		}
	} else {
		logger.WarnCtx(ctx, "Ethereum deployment not configured, running local ledger only")
	}

	// Initialize certificate issuer and redemption engine
	issuer := certificate.NewIssuer(dataStore, contentStore, tokenLedger, certificate.Config{Operator: operator})
	engine := redemption.NewEngine(tokenLedger, issuer, contentStore, clock, engineAddress)

	// Create server config
	serverConfig := server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		Operator:     operator,
		GatewayURL:   cfg.Pinata.GatewayURL,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}

	// Create and start server
	srv := server.New(serverConfig, tokenLedger, engine, contentStore, dataStore)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("API server stopped")
}
