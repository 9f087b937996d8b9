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
	"github.com/loyaltytoken/loyalty-platform/internal/certificate"
	"github.com/loyaltytoken/loyalty-platform/internal/config"
	"github.com/loyaltytoken/loyalty-platform/internal/domain"
	"github.com/loyaltytoken/loyalty-platform/internal/ledger"
	"github.com/loyaltytoken/loyalty-platform/internal/logger"
	"github.com/loyaltytoken/loyalty-platform/internal/providers/pinata"
	"github.com/loyaltytoken/loyalty-platform/internal/ratelimit"
	"github.com/loyaltytoken/loyalty-platform/internal/store"
	"github.com/loyaltytoken/loyalty-platform/internal/sweeper"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

// replicaRecorder appends certificate CIDs on a fresh in-process ledger
// replica. Customers with pending intents were registered when their
// redemption was accepted, so the replica re-registers them locally before
// appending.
type replicaRecorder struct {
	ledger   *ledger.Ledger
	operator domain.Address
}

func (r *replicaRecorder) AppendCertificate(ctx context.Context, caller, customer domain.Address, cid domain.CID) (*ledger.Receipt, error) {
	if !r.ledger.IsRegistered(customer) {
		if _, err := r.ledger.Register(ctx, r.operator, customer); err != nil {
			return nil, err
		}
	}
	return r.ledger.AppendCertificate(ctx, caller, customer, cid)
}

func (r *replicaRecorder) HasCertificate(customer domain.Address, cid domain.CID) bool {
	return r.ledger.HasCertificate(customer, cid)
}

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadPublisherConfig(*configFile, *envPath)
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
			"service": "publisher",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Certificate Publisher")

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

	// Initialize ledger and issuer. The publisher only appends certificate
	// CIDs for already-debited redemptions, so it runs with the operator
	// identity alone.
	operator, err := domain.ParseAddress(cfg.Ledger.OperatorAddress)
	if err != nil {
		logger.FatalCtx(ctx, "Invalid operator address", zap.Error(err))
	}
	tokenLedger := ledger.New(ledger.Config{
		Owner:    operator,
		Name:     cfg.Ledger.TokenName,
		Symbol:   cfg.Ledger.TokenSymbol,
		Decimals: cfg.Ledger.TokenDecimals,
	})
	recorder := &replicaRecorder{ledger: tokenLedger, operator: operator}
	issuer := certificate.NewIssuer(dataStore, contentStore, recorder, certificate.Config{Operator: operator})

	// Initialize publication sweeper
	sweeperConfig := &sweeper.PublicationSweeperConfig{
		BatchSize:      cfg.Sweeper.BatchSize,
		WorkerPoolSize: cfg.Sweeper.Worker.WorkerPoolSize,
	}
	publicationSweeper := sweeper.NewPublicationSweeper(sweeperConfig, dataStore, issuer, clock)

	logger.InfoCtx(ctx, "Initialized certificate publication sweeper (continuous mode)",
		zap.Int("batch_size", cfg.Sweeper.BatchSize),
		zap.Int("worker_pool_size", cfg.Sweeper.Worker.WorkerPoolSize),
	)

	// Start the sweeper in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := publicationSweeper.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.ErrorCtx(ctx, err)
	}

	// Cancel context to stop the sweeper
	cancel()

	// Give the sweeper time to shut down gracefully
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()

	if err := publicationSweeper.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err)
	}

	logger.InfoCtx(shutdownCtx, "Publisher stopped")
}
