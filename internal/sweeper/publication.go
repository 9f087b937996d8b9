package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/loyaltytoken/loyalty-platform/internal/adapter"
	"github.com/loyaltytoken/loyalty-platform/internal/domain"
	"github.com/loyaltytoken/loyalty-platform/internal/logger"
	"github.com/loyaltytoken/loyalty-platform/internal/store"
)

const (
	SWEEP_CYCLE_INTERVAL = 30 * time.Second // Time to sleep between sweep cycles
)

// Resumer re-drives certificate publication for a committed redemption
type Resumer interface {
	Resume(ctx context.Context, idempotencyKey string) (*domain.Certificate, error)
}

// PublicationSweeperConfig holds configuration for the publication sweeper
type PublicationSweeperConfig struct {
	BatchSize      int // Pending intents to pick up per cycle
	WorkerPoolSize int // Concurrent publications
}

// publicationSweeper retries certificate publication for redemptions whose
// debit committed but whose certificate never reached the content store.
// Intents are picked up oldest first and resumed with their original
// idempotency key, so a sweep never mints a second voucher.
type publicationSweeper struct {
	config    *PublicationSweeperConfig
	store     store.Store
	resumer   Resumer
	pool      pond.Pool
	clock     adapter.Clock
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewPublicationSweeper creates a new certificate publication sweeper
func NewPublicationSweeper(
	config *PublicationSweeperConfig,
	st store.Store,
	resumer Resumer,
	clock adapter.Clock,
) Sweeper {
	return &publicationSweeper{
		config:    config,
		store:     st,
		resumer:   resumer,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *publicationSweeper) Name() string {
	return "certificate-publication-sweeper"
}

// Start begins the sweeper's main loop
func (s *publicationSweeper) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting certificate publication sweeper",
		zap.Int("batch_size", s.config.BatchSize),
		zap.Int("worker_pool_size", s.config.WorkerPoolSize),
	)

	s.pool = pond.NewPool(
		s.config.WorkerPoolSize,
		pond.WithQueueSize(s.config.BatchSize),
		pond.WithContext(ctx),
	)

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Publication sweeper stopping due to context cancellation", zap.Error(ctx.Err()))
			s.cleanup()
			return nil
		case <-s.stopChan:
			logger.InfoCtx(ctx, "Publication sweeper stop requested")
			s.cleanup()
			return nil
		default:
			if err := s.runSweepCycle(ctx); err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.ErrorCtx(ctx, err)
				}
			}
		}
	}
}

// cleanup stops the worker pool and waits for in-flight publications
func (s *publicationSweeper) cleanup() {
	if s.pool != nil {
		s.pool.StopAndWait()
	}
}

// Stop gracefully stops the sweeper with timeout support
func (s *publicationSweeper) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	logger.InfoCtx(ctx, "Stopping certificate publication sweeper")
	close(s.stopChan)

	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Publication sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Publication sweeper stop interrupted by context timeout")
		return ctx.Err()
	}
}

// runSweepCycle picks up one batch of pending intents and resumes them
func (s *publicationSweeper) runSweepCycle(ctx context.Context) error {
	startTime := s.clock.Now()

	pending, err := s.store.ListPendingCertificates(ctx, s.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to list pending certificates: %w", err)
	}

	if len(pending) == 0 {
		if !s.sleep(ctx, SWEEP_CYCLE_INTERVAL) {
			return ctx.Err()
		}
		return nil
	}

	logger.InfoCtx(ctx, "Found pending certificates to publish", zap.Int("count", len(pending)))

	var publishedCount, stillPendingCount atomic.Int32
	for _, intent := range pending {
		s.pool.Submit(func() {
			s.resume(ctx, intent.IdempotencyKey, &publishedCount, &stillPendingCount)
		})
	}
	s.pool.StopAndWait()

	// Recreate pool for next cycle
	s.pool = pond.NewPool(
		s.config.WorkerPoolSize,
		pond.WithQueueSize(s.config.BatchSize),
		pond.WithContext(ctx),
	)

	logger.InfoCtx(ctx, "Sweep cycle completed",
		zap.Duration("duration", s.clock.Since(startTime)),
		zap.Int("total", len(pending)),
		zap.Int32("published", publishedCount.Load()),
		zap.Int32("still_pending", stillPendingCount.Load()),
	)

	if !s.sleep(ctx, SWEEP_CYCLE_INTERVAL) {
		return ctx.Err()
	}
	return nil
}

// resume retries a single publication and updates cycle counters
func (s *publicationSweeper) resume(ctx context.Context, idempotencyKey string, publishedCount, stillPendingCount *atomic.Int32) {
	cert, err := s.resumer.Resume(ctx, idempotencyKey)
	if err != nil {
		stillPendingCount.Add(1)
		if errors.Is(err, domain.ErrPublicationFailed) || errors.Is(err, domain.ErrStoreUnavailable) {
			logger.WarnCtx(ctx, "Publication still failing, will retry next cycle",
				zap.String("idempotency_key", idempotencyKey),
				zap.Error(err),
			)
		} else {
			logger.ErrorCtx(ctx, err, zap.String("idempotency_key", idempotencyKey))
		}
		return
	}

	publishedCount.Add(1)
	logger.InfoCtx(ctx, "Published certificate",
		zap.String("idempotency_key", idempotencyKey),
		zap.String("voucher_code", cert.VoucherCode),
		zap.String("cid", cert.CID.String()),
	)
}

// sleep sleeps for the given duration but can be interrupted by context
// cancellation or a stop request. Returns true if the sleep completed.
func (s *publicationSweeper) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-s.clock.After(duration):
		return true
	case <-ctx.Done():
		return false
	case <-s.stopChan:
		return false
	}
}
