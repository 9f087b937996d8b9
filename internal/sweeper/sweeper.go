package sweeper

import (
	"context"
)

// Sweeper is a long-running background maintenance loop. The certificate
// publication sweeper is the only implementation; the interface keeps the
// publisher's wiring and tests decoupled from it.
//
//go:generate mockgen -source=sweeper.go -destination=../mocks/sweeper.go -package=mocks -mock_names=Sweeper=MockSweeper
type Sweeper interface {
	// Start blocks running the loop until the context is canceled or Stop
	// is called
	Start(ctx context.Context) error
	// Stop waits for in-flight work before returning, bounded by ctx
	Stop(ctx context.Context) error
	// Name identifies the sweeper in logs
	Name() string
}
