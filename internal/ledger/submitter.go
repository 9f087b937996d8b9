package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/loyaltytoken/loyalty-platform/internal/domain"
)

// TxID identifies a submitted state transition
type TxID string

// TxStatus is the lifecycle status of a submitted transition
type TxStatus string

const (
	// TxPending means the transition was accepted but not yet applied
	TxPending TxStatus = "pending"
	// TxConfirmed means the transition was applied successfully
	TxConfirmed TxStatus = "confirmed"
	// TxReverted means the transition was applied and rejected by the ledger rules
	TxReverted TxStatus = "reverted"
	// TxUnknown means the submitter has no record of the transaction
	TxUnknown TxStatus = "unknown"
)

// Receipt is returned for every submitted transition
type Receipt struct {
	TxID   TxID
	Status TxStatus
}

// Transition is a single ledger state change. Implementations perform their
// own authorization and validation inside apply so the check and the write
// are one step in the global order.
type Transition interface {
	// Kind names the transition for logging and receipts
	Kind() string

	apply(config Config, s *state) error
}

// Submitter accepts signed state transitions and reports their eventual
// status. In a chain deployment this is the transaction submission boundary;
// the local implementation applies transitions immediately in submission
// order.
type Submitter interface {
	// Submit applies the transition and returns its receipt. A transition
	// rejected by ledger rules yields a reverted receipt and the rule error;
	// a transport failure yields ErrLedgerSubmissionFailed.
	Submit(ctx context.Context, t Transition) (*Receipt, error)

	// Status reports the status of a previously submitted transition
	Status(id TxID) TxStatus
}

// localSubmitter applies transitions directly against an in-process ledger.
// Ordering is provided by the ledger's write lock.
type localSubmitter struct {
	ledger *Ledger

	mu       sync.RWMutex
	statuses map[TxID]TxStatus
}

func newLocalSubmitter(l *Ledger) *localSubmitter {
	return &localSubmitter{
		ledger:   l,
		statuses: make(map[TxID]TxStatus),
	}
}

func (s *localSubmitter) Submit(ctx context.Context, t Transition) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLedgerSubmissionFailed, err)
	}

	id := TxID(uuid.NewString())
	err := s.ledger.apply(t)

	status := TxConfirmed
	if err != nil {
		status = TxReverted
	}
	s.record(id, status)

	receipt := &Receipt{TxID: id, Status: status}
	if err != nil {
		return receipt, fmt.Errorf("%s: %w", t.Kind(), err)
	}
	return receipt, nil
}

func (s *localSubmitter) Status(id TxID) TxStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if status, ok := s.statuses[id]; ok {
		return status
	}
	return TxUnknown
}

func (s *localSubmitter) record(id TxID, status TxStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[id] = status
}
