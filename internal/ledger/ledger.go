package ledger

import (
	"math/big"
	"sync"

	"github.com/loyaltytoken/loyalty-platform/internal/domain"
)

// Config holds construction-time ledger parameters
type Config struct {
	// Owner is the only address allowed to mint, register customers and
	// mutate the reward catalog
	Owner domain.Address
	// Name is the token display name
	Name string
	// Symbol is the token ticker symbol
	Symbol string
	// Decimals is the fixed decimal exponent of the smallest token unit
	Decimals int
}

// state is the ledger of record: balances, allowances, the customer registry,
// the reward catalog and per-customer certificate lists. It is only ever
// mutated through transitions applied in submission order.
type state struct {
	balances     map[domain.Address]*big.Int
	allowances   map[domain.Address]map[domain.Address]*big.Int
	registered   map[domain.Address]bool
	rewards      map[domain.RewardID]*domain.Reward
	certificates map[domain.Address][]domain.CID
}

func newState() *state {
	return &state{
		balances:     make(map[domain.Address]*big.Int),
		allowances:   make(map[domain.Address]map[domain.Address]*big.Int),
		registered:   make(map[domain.Address]bool),
		rewards:      make(map[domain.RewardID]*domain.Reward),
		certificates: make(map[domain.Address][]domain.CID),
	}
}

// Ledger owns the loyalty ledger state. Mutations are expressed as
// transitions and funneled through a Submitter so their application order is
// a single global sequence, matching how a chain deployment serializes calls
// through consensus. Reads take the same lock and therefore always observe a
// transition boundary.
type Ledger struct {
	config Config

	mu        sync.RWMutex
	state     *state
	submitter Submitter
}

// New creates a ledger with the given construction parameters. Amount
// semantics follow Config.Decimals; the owner address gates every mutating
// catalog/registry/mint operation.
func New(config Config) *Ledger {
	if config.Name == "" {
		config.Name = domain.TOKEN_NAME
	}
	if config.Symbol == "" {
		config.Symbol = domain.TOKEN_SYMBOL
	}
	if config.Decimals == 0 {
		config.Decimals = domain.TOKEN_DECIMALS
	}
	l := &Ledger{
		config: config,
		state:  newState(),
	}
	l.submitter = newLocalSubmitter(l)
	return l
}

// Owner returns the ledger owner address
func (l *Ledger) Owner() domain.Address {
	return l.config.Owner
}

// Name returns the token display name
func (l *Ledger) Name() string {
	return l.config.Name
}

// Symbol returns the token ticker symbol
func (l *Ledger) Symbol() string {
	return l.config.Symbol
}

// Decimals returns the token's fixed decimal exponent
func (l *Ledger) Decimals() int {
	return l.config.Decimals
}

// Submitter returns the submission interface the ledger applies transitions through
func (l *Ledger) Submitter() Submitter {
	return l.submitter
}

// apply runs a transition against the state under the write lock. The lock is
// what makes each transition a single indivisible step relative to every
// other transition and read.
func (l *Ledger) apply(t Transition) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return t.apply(l.config, l.state)
}

// read runs fn against the state under the read lock
func (l *Ledger) read(fn func(s *state)) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn(l.state)
}
