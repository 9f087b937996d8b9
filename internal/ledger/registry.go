package ledger

import (
	"context"

	"github.com/loyaltytoken/loyalty-platform/internal/domain"
)

// registerTransition marks an address as a participant. Registering an
// already-registered address is a no-op so the operation stays idempotent
// under retry.
type registerTransition struct {
	caller   domain.Address
	customer domain.Address
}

func (t *registerTransition) Kind() string { return "registry.register" }

func (t *registerTransition) apply(config Config, s *state) error {
	if !t.caller.Equal(config.Owner) {
		return domain.ErrUnauthorized
	}
	s.registered[t.customer] = true
	return nil
}

// Register marks the customer address as an authorized participant. Owner only.
func (l *Ledger) Register(ctx context.Context, caller, customer domain.Address) (*Receipt, error) {
	return l.submitter.Submit(ctx, &registerTransition{caller: caller, customer: customer})
}

// IsRegistered reports whether the address is an authorized participant
func (l *Ledger) IsRegistered(addr domain.Address) bool {
	var registered bool
	l.read(func(s *state) {
		registered = s.registered[addr]
	})
	return registered
}
