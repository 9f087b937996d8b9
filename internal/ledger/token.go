package ledger

import (
	"context"
	"fmt"
	"math/big"

	"github.com/loyaltytoken/loyalty-platform/internal/domain"
)

// issueTransition mints tokens to a registered customer, owner only
type issueTransition struct {
	caller domain.Address
	to     domain.Address
	amount *big.Int
}

func (t *issueTransition) Kind() string { return "token.issue" }

func (t *issueTransition) apply(config Config, s *state) error {
	if !t.caller.Equal(config.Owner) {
		return domain.ErrUnauthorized
	}
	if t.amount == nil || t.amount.Sign() <= 0 {
		return fmt.Errorf("%w: issue amount must be positive", domain.ErrInvalidAmount)
	}
	if !s.registered[t.to] {
		return fmt.Errorf("%w: recipient %s", domain.ErrCustomerNotRegistered, t.to.Short())
	}

	balance := s.balances[t.to]
	if balance == nil {
		balance = new(big.Int)
	}
	s.balances[t.to] = new(big.Int).Add(balance, t.amount)
	return nil
}

// approveTransition sets allowance(owner -> spender) to amount. Overwrite
// semantics: a fresh approval replaces any prior value, it never sums.
type approveTransition struct {
	owner   domain.Address
	spender domain.Address
	amount  *big.Int
}

func (t *approveTransition) Kind() string { return "token.approve" }

func (t *approveTransition) apply(_ Config, s *state) error {
	if t.amount == nil || t.amount.Sign() < 0 {
		return fmt.Errorf("%w: approval amount must not be negative", domain.ErrInvalidAmount)
	}
	spenders := s.allowances[t.owner]
	if spenders == nil {
		spenders = make(map[domain.Address]*big.Int)
		s.allowances[t.owner] = spenders
	}
	spenders[t.spender] = new(big.Int).Set(t.amount)
	return nil
}

// debitTransition is the commit point of a redemption: it checks balance and
// allowance and decrements both, all inside one transition, so two concurrent
// debits against the same owner can never both observe sufficient funds.
type debitTransition struct {
	owner   domain.Address
	spender domain.Address
	amount  *big.Int
}

func (t *debitTransition) Kind() string { return "token.debit" }

func (t *debitTransition) apply(_ Config, s *state) error {
	if t.amount == nil || t.amount.Sign() <= 0 {
		return fmt.Errorf("%w: debit amount must be positive", domain.ErrInvalidAmount)
	}

	balance := s.balances[t.owner]
	if balance == nil || balance.Cmp(t.amount) < 0 {
		return domain.ErrInsufficientBalance
	}
	allowance := s.allowances[t.owner][t.spender]
	if allowance == nil || allowance.Cmp(t.amount) < 0 {
		return domain.ErrInsufficientAllowance
	}

	s.balances[t.owner] = new(big.Int).Sub(balance, t.amount)
	s.allowances[t.owner][t.spender] = new(big.Int).Sub(allowance, t.amount)
	return nil
}

// Issue mints amount to a registered customer. Owner only.
func (l *Ledger) Issue(ctx context.Context, caller, to domain.Address, amount *big.Int) (*Receipt, error) {
	return l.submitter.Submit(ctx, &issueTransition{caller: caller, to: to, amount: amount})
}

// Approve sets the spender's allowance over the owner's balance to exactly
// amount, replacing any previous approval.
func (l *Ledger) Approve(ctx context.Context, owner, spender domain.Address, amount *big.Int) (*Receipt, error) {
	return l.submitter.Submit(ctx, &approveTransition{owner: owner, spender: spender, amount: amount})
}

// Debit atomically consumes amount from the owner's balance and the
// spender's allowance.
func (l *Ledger) Debit(ctx context.Context, owner, spender domain.Address, amount *big.Int) (*Receipt, error) {
	return l.submitter.Submit(ctx, &debitTransition{owner: owner, spender: spender, amount: amount})
}

// BalanceOf returns the customer's balance, zero for unknown addresses
func (l *Ledger) BalanceOf(addr domain.Address) *big.Int {
	balance := new(big.Int)
	l.read(func(s *state) {
		if b := s.balances[addr]; b != nil {
			balance.Set(b)
		}
	})
	return balance
}

// Allowance returns the remaining amount the spender may debit from the owner
func (l *Ledger) Allowance(owner, spender domain.Address) *big.Int {
	allowance := new(big.Int)
	l.read(func(s *state) {
		if a := s.allowances[owner][spender]; a != nil {
			allowance.Set(a)
		}
	})
	return allowance
}
