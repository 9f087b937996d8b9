package ledger

import (
	"context"
	"fmt"

	"github.com/loyaltytoken/loyalty-platform/internal/domain"
)

// appendCertificateTransition records a published certificate CID against a
// registered customer. The per-customer list is append-only.
type appendCertificateTransition struct {
	caller   domain.Address
	customer domain.Address
	cid      domain.CID
}

func (t *appendCertificateTransition) Kind() string { return "certificate.append" }

func (t *appendCertificateTransition) apply(config Config, s *state) error {
	if !t.caller.Equal(config.Owner) {
		return domain.ErrUnauthorized
	}
	if !s.registered[t.customer] {
		return fmt.Errorf("%w: %s", domain.ErrCustomerNotRegistered, t.customer.Short())
	}
	s.certificates[t.customer] = append(s.certificates[t.customer], t.cid)
	return nil
}

// AppendCertificate records a certificate CID against the customer. Owner only.
func (l *Ledger) AppendCertificate(ctx context.Context, caller, customer domain.Address, cid domain.CID) (*Receipt, error) {
	return l.submitter.Submit(ctx, &appendCertificateTransition{caller: caller, customer: customer, cid: cid})
}

// CertificatesOf returns the customer's certificate CIDs in issuance order
func (l *Ledger) CertificatesOf(customer domain.Address) []domain.CID {
	var cids []domain.CID
	l.read(func(s *state) {
		cids = append(cids, s.certificates[customer]...)
	})
	return cids
}

// HasCertificate reports whether the CID is already recorded for the customer
func (l *Ledger) HasCertificate(customer domain.Address, cid domain.CID) bool {
	var found bool
	l.read(func(s *state) {
		for _, recorded := range s.certificates[customer] {
			if recorded == cid {
				found = true
				return
			}
		}
	})
	return found
}

// CertificateCount returns the number of certificates recorded for the customer
func (l *Ledger) CertificateCount(customer domain.Address) int {
	var count int
	l.read(func(s *state) {
		count = len(s.certificates[customer])
	})
	return count
}
