package store

import (
	"context"

	"github.com/loyaltytoken/loyalty-platform/internal/domain"
	"github.com/loyaltytoken/loyalty-platform/internal/store/schema"
)

// Store defines the interface for certificate persistence
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// CreatePendingCertificate persists a certificate intent before its first
	// publication attempt
	CreatePendingCertificate(ctx context.Context, pending *schema.PendingCertificate) error
	// GetPendingCertificate retrieves a pending certificate by idempotency key
	GetPendingCertificate(ctx context.Context, idempotencyKey string) (*schema.PendingCertificate, error)
	// ListPendingCertificates returns up to limit unpublished intents, oldest first
	ListPendingCertificates(ctx context.Context, limit int) ([]schema.PendingCertificate, error)
	// DeletePendingCertificate removes an intent whose redemption never
	// committed, keeping it out of the publication queue
	DeletePendingCertificate(ctx context.Context, idempotencyKey string) error
	// RecordPublicationFailure increments the attempt counter and stores the reason
	RecordPublicationFailure(ctx context.Context, idempotencyKey string, reason string) error
	// MarkPublished finalizes the intent and writes the certificate row in one
	// transaction
	MarkPublished(ctx context.Context, idempotencyKey string, cid domain.CID) (*schema.Certificate, error)

	// GetCertificateByVoucher retrieves a published certificate by voucher code
	GetCertificateByVoucher(ctx context.Context, voucherCode string) (*schema.Certificate, error)
	// ListCertificatesByCustomer returns the customer's certificates in issuance order
	ListCertificatesByCustomer(ctx context.Context, customer domain.Address) ([]schema.Certificate, error)
	// CountCertificatesByCustomer returns the number of published certificates
	CountCertificatesByCustomer(ctx context.Context, customer domain.Address) (int64, error)
}
