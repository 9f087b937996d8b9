package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/loyaltytoken/loyalty-platform/internal/domain"
	"github.com/loyaltytoken/loyalty-platform/internal/store"
	"github.com/loyaltytoken/loyalty-platform/internal/store/schema"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	s, err := store.NewDBStore(db)
	require.NoError(t, err)
	return s
}

func newPending(key, voucher string) *schema.PendingCertificate {
	return &schema.PendingCertificate{
		IdempotencyKey:   key,
		VoucherCode:      voucher,
		VerificationHash: "A1B2C3D4E5F60718",
		CustomerAddress:  "0x742d35cc6634C0532925a3b844bC9e7595f0bEb7",
		RewardID:         10,
		RewardName:       "20% discount voucher",
		TokenCost:        "50",
		RedeemedAt:       time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		Status:           schema.PendingStatusPending,
	}
}

func TestPendingCertificateRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pending := newPending("01JD0000000000000000000000", "LTT-0123456789AB")
	require.NoError(t, s.CreatePendingCertificate(ctx, pending))

	loaded, err := s.GetPendingCertificate(ctx, pending.IdempotencyKey)
	require.NoError(t, err)
	assert.Equal(t, pending.VoucherCode, loaded.VoucherCode)
	assert.Equal(t, pending.VerificationHash, loaded.VerificationHash)
	assert.Equal(t, schema.PendingStatusPending, loaded.Status)
	assert.Zero(t, loaded.Attempts)

	_, err = s.GetPendingCertificate(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrPendingCertificateNotFound)
}

func TestRecordPublicationFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pending := newPending("01JD0000000000000000000001", "LTT-0123456789AC")
	require.NoError(t, s.CreatePendingCertificate(ctx, pending))

	require.NoError(t, s.RecordPublicationFailure(ctx, pending.IdempotencyKey, "content store unavailable"))
	require.NoError(t, s.RecordPublicationFailure(ctx, pending.IdempotencyKey, "content store unavailable"))

	loaded, err := s.GetPendingCertificate(ctx, pending.IdempotencyKey)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Attempts)
	assert.Equal(t, "content store unavailable", loaded.LastError)

	err = s.RecordPublicationFailure(ctx, "missing", "x")
	assert.ErrorIs(t, err, domain.ErrPendingCertificateNotFound)
}

func TestMarkPublished(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pending := newPending("01JD0000000000000000000002", "LTT-0123456789AD")
	require.NoError(t, s.CreatePendingCertificate(ctx, pending))

	cid := domain.CID("QmS4ustL54uo8FzR9455qaxZwuMiUhyvMcX9Ba8nUH4uVv")
	cert, err := s.MarkPublished(ctx, pending.IdempotencyKey, cid)
	require.NoError(t, err)
	assert.Equal(t, pending.VoucherCode, cert.VoucherCode)
	assert.Equal(t, cid.String(), cert.CID)

	loaded, err := s.GetPendingCertificate(ctx, pending.IdempotencyKey)
	require.NoError(t, err)
	assert.Equal(t, schema.PendingStatusPublished, loaded.Status)
	assert.Equal(t, cid.String(), loaded.CID)
}

// Resuming an already-published intent returns the original certificate
// instead of creating a duplicate row.
func TestMarkPublishedIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pending := newPending("01JD0000000000000000000003", "LTT-0123456789AE")
	require.NoError(t, s.CreatePendingCertificate(ctx, pending))

	cid := domain.CID("QmS4ustL54uo8FzR9455qaxZwuMiUhyvMcX9Ba8nUH4uVv")
	first, err := s.MarkPublished(ctx, pending.IdempotencyKey, cid)
	require.NoError(t, err)

	second, err := s.MarkPublished(ctx, pending.IdempotencyKey, cid)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.VoucherCode, second.VoucherCode)

	customer := domain.Address(pending.CustomerAddress)
	count, err := s.CountCertificatesByCustomer(ctx, customer)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestMarkPublishedUnknownKey(t *testing.T) {
	s := newTestStore(t)

	_, err := s.MarkPublished(context.Background(), "missing", "QmX")
	assert.ErrorIs(t, err, domain.ErrPendingCertificateNotFound)
}

func TestListPendingCertificates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, key := range []string{
		"01JD0000000000000000000004",
		"01JD0000000000000000000005",
		"01JD0000000000000000000006",
	} {
		pending := newPending(key, "LTT-01234567890"+string(rune('A'+i)))
		require.NoError(t, s.CreatePendingCertificate(ctx, pending))
	}

	// Publish one; it must drop out of the pending list
	_, err := s.MarkPublished(ctx, "01JD0000000000000000000005", "QmX")
	require.NoError(t, err)

	pendings, err := s.ListPendingCertificates(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pendings, 2)

	limited, err := s.ListPendingCertificates(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDeletePendingCertificate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pending := newPending("01JD0000000000000000000007", "LTT-0123456789AF")
	require.NoError(t, s.CreatePendingCertificate(ctx, pending))

	require.NoError(t, s.DeletePendingCertificate(ctx, pending.IdempotencyKey))

	_, err := s.GetPendingCertificate(ctx, pending.IdempotencyKey)
	assert.ErrorIs(t, err, domain.ErrPendingCertificateNotFound)

	err = s.DeletePendingCertificate(ctx, pending.IdempotencyKey)
	assert.ErrorIs(t, err, domain.ErrPendingCertificateNotFound)
}

func TestCertificateQueries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	customer := domain.Address("0x742d35cc6634C0532925a3b844bC9e7595f0bEb7")

	vouchers := []string{"LTT-AAAAAAAAAAAA", "LTT-BBBBBBBBBBBB"}
	for i, voucher := range vouchers {
		pending := newPending("01JD000000000000000000001"+string(rune('0'+i)), voucher)
		require.NoError(t, s.CreatePendingCertificate(ctx, pending))
		_, err := s.MarkPublished(ctx, pending.IdempotencyKey, domain.CID("Qm"+voucher))
		require.NoError(t, err)
	}

	cert, err := s.GetCertificateByVoucher(ctx, "LTT-AAAAAAAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, "QmLTT-AAAAAAAAAAAA", cert.CID)

	_, err = s.GetCertificateByVoucher(ctx, "LTT-MISSING00000")
	assert.ErrorIs(t, err, domain.ErrCertificateNotFound)

	certs, err := s.ListCertificatesByCustomer(ctx, customer)
	require.NoError(t, err)
	require.Len(t, certs, 2)
	assert.Equal(t, vouchers[0], certs[0].VoucherCode)
	assert.Equal(t, vouchers[1], certs[1].VoucherCode)

	count, err := s.CountCertificatesByCustomer(ctx, customer)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	none, err := s.CountCertificatesByCustomer(ctx, domain.Address("0x0000000000000000000000000000000000000009"))
	require.NoError(t, err)
	assert.Zero(t, none)
}
