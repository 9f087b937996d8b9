package certificate

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/loyaltytoken/loyalty-platform/internal/domain"
	"github.com/loyaltytoken/loyalty-platform/internal/ledger"
	"github.com/loyaltytoken/loyalty-platform/internal/logger"
	"github.com/loyaltytoken/loyalty-platform/internal/providers/pinata"
	"github.com/loyaltytoken/loyalty-platform/internal/store"
	"github.com/loyaltytoken/loyalty-platform/internal/store/schema"
)

// Recorder records published certificate CIDs on the ledger of record
//
//go:generate mockgen -source=issuer.go -destination=../mocks/recorder.go -package=mocks -mock_names=Recorder=MockRecorder
type Recorder interface {
	// AppendCertificate appends the CID to the customer's on-ledger list
	AppendCertificate(ctx context.Context, caller, customer domain.Address, cid domain.CID) (*ledger.Receipt, error)
	// HasCertificate reports whether the CID is already recorded for the customer
	HasCertificate(customer domain.Address, cid domain.CID) bool
}

// Config holds issuer configuration
type Config struct {
	// Operator is the ledger owner address used to record certificate CIDs
	Operator domain.Address
}

// IssueRequest carries everything needed to construct a certificate for a
// committed redemption. IdempotencyKey must be stable across retries of the
// same redemption attempt.
type IssueRequest struct {
	IdempotencyKey    string
	Customer          domain.Address
	RewardID          domain.RewardID
	RewardName        string
	RewardDescription string
	Cost              *big.Int
	RedeemedAt        time.Time
}

// Issuer constructs redemption certificates and publishes them to the
// content-addressed store. The voucher code and verification hash are
// generated exactly once per idempotency key: the pending intent is persisted
// before the first publication attempt, and retries reuse it.
type Issuer struct {
	store    store.Store
	content  pinata.ContentStore
	recorder Recorder
	config   Config
}

// NewIssuer creates a certificate issuer
func NewIssuer(s store.Store, content pinata.ContentStore, recorder Recorder, config Config) *Issuer {
	return &Issuer{
		store:    s,
		content:  content,
		recorder: recorder,
		config:   config,
	}
}

// Resume re-drives publication for a previously persisted intent. Safe to
// call any number of times; a fully published intent short-circuits to the
// recorded certificate.
func (i *Issuer) Resume(ctx context.Context, idempotencyKey string) (*domain.Certificate, error) {
	pending, err := i.store.GetPendingCertificate(ctx, idempotencyKey)
	if err != nil {
		return nil, err
	}
	return i.Publish(ctx, pending)
}

// Prepare generates the voucher code and verification hash and persists the
// intent. Callers run this strictly before the redemption's debit: a storage
// failure here aborts the attempt with no funds moved, and every committed
// debit is left with a resumable intent. Nothing touches the network.
func (i *Issuer) Prepare(ctx context.Context, req IssueRequest) (*schema.PendingCertificate, error) {
	voucherCode, err := NewVoucherCode()
	if err != nil {
		return nil, err
	}

	pending := &schema.PendingCertificate{
		IdempotencyKey:    req.IdempotencyKey,
		VoucherCode:       voucherCode,
		VerificationHash:  VerificationHash(req.Customer, voucherCode, req.RedeemedAt),
		CustomerAddress:   req.Customer.String(),
		RewardID:          uint64(req.RewardID),
		RewardName:        req.RewardName,
		RewardDescription: req.RewardDescription,
		TokenCost:         req.Cost.String(),
		RedeemedAt:        req.RedeemedAt.UTC(),
		Status:            schema.PendingStatusPending,
	}
	if err := i.store.CreatePendingCertificate(ctx, pending); err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Prepared certificate intent",
		zap.String("idempotency_key", pending.IdempotencyKey),
		zap.String("voucher_code", pending.VoucherCode),
		zap.String("customer", req.Customer.Short()),
	)
	return pending, nil
}

// Abort deletes an intent whose redemption never committed, keeping it out of
// the sweeper's queue. Only valid before any publication attempt for the key.
func (i *Issuer) Abort(ctx context.Context, idempotencyKey string) error {
	return i.store.DeletePendingCertificate(ctx, idempotencyKey)
}

// Publish renders and uploads the certificate for a prepared intent and
// records the CID. When publication fails the intent survives in the store
// and the returned error wraps ErrPublicationFailed; resuming with the same
// idempotency key picks the intent back up without regenerating the voucher
// code.
func (i *Issuer) Publish(ctx context.Context, pending *schema.PendingCertificate) (*domain.Certificate, error) {
	customer := domain.Address(pending.CustomerAddress)

	// Already published: converge on the recorded certificate, repairing the
	// on-ledger CID record if an earlier resume crashed between the two writes.
	if pending.Status == schema.PendingStatusPublished {
		cert, err := i.store.GetCertificateByVoucher(ctx, pending.VoucherCode)
		if err != nil {
			return nil, err
		}
		if err := i.record(ctx, customer, domain.CID(cert.CID)); err != nil {
			return nil, err
		}
		return toDomain(cert), nil
	}

	document, err := RenderPDF(pending, "Customer "+customer.Short())
	if err != nil {
		return nil, err
	}

	cid, err := i.content.UploadFile(ctx, document, pending.VoucherCode+".pdf")
	if err != nil {
		if recordErr := i.store.RecordPublicationFailure(ctx, pending.IdempotencyKey, "content store unavailable"); recordErr != nil {
			logger.ErrorCtx(ctx, recordErr, zap.String("idempotency_key", pending.IdempotencyKey))
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPublicationFailed, err)
	}

	cert, err := i.store.MarkPublished(ctx, pending.IdempotencyKey, cid)
	if err != nil {
		return nil, err
	}
	if err := i.record(ctx, customer, cid); err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Published certificate",
		zap.String("voucher_code", cert.VoucherCode),
		zap.String("cid", cid.String()),
		zap.String("customer", customer.Short()),
	)
	return toDomain(cert), nil
}

// record appends the CID to the customer's on-ledger certificate list,
// skipping the append when a previous attempt already landed it.
func (i *Issuer) record(ctx context.Context, customer domain.Address, cid domain.CID) error {
	if i.recorder.HasCertificate(customer, cid) {
		return nil
	}
	if _, err := i.recorder.AppendCertificate(ctx, i.config.Operator, customer, cid); err != nil {
		return err
	}
	return nil
}

func toDomain(cert *schema.Certificate) *domain.Certificate {
	return &domain.Certificate{
		VoucherCode:      cert.VoucherCode,
		VerificationHash: cert.VerificationHash,
		Customer:         domain.Address(cert.CustomerAddress),
		RewardID:         domain.RewardID(cert.RewardID),
		RewardName:       cert.RewardName,
		RedeemedAt:       cert.RedeemedAt,
		CID:              domain.CID(cert.CID),
	}
}
