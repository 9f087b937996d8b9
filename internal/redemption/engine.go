package redemption

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/loyaltytoken/loyalty-platform/internal/adapter"
	"github.com/loyaltytoken/loyalty-platform/internal/certificate"
	"github.com/loyaltytoken/loyalty-platform/internal/domain"
	"github.com/loyaltytoken/loyalty-platform/internal/ledger"
	"github.com/loyaltytoken/loyalty-platform/internal/logger"
	"github.com/loyaltytoken/loyalty-platform/internal/providers/pinata"
)

// Receipt is the outcome of a redemption attempt
type Receipt struct {
	// Status is the terminal status of this attempt
	Status domain.RedemptionStatus
	// IdempotencyKey resumes certificate publication for a committed debit
	IdempotencyKey string
	// DebitTx is the ledger transaction that moved the tokens
	DebitTx ledger.TxID
	// Certificate is set when publication succeeded
	Certificate *domain.Certificate
}

// Engine orchestrates a redemption attempt through its states:
// Requested -> Validated -> Debited -> CertificateIssued | Failed.
// The debit is the single commit point; certificate publication is a
// retryable side effect keyed by the attempt's idempotency key.
type Engine struct {
	ledger  *ledger.Ledger
	issuer  *certificate.Issuer
	content pinata.ContentStore
	clock   adapter.Clock
	// address is the engine's spender identity for allowance checks
	address domain.Address
}

// NewEngine creates a redemption engine debiting through the given spender address
func NewEngine(l *ledger.Ledger, issuer *certificate.Issuer, content pinata.ContentStore, clock adapter.Clock, address domain.Address) *Engine {
	return &Engine{
		ledger:  l,
		issuer:  issuer,
		content: content,
		clock:   clock,
		address: address,
	}
}

// Address returns the engine's spender address customers must approve
func (e *Engine) Address() domain.Address {
	return e.address
}

// Redeem runs one redemption attempt. Validation and funds errors are
// returned with a failed receipt and no state change. Once the debit commits
// the attempt is economically final: a publication failure yields a
// certificate_pending receipt whose idempotency key resumes publication via
// Resume, never re-debiting.
func (e *Engine) Redeem(ctx context.Context, customer domain.Address, rewardID domain.RewardID) (*Receipt, error) {
	// Requested: the reward must exist (non-zero cost)
	reward := e.ledger.Reward(rewardID)
	if !reward.Exists() {
		return failed(), fmt.Errorf("%w: reward %d", domain.ErrRewardNotFound, rewardID)
	}
	cost := reward.Cost

	// Validated: registration, balance and allowance
	if !e.ledger.IsRegistered(customer) {
		return failed(), fmt.Errorf("%w: %s", domain.ErrCustomerNotRegistered, customer.Short())
	}
	if e.ledger.BalanceOf(customer).Cmp(cost) < 0 {
		return failed(), domain.ErrInsufficientBalance
	}
	if e.ledger.Allowance(customer, e.address).Cmp(cost) < 0 {
		return failed(), domain.ErrInsufficientAllowance
	}

	redeemedAt := e.clock.Now().UTC()
	key := ulid.Make().String()
	name, description := e.rewardDisplay(ctx, reward)

	// The intent is persisted before the debit so a storage failure aborts
	// with no funds moved, and every committed debit can be resumed by key.
	pending, err := e.issuer.Prepare(ctx, certificate.IssueRequest{
		IdempotencyKey:    key,
		Customer:          customer,
		RewardID:          rewardID,
		RewardName:        name,
		RewardDescription: description,
		Cost:              cost,
		RedeemedAt:        redeemedAt,
	})
	if err != nil {
		return failed(), err
	}

	// Debited: the commit point. A failure here means a concurrent
	// redemption consumed the funds after validation; nothing moved, so the
	// prepared intent is withdrawn.
	debitReceipt, err := e.ledger.Debit(ctx, customer, e.address, cost)
	if err != nil {
		if abortErr := e.issuer.Abort(ctx, key); abortErr != nil {
			logger.ErrorCtx(ctx, abortErr, zap.String("idempotency_key", key))
		}
		if errors.Is(err, domain.ErrInsufficientBalance) || errors.Is(err, domain.ErrInsufficientAllowance) {
			return failed(), fmt.Errorf("%w: %v", domain.ErrRedemptionConflict, err)
		}
		return failed(), err
	}

	cert, err := e.issuer.Publish(ctx, pending)
	if err != nil {
		// Tokens are spent; surface the pending status instead of a failure
		// so the caller resumes with the idempotency key.
		logger.WarnCtx(ctx, "Certificate publication pending after committed debit",
			zap.String("idempotency_key", key),
			zap.String("customer", customer.Short()),
			zap.Error(err),
		)
		return &Receipt{
			Status:         domain.RedemptionCertificatePending,
			IdempotencyKey: key,
			DebitTx:        debitReceipt.TxID,
		}, nil
	}

	return &Receipt{
		Status:         domain.RedemptionCompleted,
		IdempotencyKey: key,
		DebitTx:        debitReceipt.TxID,
		Certificate:    cert,
	}, nil
}

// Resume retries certificate publication for a committed redemption. The
// persisted intent is reused as-is, so resuming never re-debits and never
// produces a second voucher code.
func (e *Engine) Resume(ctx context.Context, idempotencyKey string) (*Receipt, error) {
	cert, err := e.issuer.Resume(ctx, idempotencyKey)
	if err != nil {
		if errors.Is(err, domain.ErrPublicationFailed) || errors.Is(err, domain.ErrStoreUnavailable) {
			return &Receipt{
				Status:         domain.RedemptionCertificatePending,
				IdempotencyKey: idempotencyKey,
			}, nil
		}
		return nil, err
	}
	return &Receipt{
		Status:         domain.RedemptionCompleted,
		IdempotencyKey: idempotencyKey,
		Certificate:    cert,
	}, nil
}

// rewardDisplay resolves the reward's display name and description from its
// published metadata, falling back to a generic name when the metadata is
// unset or unreachable. Publication must not block on catalog metadata.
func (e *Engine) rewardDisplay(ctx context.Context, reward *domain.Reward) (string, string) {
	name := fmt.Sprintf("Reward #%d", reward.ID)
	if reward.MetadataCID == "" {
		return name, ""
	}

	content, err := e.content.Fetch(ctx, reward.MetadataCID)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to fetch reward metadata",
			zap.String("cid", reward.MetadataCID.String()),
			zap.Error(err),
		)
		return name, ""
	}
	var metadata domain.RewardMetadata
	if err := json.Unmarshal(content, &metadata); err != nil {
		logger.WarnCtx(ctx, "Malformed reward metadata",
			zap.String("cid", reward.MetadataCID.String()),
			zap.Error(err),
		)
		return name, ""
	}
	if metadata.Name != "" {
		name = metadata.Name
	}
	return name, metadata.Description
}

func failed() *Receipt {
	return &Receipt{Status: domain.RedemptionFailed}
}
