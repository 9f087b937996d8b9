package redemption_test

import (
	"context"
	"math/big"
	"os"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/loyaltytoken/loyalty-platform/internal/adapter"
	"github.com/loyaltytoken/loyalty-platform/internal/certificate"
	"github.com/loyaltytoken/loyalty-platform/internal/domain"
	"github.com/loyaltytoken/loyalty-platform/internal/ledger"
	"github.com/loyaltytoken/loyalty-platform/internal/logger"
	"github.com/loyaltytoken/loyalty-platform/internal/mocks"
	"github.com/loyaltytoken/loyalty-platform/internal/redemption"
	"github.com/loyaltytoken/loyalty-platform/internal/store"
	"github.com/loyaltytoken/loyalty-platform/internal/store/schema"
)

var (
	operator = domain.Address("0x0000000000000000000000000000000000000001")
	customer = domain.Address("0x742d35cc6634C0532925a3b844bC9e7595f0bEb7")
	spender  = domain.Address("0x0000000000000000000000000000000000000003")
	stranger = domain.Address("0x0000000000000000000000000000000000000004")
)

const discountReward = domain.RewardID(10)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fixture struct {
	engine  *redemption.Engine
	ledger  *ledger.Ledger
	store   store.Store
	content *mocks.MockContentStore
}

// newFixture wires a real ledger and an in-memory store behind the engine,
// registers the customer, issues 50 tokens, prices reward 10 at 50 and grants
// the engine a 50 token allowance.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	ctx := context.Background()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	s, err := store.NewDBStore(db)
	require.NoError(t, err)

	l := ledger.New(ledger.Config{Owner: operator})
	_, err = l.Register(ctx, operator, customer)
	require.NoError(t, err)
	_, err = l.Issue(ctx, operator, customer, big.NewInt(50))
	require.NoError(t, err)
	_, err = l.SetRewardCost(ctx, operator, discountReward, big.NewInt(50))
	require.NoError(t, err)
	_, err = l.Approve(ctx, customer, spender, big.NewInt(50))
	require.NoError(t, err)

	content := mocks.NewMockContentStore(ctrl)
	issuer := certificate.NewIssuer(s, content, l, certificate.Config{Operator: operator})
	engine := redemption.NewEngine(l, issuer, content, adapter.NewClock(), spender)
	return &fixture{engine: engine, ledger: l, store: s, content: content}
}

func TestRedeem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cid := domain.CID("QmS4ustL54uo8FzR9455qaxZwuMiUhyvMcX9Ba8nUH4uVv")

	f.content.EXPECT().
		UploadFile(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(cid, nil)

	receipt, err := f.engine.Redeem(ctx, customer, discountReward)
	require.NoError(t, err)

	assert.Equal(t, domain.RedemptionCompleted, receipt.Status)
	assert.NotEmpty(t, receipt.IdempotencyKey)
	assert.NotEmpty(t, receipt.DebitTx)
	require.NotNil(t, receipt.Certificate)
	assert.Equal(t, cid, receipt.Certificate.CID)
	assert.Regexp(t, `^LTT-[0-9A-F]{12}$`, receipt.Certificate.VoucherCode)

	// Tokens gone, certificate recorded
	assert.Zero(t, f.ledger.BalanceOf(customer).Sign())
	assert.Zero(t, f.ledger.Allowance(customer, spender).Sign())
	assert.Equal(t, 1, f.ledger.CertificateCount(customer))
}

func TestRedeemUsesRewardMetadataName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	metadataCID := domain.CID("QmRewardMetadata0000000000000000000000000000000")

	_, err := f.ledger.SetRewardMetadata(ctx, operator, discountReward, metadataCID)
	require.NoError(t, err)

	f.content.EXPECT().
		Fetch(gomock.Any(), metadataCID).
		Return([]byte(`{"name":"20% discount voucher","description":"20% off the next order"}`), nil)
	f.content.EXPECT().
		UploadFile(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.CID("QmXoypizjW3WknFiJnKLwHCnL72vedxjQkDDP1mXWo6uco"), nil)

	receipt, err := f.engine.Redeem(ctx, customer, discountReward)
	require.NoError(t, err)
	assert.Equal(t, "20% discount voucher", receipt.Certificate.RewardName)
}

func TestRedeemMetadataUnreachableFallsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	metadataCID := domain.CID("QmRewardMetadata0000000000000000000000000000000")

	_, err := f.ledger.SetRewardMetadata(ctx, operator, discountReward, metadataCID)
	require.NoError(t, err)

	f.content.EXPECT().
		Fetch(gomock.Any(), metadataCID).
		Return(nil, domain.ErrStoreUnavailable)
	f.content.EXPECT().
		UploadFile(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.CID("QmXoypizjW3WknFiJnKLwHCnL72vedxjQkDDP1mXWo6uco"), nil)

	receipt, err := f.engine.Redeem(ctx, customer, discountReward)
	require.NoError(t, err)
	assert.Equal(t, "Reward #10", receipt.Certificate.RewardName)
}

func TestRedeemValidationFailures(t *testing.T) {
	tests := []struct {
		name     string
		customer domain.Address
		rewardID domain.RewardID
		setup    func(t *testing.T, f *fixture)
		wantErr  error
	}{
		{
			name:     "unknown reward",
			customer: customer,
			rewardID: 99,
			wantErr:  domain.ErrRewardNotFound,
		},
		{
			name:     "delisted reward",
			customer: customer,
			rewardID: discountReward,
			setup: func(t *testing.T, f *fixture) {
				_, err := f.ledger.SetRewardCost(context.Background(), operator, discountReward, big.NewInt(0))
				require.NoError(t, err)
			},
			wantErr: domain.ErrRewardNotFound,
		},
		{
			name:     "unregistered customer",
			customer: stranger,
			rewardID: discountReward,
			wantErr:  domain.ErrCustomerNotRegistered,
		},
		{
			name:     "insufficient balance",
			customer: customer,
			rewardID: discountReward,
			setup: func(t *testing.T, f *fixture) {
				_, err := f.ledger.SetRewardCost(context.Background(), operator, discountReward, big.NewInt(80))
				require.NoError(t, err)
				_, err = f.ledger.Approve(context.Background(), customer, spender, big.NewInt(80))
				require.NoError(t, err)
			},
			wantErr: domain.ErrInsufficientBalance,
		},
		{
			name:     "insufficient allowance",
			customer: customer,
			rewardID: discountReward,
			setup: func(t *testing.T, f *fixture) {
				_, err := f.ledger.Approve(context.Background(), customer, spender, big.NewInt(10))
				require.NoError(t, err)
			},
			wantErr: domain.ErrInsufficientAllowance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(t, f)
			}

			receipt, err := f.engine.Redeem(context.Background(), tt.customer, tt.rewardID)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, domain.RedemptionFailed, receipt.Status)

			// No state change on a failed attempt
			assert.Equal(t, big.NewInt(50), f.ledger.BalanceOf(customer))
			assert.Zero(t, f.ledger.CertificateCount(customer))
		})
	}
}

// newMockStoreFixture wires the engine over a mock store so the intent
// persistence path can be faulted.
func newMockStoreFixture(t *testing.T) (*redemption.Engine, *ledger.Ledger, *mocks.MockStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	ctx := context.Background()

	l := ledger.New(ledger.Config{Owner: operator})
	_, err := l.Register(ctx, operator, customer)
	require.NoError(t, err)
	_, err = l.Issue(ctx, operator, customer, big.NewInt(50))
	require.NoError(t, err)
	_, err = l.SetRewardCost(ctx, operator, discountReward, big.NewInt(50))
	require.NoError(t, err)
	_, err = l.Approve(ctx, customer, spender, big.NewInt(50))
	require.NoError(t, err)

	st := mocks.NewMockStore(ctrl)
	content := mocks.NewMockContentStore(ctrl)
	issuer := certificate.NewIssuer(st, content, l, certificate.Config{Operator: operator})
	engine := redemption.NewEngine(l, issuer, content, adapter.NewClock(), spender)
	return engine, l, st
}

func TestRedeemIntentPersistFailureMovesNoFunds(t *testing.T) {
	engine, l, st := newMockStoreFixture(t)
	ctx := context.Background()

	st.EXPECT().
		CreatePendingCertificate(gomock.Any(), gomock.Any()).
		Return(domain.ErrStoreUnavailable)

	receipt, err := engine.Redeem(ctx, customer, discountReward)
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Equal(t, domain.RedemptionFailed, receipt.Status)
	assert.Empty(t, receipt.IdempotencyKey)

	// No debit happened, so nothing is stranded behind a missing intent
	assert.Equal(t, big.NewInt(50), l.BalanceOf(customer))
	assert.Equal(t, big.NewInt(50), l.Allowance(customer, spender))
	assert.Zero(t, l.CertificateCount(customer))
}

func TestRedeemDebitConflictWithdrawsIntent(t *testing.T) {
	engine, l, st := newMockStoreFixture(t)
	ctx := context.Background()

	// A concurrent redemption consumes the allowance between validation and
	// the debit; the prepared intent must be withdrawn with the failure.
	st.EXPECT().
		CreatePendingCertificate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ *schema.PendingCertificate) error {
			_, err := l.Approve(ctx, customer, spender, big.NewInt(10))
			return err
		})
	st.EXPECT().
		DeletePendingCertificate(gomock.Any(), gomock.Any()).
		Return(nil)

	receipt, err := engine.Redeem(ctx, customer, discountReward)
	require.ErrorIs(t, err, domain.ErrRedemptionConflict)
	assert.Equal(t, domain.RedemptionFailed, receipt.Status)
	assert.Equal(t, big.NewInt(50), l.BalanceOf(customer))
}

func TestRedeemPublicationFailureThenResume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cid := domain.CID("QmYjtig7VJQ6XsnUjqqJvj7QaMcCAwtrgNdahSiFofrE7o")

	f.content.EXPECT().
		UploadFile(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.CID(""), domain.ErrStoreUnavailable)

	receipt, err := f.engine.Redeem(ctx, customer, discountReward)
	require.NoError(t, err)
	assert.Equal(t, domain.RedemptionCertificatePending, receipt.Status)
	require.NotEmpty(t, receipt.IdempotencyKey)
	assert.Nil(t, receipt.Certificate)

	// The debit committed despite the publication failure
	assert.Zero(t, f.ledger.BalanceOf(customer).Sign())
	assert.Zero(t, f.ledger.CertificateCount(customer))

	pending, err := f.store.GetPendingCertificate(ctx, receipt.IdempotencyKey)
	require.NoError(t, err)

	// A still-failing resume stays pending
	f.content.EXPECT().
		UploadFile(gomock.Any(), gomock.Any(), pending.VoucherCode+".pdf").
		Return(domain.CID(""), domain.ErrStoreUnavailable)
	resumed, err := f.engine.Resume(ctx, receipt.IdempotencyKey)
	require.NoError(t, err)
	assert.Equal(t, domain.RedemptionCertificatePending, resumed.Status)

	// A successful resume reuses the original voucher code and never re-debits
	f.content.EXPECT().
		UploadFile(gomock.Any(), gomock.Any(), pending.VoucherCode+".pdf").
		Return(cid, nil)
	resumed, err = f.engine.Resume(ctx, receipt.IdempotencyKey)
	require.NoError(t, err)
	assert.Equal(t, domain.RedemptionCompleted, resumed.Status)
	assert.Equal(t, pending.VoucherCode, resumed.Certificate.VoucherCode)
	assert.Zero(t, f.ledger.BalanceOf(customer).Sign())
	assert.Equal(t, 1, f.ledger.CertificateCount(customer))
}

func TestResumeUnknownKey(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Resume(context.Background(), "01JD0000000000000000000099")
	require.ErrorIs(t, err, domain.ErrPendingCertificateNotFound)
}

func TestConcurrentRedemptionsDebitOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Balance and allowance cover exactly one redemption; the loser of the
	// race surfaces a conflict, not a generic funds error.
	f.content.EXPECT().
		UploadFile(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.CID("QmS4ustL54uo8FzR9455qaxZwuMiUhyvMcX9Ba8nUH4uVv"), nil).
		Times(1)

	type outcome struct {
		receipt *redemption.Receipt
		err     error
	}
	results := make(chan outcome, 2)
	for i := 0; i < 2; i++ {
		go func() {
			receipt, err := f.engine.Redeem(ctx, customer, discountReward)
			results <- outcome{receipt: receipt, err: err}
		}()
	}

	var completed, conflicted int
	for i := 0; i < 2; i++ {
		res := <-results
		switch {
		case res.err == nil && res.receipt.Status == domain.RedemptionCompleted:
			completed++
		default:
			conflicted++
			require.Error(t, res.err)
		}
	}
	assert.Equal(t, 1, completed)
	assert.Equal(t, 1, conflicted)
	assert.Zero(t, f.ledger.BalanceOf(customer).Sign())
	assert.Equal(t, 1, f.ledger.CertificateCount(customer))
}
