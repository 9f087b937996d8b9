package ethereum_test

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loyaltytoken/loyalty-platform/internal/domain"
	"github.com/loyaltytoken/loyalty-platform/internal/mocks"
	"github.com/loyaltytoken/loyalty-platform/internal/providers/ethereum"
)

func newWriterFixture(t *testing.T) (ethereum.LoyaltyWriter, *mocks.MockTransactionSender) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	sender := mocks.NewMockTransactionSender(ctrl)
	writer, err := ethereum.NewWriter(sender, testDeployment())
	require.NoError(t, err)
	return writer, sender
}

func packCalldata(t *testing.T, abiJSON, method string, args ...interface{}) []byte {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	require.NoError(t, err)
	data, err := parsed.Pack(method, args...)
	require.NoError(t, err)
	return data
}

func TestRegisterCustomer(t *testing.T) {
	writer, sender := newWriterFixture(t)
	customer := common.HexToAddress("0x742d35cc6634C0532925a3b844bC9e7595f0bEb7")
	txHash := common.HexToHash("0xabc1")

	want := packCalldata(t,
		`[{"inputs":[{"name":"customer","type":"address"}],"name":"registerCustomer","outputs":[],"stateMutability":"nonpayable","type":"function"}]`,
		"registerCustomer", customer)

	sender.EXPECT().
		Send(gomock.Any(), common.HexToAddress(managerAddress), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ common.Address, calldata []byte) (common.Hash, error) {
			assert.Equal(t, want, calldata)
			return txHash, nil
		})

	hash, err := writer.RegisterCustomer(context.Background(), domain.Address("0x742d35cc6634C0532925a3b844bC9e7595f0bEb7"))
	require.NoError(t, err)
	assert.Equal(t, txHash, hash)
}

func TestIssueTokens(t *testing.T) {
	writer, sender := newWriterFixture(t)
	to := common.HexToAddress("0x742d35cc6634C0532925a3b844bC9e7595f0bEb7")
	amount := big.NewInt(50)

	want := packCalldata(t,
		`[{"inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"issueTokens","outputs":[],"stateMutability":"nonpayable","type":"function"}]`,
		"issueTokens", to, amount)

	sender.EXPECT().
		Send(gomock.Any(), common.HexToAddress(managerAddress), want).
		Return(common.HexToHash("0xabc2"), nil)

	_, err := writer.IssueTokens(context.Background(), domain.Address("0x742d35cc6634C0532925a3b844bC9e7595f0bEb7"), amount)
	require.NoError(t, err)
}

func TestSetRewardCost(t *testing.T) {
	writer, sender := newWriterFixture(t)

	want := packCalldata(t,
		`[{"inputs":[{"name":"rewardId","type":"uint256"},{"name":"cost","type":"uint256"}],"name":"setRewardCost","outputs":[],"stateMutability":"nonpayable","type":"function"}]`,
		"setRewardCost", big.NewInt(10), big.NewInt(50))

	sender.EXPECT().
		Send(gomock.Any(), common.HexToAddress(managerAddress), want).
		Return(common.HexToHash("0xabc3"), nil)

	_, err := writer.SetRewardCost(context.Background(), domain.RewardID(10), big.NewInt(50))
	require.NoError(t, err)
}

func TestIssueCertificate(t *testing.T) {
	writer, sender := newWriterFixture(t)
	customer := common.HexToAddress("0x742d35cc6634C0532925a3b844bC9e7595f0bEb7")
	cid := "QmS4ustL54uo8FzR9455qaxZwuMiUhyvMcX9Ba8nUH4uVv"

	want := packCalldata(t,
		`[{"inputs":[{"name":"customer","type":"address"},{"name":"ipfsCid","type":"string"}],"name":"issueCertificate","outputs":[],"stateMutability":"nonpayable","type":"function"}]`,
		"issueCertificate", customer, cid)

	sender.EXPECT().
		Send(gomock.Any(), common.HexToAddress(managerAddress), want).
		Return(common.HexToHash("0xabc4"), nil)

	_, err := writer.IssueCertificate(context.Background(), domain.Address("0x742d35cc6634C0532925a3b844bC9e7595f0bEb7"), domain.CID(cid))
	require.NoError(t, err)
}

func TestSendFailure(t *testing.T) {
	writer, sender := newWriterFixture(t)

	sender.EXPECT().
		Send(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(common.Hash{}, errors.New("nonce too low"))

	_, err := writer.RegisterCustomer(context.Background(), domain.Address("0x742d35cc6634C0532925a3b844bC9e7595f0bEb7"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLedgerSubmissionFailed)
	assert.Contains(t, err.Error(), "nonce too low")
}
