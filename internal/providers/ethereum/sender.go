package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/loyaltytoken/loyalty-platform/internal/domain"
)

// TransactionSender submits signed contract calls. Key management, nonce
// tracking and gas estimation live behind this interface.
//
//go:generate mockgen -source=sender.go -destination=../../mocks/txsender.go -package=mocks -mock_names=TransactionSender=MockTransactionSender
type TransactionSender interface {
	// Send signs and broadcasts a call to the contract at `to` and returns
	// the transaction hash
	Send(ctx context.Context, to common.Address, calldata []byte) (common.Hash, error)
}

// LoyaltyWriter submits state-changing calls to the manager contract
type LoyaltyWriter interface {
	// RegisterCustomer authorizes a customer address on the manager
	RegisterCustomer(ctx context.Context, customer domain.Address) (common.Hash, error)

	// IssueTokens mints tokens to a registered customer
	IssueTokens(ctx context.Context, to domain.Address, amount *big.Int) (common.Hash, error)

	// SetRewardCost sets the token cost of a catalog reward
	SetRewardCost(ctx context.Context, rewardID domain.RewardID, cost *big.Int) (common.Hash, error)

	// SetRewardMetadata attaches a metadata CID to a catalog reward
	SetRewardMetadata(ctx context.Context, rewardID domain.RewardID, cid domain.CID) (common.Hash, error)

	// SetRewardImage attaches an image CID to a catalog reward
	SetRewardImage(ctx context.Context, rewardID domain.RewardID, cid domain.CID) (common.Hash, error)

	// IssueCertificate records a published certificate CID for a customer
	IssueCertificate(ctx context.Context, customer domain.Address, cid domain.CID) (common.Hash, error)
}

type loyaltyWriter struct {
	sender  TransactionSender
	manager common.Address
}

// NewWriter creates a manager contract writer against the deployed address
func NewWriter(sender TransactionSender, deployment *domain.DeploymentRecord) (LoyaltyWriter, error) {
	manager, err := deployment.ContractAddress(domain.CONTRACT_LOYALTY_MANAGER)
	if err != nil {
		return nil, err
	}
	return &loyaltyWriter{
		sender:  sender,
		manager: common.HexToAddress(manager.String()),
	}, nil
}

// RegisterCustomer authorizes a customer address on the manager
func (w *loyaltyWriter) RegisterCustomer(ctx context.Context, customer domain.Address) (common.Hash, error) {
	// registerCustomer(address)
	registerABI, err := abi.JSON(strings.NewReader(`[{"inputs":[{"name":"customer","type":"address"}],"name":"registerCustomer","outputs":[],"stateMutability":"nonpayable","type":"function"}]`))
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := registerABI.Pack("registerCustomer", common.HexToAddress(customer.String()))
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack data: %w", err)
	}

	return w.send(ctx, data)
}

// IssueTokens mints tokens to a registered customer
func (w *loyaltyWriter) IssueTokens(ctx context.Context, to domain.Address, amount *big.Int) (common.Hash, error) {
	// issueTokens(address,uint256)
	issueABI, err := abi.JSON(strings.NewReader(`[{"inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"issueTokens","outputs":[],"stateMutability":"nonpayable","type":"function"}]`))
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := issueABI.Pack("issueTokens", common.HexToAddress(to.String()), amount)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack data: %w", err)
	}

	return w.send(ctx, data)
}

// SetRewardCost sets the token cost of a catalog reward
func (w *loyaltyWriter) SetRewardCost(ctx context.Context, rewardID domain.RewardID, cost *big.Int) (common.Hash, error) {
	// setRewardCost(uint256,uint256)
	setCostABI, err := abi.JSON(strings.NewReader(`[{"inputs":[{"name":"rewardId","type":"uint256"},{"name":"cost","type":"uint256"}],"name":"setRewardCost","outputs":[],"stateMutability":"nonpayable","type":"function"}]`))
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := setCostABI.Pack("setRewardCost", new(big.Int).SetUint64(uint64(rewardID)), cost)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack data: %w", err)
	}

	return w.send(ctx, data)
}

// SetRewardMetadata attaches a metadata CID to a catalog reward
func (w *loyaltyWriter) SetRewardMetadata(ctx context.Context, rewardID domain.RewardID, cid domain.CID) (common.Hash, error) {
	// setRewardMetadata(uint256,string)
	setMetadataABI, err := abi.JSON(strings.NewReader(`[{"inputs":[{"name":"rewardId","type":"uint256"},{"name":"ipfsCid","type":"string"}],"name":"setRewardMetadata","outputs":[],"stateMutability":"nonpayable","type":"function"}]`))
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := setMetadataABI.Pack("setRewardMetadata", new(big.Int).SetUint64(uint64(rewardID)), cid.String())
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack data: %w", err)
	}

	return w.send(ctx, data)
}

// SetRewardImage attaches an image CID to a catalog reward
func (w *loyaltyWriter) SetRewardImage(ctx context.Context, rewardID domain.RewardID, cid domain.CID) (common.Hash, error) {
	// setRewardImage(uint256,string)
	setImageABI, err := abi.JSON(strings.NewReader(`[{"inputs":[{"name":"rewardId","type":"uint256"},{"name":"ipfsCid","type":"string"}],"name":"setRewardImage","outputs":[],"stateMutability":"nonpayable","type":"function"}]`))
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := setImageABI.Pack("setRewardImage", new(big.Int).SetUint64(uint64(rewardID)), cid.String())
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack data: %w", err)
	}

	return w.send(ctx, data)
}

// IssueCertificate records a published certificate CID for a customer
func (w *loyaltyWriter) IssueCertificate(ctx context.Context, customer domain.Address, cid domain.CID) (common.Hash, error) {
	// issueCertificate(address,string)
	issueCertABI, err := abi.JSON(strings.NewReader(`[{"inputs":[{"name":"customer","type":"address"},{"name":"ipfsCid","type":"string"}],"name":"issueCertificate","outputs":[],"stateMutability":"nonpayable","type":"function"}]`))
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := issueCertABI.Pack("issueCertificate", common.HexToAddress(customer.String()), cid.String())
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack data: %w", err)
	}

	return w.send(ctx, data)
}

func (w *loyaltyWriter) send(ctx context.Context, calldata []byte) (common.Hash, error) {
	hash, err := w.sender.Send(ctx, w.manager, calldata)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %s", domain.ErrLedgerSubmissionFailed, err.Error())
	}
	return hash, nil
}
