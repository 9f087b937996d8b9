package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/loyaltytoken/loyalty-platform/internal/adapter"
	"github.com/loyaltytoken/loyalty-platform/internal/domain"
)

// LoyaltyClient reads the deployed loyalty contracts. The in-process ledger
// is authoritative for serving requests; these calls exist to verify the
// on-chain deployment agrees with it.
//
//go:generate mockgen -source=client.go -destination=../../mocks/loyaltyclient.go -package=mocks -mock_names=LoyaltyClient=MockLoyaltyClient
type LoyaltyClient interface {
	// TokenBalanceOf fetches the token balance of an account
	TokenBalanceOf(ctx context.Context, owner domain.Address) (*big.Int, error)

	// TokenAllowance fetches the remaining allowance from owner to spender
	TokenAllowance(ctx context.Context, owner, spender domain.Address) (*big.Int, error)

	// IsCustomerRegistered reports whether the manager knows the customer
	IsCustomerRegistered(ctx context.Context, customer domain.Address) (bool, error)

	// RewardCost fetches the token cost of a reward, 0 when unlisted
	RewardCost(ctx context.Context, rewardID domain.RewardID) (*big.Int, error)

	// CertificateCount fetches the number of certificates recorded for a customer
	CertificateCount(ctx context.Context, customer domain.Address) (*big.Int, error)

	// CustomerCertificates fetches the certificate CIDs recorded for a customer
	CustomerCertificates(ctx context.Context, customer domain.Address) ([]string, error)

	// Close closes the connection
	Close()
}

type loyaltyClient struct {
	chainID domain.Chain
	client  adapter.EthClient
	token   common.Address
	manager common.Address
}

// NewClient creates a loyalty contract reader against the deployed addresses
func NewClient(chainID domain.Chain, client adapter.EthClient, deployment *domain.DeploymentRecord) (LoyaltyClient, error) {
	token, err := deployment.ContractAddress(domain.CONTRACT_LOYALTY_TOKEN)
	if err != nil {
		return nil, err
	}
	manager, err := deployment.ContractAddress(domain.CONTRACT_LOYALTY_MANAGER)
	if err != nil {
		return nil, err
	}

	return &loyaltyClient{
		chainID: chainID,
		client:  client,
		token:   common.HexToAddress(token.String()),
		manager: common.HexToAddress(manager.String()),
	}, nil
}

// TokenBalanceOf fetches the token balance of an account
func (c *loyaltyClient) TokenBalanceOf(ctx context.Context, owner domain.Address) (*big.Int, error) {
	// ERC20 balanceOf function signature: balanceOf(address) returns (uint256)
	balanceOfABI, err := abi.JSON(strings.NewReader(`[{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := balanceOfABI.Pack("balanceOf", common.HexToAddress(owner.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := c.call(ctx, c.token, data)
	if err != nil {
		return nil, err
	}

	var balance *big.Int
	if err := balanceOfABI.UnpackIntoInterface(&balance, "balanceOf", result); err != nil {
		return nil, fmt.Errorf("failed to unpack result: %w", err)
	}

	return balance, nil
}

// TokenAllowance fetches the remaining allowance from owner to spender
func (c *loyaltyClient) TokenAllowance(ctx context.Context, owner, spender domain.Address) (*big.Int, error) {
	// ERC20 allowance function signature: allowance(address,address) returns (uint256)
	allowanceABI, err := abi.JSON(strings.NewReader(`[{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := allowanceABI.Pack("allowance", common.HexToAddress(owner.String()), common.HexToAddress(spender.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := c.call(ctx, c.token, data)
	if err != nil {
		return nil, err
	}

	var allowance *big.Int
	if err := allowanceABI.UnpackIntoInterface(&allowance, "allowance", result); err != nil {
		return nil, fmt.Errorf("failed to unpack result: %w", err)
	}

	return allowance, nil
}

// IsCustomerRegistered reports whether the manager knows the customer
func (c *loyaltyClient) IsCustomerRegistered(ctx context.Context, customer domain.Address) (bool, error) {
	// Manager function signature: isCustomerRegistered(address) returns (bool)
	registeredABI, err := abi.JSON(strings.NewReader(`[{"constant":true,"inputs":[{"name":"customer","type":"address"}],"name":"isCustomerRegistered","outputs":[{"name":"","type":"bool"}],"payable":false,"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return false, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := registeredABI.Pack("isCustomerRegistered", common.HexToAddress(customer.String()))
	if err != nil {
		return false, fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := c.call(ctx, c.manager, data)
	if err != nil {
		return false, err
	}

	var registered bool
	if err := registeredABI.UnpackIntoInterface(&registered, "isCustomerRegistered", result); err != nil {
		return false, fmt.Errorf("failed to unpack result: %w", err)
	}

	return registered, nil
}

// RewardCost fetches the token cost of a reward, 0 when unlisted
func (c *loyaltyClient) RewardCost(ctx context.Context, rewardID domain.RewardID) (*big.Int, error) {
	// Manager public mapping getter: reward_costs(uint256) returns (uint256)
	costABI, err := abi.JSON(strings.NewReader(`[{"constant":true,"inputs":[{"name":"arg0","type":"uint256"}],"name":"reward_costs","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := costABI.Pack("reward_costs", new(big.Int).SetUint64(uint64(rewardID)))
	if err != nil {
		return nil, fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := c.call(ctx, c.manager, data)
	if err != nil {
		return nil, err
	}

	var cost *big.Int
	if err := costABI.UnpackIntoInterface(&cost, "reward_costs", result); err != nil {
		return nil, fmt.Errorf("failed to unpack result: %w", err)
	}

	return cost, nil
}

// CertificateCount fetches the number of certificates recorded for a customer
func (c *loyaltyClient) CertificateCount(ctx context.Context, customer domain.Address) (*big.Int, error) {
	// Manager function signature: getCertificateCount(address) returns (uint256)
	countABI, err := abi.JSON(strings.NewReader(`[{"constant":true,"inputs":[{"name":"customer","type":"address"}],"name":"getCertificateCount","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := countABI.Pack("getCertificateCount", common.HexToAddress(customer.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := c.call(ctx, c.manager, data)
	if err != nil {
		return nil, err
	}

	var count *big.Int
	if err := countABI.UnpackIntoInterface(&count, "getCertificateCount", result); err != nil {
		return nil, fmt.Errorf("failed to unpack result: %w", err)
	}

	return count, nil
}

// CustomerCertificates fetches the certificate CIDs recorded for a customer
func (c *loyaltyClient) CustomerCertificates(ctx context.Context, customer domain.Address) ([]string, error) {
	// Manager function signature: getCustomerCertificates(address) returns (string[])
	certsABI, err := abi.JSON(strings.NewReader(`[{"constant":true,"inputs":[{"name":"customer","type":"address"}],"name":"getCustomerCertificates","outputs":[{"name":"","type":"string[]"}],"payable":false,"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := certsABI.Pack("getCustomerCertificates", common.HexToAddress(customer.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := c.call(ctx, c.manager, data)
	if err != nil {
		return nil, err
	}

	var cids []string
	if err := certsABI.UnpackIntoInterface(&cids, "getCustomerCertificates", result); err != nil {
		return nil, fmt.Errorf("failed to unpack result: %w", err)
	}

	return cids, nil
}

// Close closes the connection
func (c *loyaltyClient) Close() {
	c.client.Close()
}

func (c *loyaltyClient) call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	result, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &to,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call contract: %w", err)
	}
	return result, nil
}
