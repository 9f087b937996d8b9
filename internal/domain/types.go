package domain

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Chain represents the blockchain network identifier using CAIP-2 format
type Chain string

const (
	ChainEthereumMainnet Chain = "eip155:1"
	ChainEthereumSepolia Chain = "eip155:11155111"
)

// IsValidChain checks if a chain is valid
func IsValidChain(chain Chain) bool {
	return chain == ChainEthereumMainnet || chain == ChainEthereumSepolia
}

// Address is a checksummed EVM account address
type Address string

// ParseAddress validates a hex address and normalizes it to its checksummed form
func ParseAddress(s string) (Address, error) {
	if !common.IsHexAddress(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return Address(common.HexToAddress(s).Hex()), nil
}

// String returns the string representation of the address
func (a Address) String() string {
	return string(a)
}

// Short returns the abbreviated display form used on certificates (0x1234...abcd)
func (a Address) Short() string {
	s := string(a)
	if len(s) < 18 {
		return s
	}
	return s[:10] + "..." + s[len(s)-8:]
}

// Equal compares two addresses case-insensitively
func (a Address) Equal(other Address) bool {
	return strings.EqualFold(string(a), string(other))
}

// CID is a content identifier returned by the content-addressed store
type CID string

// String returns the string representation of the CID
func (c CID) String() string {
	return string(c)
}

// RewardID identifies a reward in the catalog
type RewardID uint64

// Reward represents a redeemable catalog entry
type Reward struct {
	ID RewardID `json:"id"`
	// Cost is the token cost in the smallest token unit; zero means the reward
	// does not exist for redemption purposes
	Cost        *big.Int `json:"cost"`
	MetadataCID CID      `json:"metadata_cid,omitempty"`
	ImageCID    CID      `json:"image_cid,omitempty"`
}

// Exists reports whether the reward is redeemable (non-zero cost)
func (r *Reward) Exists() bool {
	return r != nil && r.Cost != nil && r.Cost.Sign() > 0
}

// RewardMetadata is the JSON document published to the content store for a reward
type RewardMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Terms       string `json:"terms,omitempty"`
	Expiry      string `json:"expiry,omitempty"`
	Category    string `json:"category,omitempty"`
	TokenCost   string `json:"token_cost"`
}

// Certificate is an immutable record of a successful redemption
type Certificate struct {
	VoucherCode      string    `json:"voucher_code"`
	VerificationHash string    `json:"verification_hash"`
	Customer         Address   `json:"customer_address"`
	RewardID         RewardID  `json:"reward_id"`
	RewardName       string    `json:"reward_name"`
	RedeemedAt       time.Time `json:"redeemed_at"`
	CID              CID       `json:"cid"`
}

// RedemptionStatus is the terminal status of a redemption attempt
type RedemptionStatus string

const (
	// RedemptionCompleted means the debit committed and the certificate is published
	RedemptionCompleted RedemptionStatus = "completed"
	// RedemptionCertificatePending means the debit committed but publication has
	// not succeeded yet; the attempt can be resumed with its idempotency key
	RedemptionCertificatePending RedemptionStatus = "certificate_pending"
	// RedemptionFailed means no funds moved
	RedemptionFailed RedemptionStatus = "failed"
)

// DeploymentRecord is the persisted per-network record of deployed contracts
type DeploymentRecord struct {
	ChainID   Chain                         `json:"chainId"`
	Contracts map[string]DeploymentContract `json:"contracts"`
}

// DeploymentContract holds a single deployed contract address
type DeploymentContract struct {
	Address string `json:"address"`
}

// ContractAddress returns the checksummed address of a named contract
func (r *DeploymentRecord) ContractAddress(name string) (Address, error) {
	contract, ok := r.Contracts[name]
	if !ok {
		return "", fmt.Errorf("contract %q not found in deployment record", name)
	}
	return ParseAddress(contract.Address)
}
