package rest

import (
	"time"

	"github.com/loyaltytoken/loyalty-platform/internal/domain"
)

// issueTokensRequest is the operator order-to-tokens issuance request.
// OrderValue is a decimal currency amount; 1 currency unit buys 1 whole token.
type issueTokensRequest struct {
	CustomerAddress string `json:"customer_address" binding:"required"`
	OrderValue      string `json:"order_value" binding:"required"`
}

// issueTokensResponse mirrors the original issuance endpoint shape
type issueTokensResponse struct {
	Status string `json:"status"`
	TxHash string `json:"tx_hash"`
}

// registerCustomerRequest registers a customer address
type registerCustomerRequest struct {
	Address string `json:"address" binding:"required"`
}

// customerResponse is the customer status view
type customerResponse struct {
	Address          string `json:"address"`
	Registered       bool   `json:"registered"`
	Balance          string `json:"balance"`            // whole tokens, decimal
	BalanceBaseUnits string `json:"balance_base_units"` // smallest unit, integer
	CertificateCount int    `json:"certificate_count"`
}

// updateRewardRequest updates any subset of a reward's cost, metadata and image
type updateRewardRequest struct {
	// Cost is a decimal token amount; "0" delists the reward
	Cost *string `json:"cost,omitempty"`
	// Metadata is published to the content store and linked by CID
	Metadata *domain.RewardMetadata `json:"metadata,omitempty"`
	// ImageCID links an already-pinned image
	ImageCID *string `json:"image_cid,omitempty"`
}

// rewardResponse is the catalog view of a reward
type rewardResponse struct {
	ID            uint64 `json:"id"`
	Cost          string `json:"cost"`            // whole tokens, decimal
	CostBaseUnits string `json:"cost_base_units"` // smallest unit, integer
	Redeemable    bool   `json:"redeemable"`
	MetadataCID   string `json:"metadata_cid,omitempty"`
	ImageCID      string `json:"image_cid,omitempty"`
}

// approveAllowanceRequest grants the redemption engine spending rights over
// the customer's balance. Amount is a decimal token amount.
type approveAllowanceRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// allowanceResponse reports the allowance granted to the redemption engine
type allowanceResponse struct {
	Status             string `json:"status"`
	TxHash             string `json:"tx_hash"`
	Spender            string `json:"spender"`
	Allowance          string `json:"allowance"`            // whole tokens, decimal
	AllowanceBaseUnits string `json:"allowance_base_units"` // smallest unit, integer
}

// redeemRequest starts a redemption attempt
type redeemRequest struct {
	CustomerAddress string `json:"customer_address" binding:"required"`
	RewardID        uint64 `json:"reward_id" binding:"required"`
}

// redemptionResponse is the outcome of a redemption attempt or resume
type redemptionResponse struct {
	Status         string               `json:"status"`
	IdempotencyKey string               `json:"idempotency_key,omitempty"`
	TxID           string               `json:"tx_id,omitempty"`
	Certificate    *certificateResponse `json:"certificate,omitempty"`
}

// certificateResponse is the public view of a published certificate
type certificateResponse struct {
	VoucherCode      string    `json:"voucher_code"`
	VerificationHash string    `json:"verification_hash"`
	CustomerAddress  string    `json:"customer_address"`
	RewardID         uint64    `json:"reward_id"`
	RewardName       string    `json:"reward_name"`
	RedeemedAt       time.Time `json:"redeemed_at"`
	CID              string    `json:"cid"`
	URL              string    `json:"url,omitempty"` // gateway download URL
}

// certificateListResponse wraps a customer's certificates
type certificateListResponse struct {
	Certificates []certificateResponse `json:"certificates"`
	Count        int                   `json:"count"`
}
