package schema

import (
	"time"
)

// Certificate represents the certificates table: one immutable row per
// successfully published redemption certificate.
type Certificate struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// VoucherCode is the unique human-typeable voucher identifier
	VoucherCode string `gorm:"column:voucher_code;not null;uniqueIndex"`
	// VerificationHash is the truncated one-way hash third parties recompute to verify
	VerificationHash string `gorm:"column:verification_hash;not null"`
	// CustomerAddress is the redeeming customer's address
	CustomerAddress string `gorm:"column:customer_address;not null;index"`
	// RewardID references the redeemed catalog entry
	RewardID uint64 `gorm:"column:reward_id;not null"`
	// RewardName is the display name captured at redemption time
	RewardName string `gorm:"column:reward_name"`
	// TokenCost is the debited amount in base units (string to support 78-digit amounts)
	TokenCost string `gorm:"column:token_cost;not null"`
	// RedeemedAt is the ledger-confirmed redemption timestamp
	RedeemedAt time.Time `gorm:"column:redeemed_at;not null"`
	// CID is the content identifier of the published certificate document
	CID string `gorm:"column:cid;not null"`
	// CreatedAt is the timestamp when this row was created
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

// TableName specifies the table name for the Certificate model
func (Certificate) TableName() string {
	return "certificates"
}
