package schema

import (
	"time"
)

// PendingStatus represents the publication status of a pending certificate
type PendingStatus string

const (
	// PendingStatusPending means publication has not succeeded yet
	PendingStatusPending PendingStatus = "pending"
	// PendingStatusPublished means the certificate was published and recorded
	PendingStatusPublished PendingStatus = "published"
)

// PendingCertificate represents the pending_certificates table. The row is
// written BEFORE the first publication attempt so a retry reuses the original
// voucher code and verification hash instead of minting new ones.
type PendingCertificate struct {
	// IdempotencyKey is the stable key of the redemption attempt (ULID)
	IdempotencyKey string `gorm:"column:idempotency_key;primaryKey"`
	// VoucherCode is generated once, before the first publication attempt
	VoucherCode string `gorm:"column:voucher_code;not null;uniqueIndex"`
	// VerificationHash is derived from (customer, voucher code, redeemed at)
	VerificationHash string `gorm:"column:verification_hash;not null"`
	// CustomerAddress is the redeeming customer's address
	CustomerAddress string `gorm:"column:customer_address;not null;index"`
	// RewardID references the redeemed catalog entry
	RewardID uint64 `gorm:"column:reward_id;not null"`
	// RewardName is the display name captured at redemption time
	RewardName string `gorm:"column:reward_name"`
	// RewardDescription is the description rendered on the certificate
	RewardDescription string `gorm:"column:reward_description"`
	// TokenCost is the debited amount in base units
	TokenCost string `gorm:"column:token_cost;not null"`
	// RedeemedAt is the ledger-confirmed redemption timestamp
	RedeemedAt time.Time `gorm:"column:redeemed_at;not null"`
	// Status is the publication status
	Status PendingStatus `gorm:"column:status;not null;index;default:pending"`
	// Attempts counts publication attempts so far
	Attempts int `gorm:"column:attempts;not null;default:0"`
	// LastError holds the sanitized reason of the most recent failed attempt
	LastError string `gorm:"column:last_error"`
	// CID is set once publication succeeds
	CID string `gorm:"column:cid"`
	// CreatedAt is the timestamp when this row was created
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	// UpdatedAt is the timestamp when this row was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

// TableName specifies the table name for the PendingCertificate model
func (PendingCertificate) TableName() string {
	return "pending_certificates"
}
