package domain

import "errors"

var (
	// ErrUnauthorized is returned when the caller lacks the required role for an operation
	ErrUnauthorized = errors.New("caller is not authorized")

	// ErrCustomerNotRegistered is returned when an operation targets an address that was never registered
	ErrCustomerNotRegistered = errors.New("customer is not registered")

	// ErrRewardNotFound is returned when a reward id has no cost set in the catalog
	ErrRewardNotFound = errors.New("reward not found")

	// ErrInvalidAddress is returned when an address fails hex validation
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidAmount is returned when a token amount is zero, negative or malformed
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientBalance is returned when a debit exceeds the owner's balance
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientAllowance is returned when a debit exceeds the spender's allowance
	ErrInsufficientAllowance = errors.New("insufficient allowance")

	// ErrRedemptionConflict is returned when a concurrent redemption consumed the balance
	// or allowance between validation and debit
	ErrRedemptionConflict = errors.New("redemption lost race on debit")

	// ErrStoreUnavailable is returned when the content-addressed store cannot be reached
	ErrStoreUnavailable = errors.New("content store unavailable")

	// ErrCIDNotFound is returned when a CID is unknown to the content-addressed store
	ErrCIDNotFound = errors.New("cid not found")

	// ErrPublicationFailed is returned when certificate publication exhausted its retries
	ErrPublicationFailed = errors.New("certificate publication failed")

	// ErrLedgerSubmissionFailed is returned when the ledger transport rejected or timed out
	ErrLedgerSubmissionFailed = errors.New("ledger submission failed")

	// ErrPendingCertificateNotFound is returned when resuming an unknown idempotency key
	ErrPendingCertificateNotFound = errors.New("pending certificate not found")

	// ErrCertificateNotFound is returned when a certificate lookup matches nothing
	ErrCertificateNotFound = errors.New("certificate not found")
)
