package certificate

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loyaltytoken/loyalty-platform/internal/domain"
)

func TestNewVoucherCode(t *testing.T) {
	format := regexp.MustCompile(`^LTT-[0-9A-F]{12}$`)

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code, err := NewVoucherCode()
		require.NoError(t, err)
		assert.Regexp(t, format, code)
		assert.False(t, seen[code], "voucher code collision: %s", code)
		seen[code] = true
	}
}

func TestVerificationHash(t *testing.T) {
	customer := domain.Address("0x742d35cc6634C0532925a3b844bC9e7595f0bEb7")
	redeemedAt := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

	hash := VerificationHash(customer, "LTT-0123456789AB", redeemedAt)
	assert.Regexp(t, `^[0-9A-F]{16}$`, hash)

	// Deterministic: a verifier holding the three inputs recomputes the
	// identical value
	again := VerificationHash(customer, "LTT-0123456789AB", redeemedAt)
	assert.Equal(t, hash, again)

	// Sensitive to every input
	assert.NotEqual(t, hash, VerificationHash(customer, "LTT-0123456789AC", redeemedAt))
	assert.NotEqual(t, hash, VerificationHash(customer, "LTT-0123456789AB", redeemedAt.Add(time.Second)))
	assert.NotEqual(t, hash, VerificationHash(domain.Address(domain.ETHEREUM_ZERO_ADDRESS), "LTT-0123456789AB", redeemedAt))
}

func TestVerificationHashTimezoneInvariant(t *testing.T) {
	customer := domain.Address("0x742d35cc6634C0532925a3b844bC9e7595f0bEb7")
	utc := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	offset := utc.In(time.FixedZone("ICT", 7*3600))

	assert.Equal(t,
		VerificationHash(customer, "LTT-0123456789AB", utc),
		VerificationHash(customer, "LTT-0123456789AB", offset),
	)
}
