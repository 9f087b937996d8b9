package certificate

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/loyaltytoken/loyalty-platform/internal/domain"
)

// NewVoucherCode generates a voucher code: a short human-typeable prefix plus
// a random uppercase hex suffix. The suffix carries enough random bits that
// collisions are negligible, so no global uniqueness check is performed.
func NewVoucherCode() (string, error) {
	buf := make([]byte, domain.VOUCHER_SUFFIX_LEN/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate voucher entropy: %w", err)
	}
	return domain.VOUCHER_PREFIX + strings.ToUpper(hex.EncodeToString(buf)), nil
}

// VerificationHash derives the published verification hash from the customer
// address, voucher code and redemption time. It is deterministic, one-way and
// recomputable by any verifier holding the three inputs.
func VerificationHash(customer domain.Address, voucherCode string, redeemedAt time.Time) string {
	input := customer.String() + voucherCode + redeemedAt.UTC().Format(time.RFC3339)
	sum := sha256.Sum256([]byte(input))
	return strings.ToUpper(hex.EncodeToString(sum[:]))[:domain.VERIFICATION_HASH_LEN]
}
