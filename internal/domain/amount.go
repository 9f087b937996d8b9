package domain

import (
	"fmt"
	"math/big"
	"strings"
)

// ToBaseUnits converts a decimal amount string (e.g. an order value like
// "12.50") into the token's smallest unit using a fixed decimal exponent.
// The conversion is exact; amounts with more fractional digits than the
// token supports are rejected rather than rounded.
func ToBaseUnits(value string, decimals int) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("%w: empty amount", ErrInvalidAmount)
	}
	if strings.HasPrefix(value, "-") {
		return nil, fmt.Errorf("%w: negative amount %q", ErrInvalidAmount, value)
	}

	whole, frac := value, ""
	if i := strings.IndexByte(value, '.'); i >= 0 {
		whole, frac = value[:i], value[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > decimals {
		return nil, fmt.Errorf("%w: %q has more than %d fractional digits", ErrInvalidAmount, value, decimals)
	}
	// Right-pad the fraction so whole+frac is the base-unit integer
	frac += strings.Repeat("0", decimals-len(frac))

	amount, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidAmount, value)
	}
	return amount, nil
}

// FromBaseUnits renders a base-unit amount as a decimal string for display
func FromBaseUnits(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}
	s := amount.String()
	if decimals == 0 {
		return s
	}
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}
	whole, frac := s[:len(s)-decimals], s[len(s)-decimals:]
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}
