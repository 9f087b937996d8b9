package domain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		decimals    int
		expected    string
		expectedErr error
	}{
		{
			name:     "whole number",
			value:    "1",
			decimals: 18,
			expected: "1000000000000000000",
		},
		{
			name:     "fractional value",
			value:    "12.5",
			decimals: 18,
			expected: "12500000000000000000",
		},
		{
			name:     "zero decimals",
			value:    "42",
			decimals: 0,
			expected: "42",
		},
		{
			name:     "leading dot",
			value:    ".5",
			decimals: 2,
			expected: "50",
		},
		{
			name:        "too many fractional digits",
			value:       "1.123",
			decimals:    2,
			expectedErr: ErrInvalidAmount,
		},
		{
			name:        "negative",
			value:       "-1",
			decimals:    18,
			expectedErr: ErrInvalidAmount,
		},
		{
			name:        "empty",
			value:       "",
			decimals:    18,
			expectedErr: ErrInvalidAmount,
		},
		{
			name:        "not a number",
			value:       "abc",
			decimals:    18,
			expectedErr: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := ToBaseUnits(tt.value, tt.decimals)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, amount.String())
		})
	}
}

func TestFromBaseUnits(t *testing.T) {
	wei, ok := new(big.Int).SetString("12500000000000000000", 10)
	require.True(t, ok)

	assert.Equal(t, "12.5", FromBaseUnits(wei, 18))
	assert.Equal(t, "0.05", FromBaseUnits(big.NewInt(5), 2))
	assert.Equal(t, "42", FromBaseUnits(big.NewInt(42), 0))
	assert.Equal(t, "0", FromBaseUnits(nil, 18))
}
