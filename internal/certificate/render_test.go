package certificate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loyaltytoken/loyalty-platform/internal/store/schema"
)

func TestEncodeQRPayload(t *testing.T) {
	payload := QRPayload{
		VoucherCode:  "LTT-0123456789AB",
		Customer:     "0x742d35cc6634C0532925a3b844bC9e7595f0bEb7",
		Verification: "A1B2C3D4E5F60718",
		Reward:       "20% discount voucher",
	}

	first, err := EncodeQRPayload(payload)
	require.NoError(t, err)
	second, err := EncodeQRPayload(payload)
	require.NoError(t, err)

	// Canonical JSON keeps the bytes stable across encodings
	assert.Equal(t, first, second)
	assert.JSONEq(t, `{
		"voucher_code": "LTT-0123456789AB",
		"customer": "0x742d35cc6634C0532925a3b844bC9e7595f0bEb7",
		"verification": "A1B2C3D4E5F60718",
		"reward": "20% discount voucher"
	}`, string(first))
}

func TestRenderPDF(t *testing.T) {
	pending := &schema.PendingCertificate{
		IdempotencyKey:    "01JD0000000000000000000000",
		VoucherCode:       "LTT-0123456789AB",
		VerificationHash:  "A1B2C3D4E5F60718",
		CustomerAddress:   "0x742d35cc6634C0532925a3b844bC9e7595f0bEb7",
		RewardID:          10,
		RewardName:        "20% discount voucher",
		RewardDescription: "20% off the next order, minimum order value applies",
		TokenCost:         "50",
		RedeemedAt:        time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
	}

	document, err := RenderPDF(pending, "Customer 0x742d35cc...95f0bEb7")
	require.NoError(t, err)
	require.NotEmpty(t, document)
	assert.Equal(t, "%PDF", string(document[:4]))
}

func TestRenderPDFTruncatesLongDescription(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	pending := &schema.PendingCertificate{
		VoucherCode:       "LTT-0123456789AB",
		VerificationHash:  "A1B2C3D4E5F60718",
		CustomerAddress:   "0x742d35cc6634C0532925a3b844bC9e7595f0bEb7",
		RewardName:        "Premium tote bag",
		RewardDescription: string(long),
		TokenCost:         "500",
		RedeemedAt:        time.Now(),
	}

	document, err := RenderPDF(pending, "Customer")
	require.NoError(t, err)
	assert.NotEmpty(t, document)
}
