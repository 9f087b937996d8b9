package certificate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/gowebpki/jcs"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/loyaltytoken/loyalty-platform/internal/domain"
	"github.com/loyaltytoken/loyalty-platform/internal/store/schema"
)

const platformName = "LoyaltyToken Rewards Platform"

// QRPayload is the machine-scannable encoding embedded in the certificate for
// offline verification.
type QRPayload struct {
	VoucherCode  string `json:"voucher_code"`
	Customer     string `json:"customer"`
	Verification string `json:"verification"`
	Reward       string `json:"reward"`
}

// EncodeQRPayload renders the payload as canonical JSON (RFC 8785) so the
// same tuple always produces byte-identical QR content.
func EncodeQRPayload(p QRPayload) ([]byte, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr payload: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize qr payload: %w", err)
	}
	return canonical, nil
}

// RenderPDF produces the human-readable certificate document: title, customer
// identity, reward details, voucher code, verification hash, redemption date
// and a QR code for offline verification.
func RenderPDF(pending *schema.PendingCertificate, customerName string) ([]byte, error) {
	payload, err := EncodeQRPayload(QRPayload{
		VoucherCode:  pending.VoucherCode,
		Customer:     pending.CustomerAddress,
		Verification: pending.VerificationHash,
		Reward:       pending.RewardName,
	})
	if err != nil {
		return nil, err
	}
	qrPNG, err := qrcode.Encode(string(payload), qrcode.Low, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	// Double border frame
	pdf.SetDrawColor(37, 99, 235)
	pdf.SetLineWidth(1.0)
	pdf.Rect(10, 10, pageW-20, pageH-20, "D")
	pdf.SetLineWidth(0.3)
	pdf.Rect(13, 13, pageW-26, pageH-26, "D")

	// Header
	pdf.SetFont("Helvetica", "B", 28)
	pdf.SetTextColor(37, 99, 235)
	pdf.SetXY(0, 30)
	pdf.CellFormat(pageW, 12, "REWARD CERTIFICATE", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(pageW, 8, platformName, "", 1, "C", false, 0, "")

	pdf.SetDrawColor(16, 185, 129)
	pdf.SetLineWidth(0.6)
	pdf.Line(50, 56, pageW-50, 56)

	// Customer identity
	y := 72.0
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(30, y, "Issued to:")
	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(70, y, customerName)

	y += 8
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(30, y, "Wallet Address:")
	pdf.SetFont("Courier", "", 9)
	pdf.Text(70, y, domain.Address(pending.CustomerAddress).Short())

	// Reward details box
	y += 12
	pdf.SetFillColor(241, 245, 249)
	pdf.Rect(27, y, pageW-54, 38, "F")
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Text(30, y+9, "Reward Details")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(30, y+18, pending.RewardName)
	pdf.SetFont("Helvetica", "", 9)
	description := pending.RewardDescription
	if len(description) > 70 {
		description = description[:70]
	}
	pdf.Text(30, y+26, description)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Text(30, y+34, fmt.Sprintf("Token Cost: %s %s", pending.TokenCost, domain.TOKEN_SYMBOL))

	// Voucher code, prominent
	y += 54
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(16, 185, 129)
	pdf.SetXY(0, y)
	pdf.CellFormat(pageW, 10, "VOUCHER CODE: "+pending.VoucherCode, "", 1, "C", false, 0, "")

	// Verification details
	y += 18
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 116, 139)
	pdf.Text(30, y, "Verification Hash: "+pending.VerificationHash)
	pdf.Text(30, y+6, "Redemption Date: "+pending.RedeemedAt.UTC().Format("2006-01-02 15:04:05"))

	// QR code bottom-right
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", pageW-70, pageH-75, 40, 40, false, opts, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.Text(pageW-62, pageH-32, "Scan to verify")

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetXY(0, pageH-26)
	pdf.CellFormat(pageW, 5, "This certificate is cryptographically secured on the ledger of record", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render certificate pdf: %w", err)
	}
	return buf.Bytes(), nil
}
