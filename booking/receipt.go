package booking

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"wastewise/apperr"
	"wastewise/models"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// ReceiptSigner signs the payload printed as a QR code on booking receipts
// so collection crews can tell a real receipt from a forged one.
type ReceiptSigner struct {
	key []byte
}

func NewReceiptSigner(key string) *ReceiptSigner {
	return &ReceiptSigner{key: []byte(key)}
}

func (s *ReceiptSigner) sign(data string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(data))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Payload returns bookingID|date|slot|signature.
func (s *ReceiptSigner) Payload(b *models.Booking) string {
	data := fmt.Sprintf("%s|%s|%s", b.ID, b.Date.UTC().Format(dateLayout), b.TimeSlot)
	return data + "|" + s.sign(data)
}

// ReceiptClaim is what a scanned receipt says about its booking.
type ReceiptClaim struct {
	BookingID string `json:"bookingId"`
	Date      string `json:"date"`
	TimeSlot  string `json:"timeSlot"`
}

// Parse checks the signature of a scanned payload and splits it.
func (s *ReceiptSigner) Parse(payload string) (*ReceiptClaim, error) {
	parts := strings.Split(strings.TrimSpace(payload), "|")
	if len(parts) != 4 {
		return nil, apperr.Validation("invalid receipt format")
	}
	data := strings.Join(parts[:3], "|")
	if !hmac.Equal([]byte(parts[3]), []byte(s.sign(data))) {
		return nil, apperr.Validation("invalid receipt signature")
	}
	return &ReceiptClaim{BookingID: parts[0], Date: parts[1], TimeSlot: parts[2]}, nil
}

// RenderReceipt builds an A4 PDF for b with the signed QR code.
func (s *ReceiptSigner) RenderReceipt(b *models.Booking, holder string) ([]byte, error) {
	qrPNG, err := qrcode.Encode(s.Payload(b), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode receipt qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Special Collection Receipt")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 12)
	lines := []string{
		"Booking ID: " + b.ID,
		"Name: " + holder,
		"Date: " + b.Date.UTC().Format(dateLayout),
		"Time slot: " + b.TimeSlot,
		"Address: " + b.Address,
		"Status: " + b.Status,
	}
	if len(b.WasteTypes) > 0 {
		lines = append(lines, "Waste types: "+strings.Join(b.WasteTypes, ", "))
	}
	if b.Notes != "" {
		lines = append(lines, "Notes: "+b.Notes)
	}
	for _, line := range lines {
		pdf.Cell(0, 10, line)
		pdf.Ln(8)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 30, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
