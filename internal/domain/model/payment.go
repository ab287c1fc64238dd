package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"  // charge created; awaiting processor confirmation
	PaymentStatusApproved PaymentStatus = "approved" // processor confirmed the PIX transfer
	PaymentStatusError    PaymentStatus = "error"    // rejected, refunded or charged back
	PaymentStatusExpired  PaymentStatus = "expired"  // charge cancelled or timed out at the processor
)

// IsTerminal reports whether no further transitions are accepted from s.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusApproved || s == PaymentStatusError || s == PaymentStatusExpired
}

// NormalizePaymentStatus maps the processor's free-text status into the closed
// four-state set. Raw processor strings must never leak past the gateway
// boundary. Unknown values stay pending so a later reconciliation attempt can
// still resolve them.
func NormalizePaymentStatus(raw string) PaymentStatus {
	switch raw {
	case "approved":
		return PaymentStatusApproved
	case "rejected", "refunded", "charged_back":
		return PaymentStatusError
	case "cancelled", "expired":
		return PaymentStatusExpired
	default:
		return PaymentStatusPending
	}
}

// PixPayment records a PIX charge issued by the payment processor.
type PixPayment struct {
	ID           string // opaque processor-assigned id
	AmountCents  int64  // stored in centavos to avoid float drift
	Description  string
	PayerEmail   string
	Status       PaymentStatus
	QRCode       string // copy-and-paste payload
	QRCodeBase64 string // PNG rendering of the same charge
	CreatedAt    time.Time
	ExpiresAt    time.Time         // processor-provided, else CreatedAt + default TTL
	Metadata     map[string]string // opaque bag; carries planId/companyId on subscribe flows
}

// AmountBRL converts the stored centavos into currency units for the wire.
func (p *PixPayment) AmountBRL() float64 {
	return float64(p.AmountCents) / 100
}
