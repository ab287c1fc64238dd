package adapter

import (
	"context"

	"youtube-performance-tracker/internal/domain/model"
)

// PaymentGateway wraps the PIX payment processor's REST API.
type PaymentGateway interface {
	// CreatePixPayment issues a new PIX charge. Every call sends a fresh
	// idempotency key; retrying the same logical request is the caller's
	// decision, the gateway never deduplicates.
	CreatePixPayment(ctx context.Context, amountCents int64, description, payerEmail string) (*model.PixPayment, error)
	// GetPaymentStatus queries the processor and returns the normalized status.
	GetPaymentStatus(ctx context.Context, id string) (model.PaymentStatus, error)
	// VerifyWebhookSignature authenticates an inbound webhook. Malformed or
	// missing signatures are false, never an error; with no secret configured
	// it always returns false.
	VerifyWebhookSignature(payload []byte, signatureHeader string) bool
}
