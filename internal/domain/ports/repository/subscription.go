package repository

import (
	"context"

	"youtube-performance-tracker/internal/domain/model"
)

type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, s *model.Subscription) error
	FindByPaymentID(ctx context.Context, tx Tx, paymentID string) (*model.Subscription, error)
	// MarkApproved flips the subscription to approved unless it already is.
	// Returns true when this call performed the transition; callers apply the
	// plan-activation side effect only on true.
	MarkApproved(ctx context.Context, tx Tx, paymentID string) (bool, error)
	UpdateStatus(ctx context.Context, tx Tx, paymentID string, status model.PaymentStatus) error
}
