package repository

import (
	"context"
	"time"

	"youtube-performance-tracker/internal/domain/model"
)

type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.PixPayment) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.PixPayment, error)
	// UpdateStatusIfPending is the monotonicity guard: the row only changes
	// while still pending. Returns true when this call performed the
	// transition.
	UpdateStatusIfPending(ctx context.Context, tx Tx, id string, status model.PaymentStatus) (bool, error)
	ListPendingOlderThan(ctx context.Context, tx Tx, cutoff time.Time, limit int) ([]*model.PixPayment, error)
}
