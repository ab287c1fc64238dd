package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"youtube-performance-tracker/internal/domain"
	"youtube-performance-tracker/internal/domain/model"
	"youtube-performance-tracker/internal/domain/ports/repository"
)

var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct{ pool *pgxpool.Pool }

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (id, payment_id, company_id, plan_id, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (payment_id) DO UPDATE SET status=$5, updated_at=$7;`

	_, err := execSQL(ctx, r.pool, tx, q, s.ID, s.PaymentID, s.CompanyID, s.PlanID, s.Status, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *subscriptionRepo) FindByPaymentID(ctx context.Context, tx repository.Tx, paymentID string) (*model.Subscription, error) {
	q := `SELECT id, payment_id, company_id, plan_id, status, created_at, updated_at FROM subscriptions WHERE payment_id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, paymentID)
	if err != nil {
		return nil, err
	}

	s := &model.Subscription{}
	if err := row.Scan(&s.ID, &s.PaymentID, &s.CompanyID, &s.PlanID, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return s, nil
}

// MarkApproved is the at-most-once guard for the activation side effect:
// a conditional update that only one of the racing triggers wins.
func (r *subscriptionRepo) MarkApproved(ctx context.Context, tx repository.Tx, paymentID string) (bool, error) {
	const q = `UPDATE subscriptions SET status=$2, updated_at=NOW() WHERE payment_id=$1 AND status <> $2;`
	cmd, err := execSQL(ctx, r.pool, tx, q, paymentID, model.PaymentStatusApproved)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *subscriptionRepo) UpdateStatus(ctx context.Context, tx repository.Tx, paymentID string, status model.PaymentStatus) error {
	// Approved rows never move again; the guard mirrors the payment one.
	const q = `UPDATE subscriptions SET status=$2, updated_at=NOW() WHERE payment_id=$1 AND status <> $3;`
	_, err := execSQL(ctx, r.pool, tx, q, paymentID, status, model.PaymentStatusApproved)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}
