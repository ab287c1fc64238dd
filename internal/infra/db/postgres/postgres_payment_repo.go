package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"youtube-performance-tracker/internal/domain"
	"youtube-performance-tracker/internal/domain/model"
	"youtube-performance-tracker/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

func (r *paymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.PixPayment) error {
	const q = `
INSERT INTO payments (
  id, amount_cents, description, payer_email, status, qr_code, qr_code_base64, created_at, expires_at, metadata
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10
) ON CONFLICT (id) DO UPDATE SET
  amount_cents=$2, description=$3, payer_email=$4, status=$5, qr_code=$6, qr_code_base64=$7, expires_at=$9, metadata=$10;`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.AmountCents, p.Description, p.PayerEmail, p.Status, p.QRCode, p.QRCodeBase64, p.CreatedAt, p.ExpiresAt, p.Metadata)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

const paymentColumns = `id, amount_cents, description, payer_email, status, qr_code, qr_code_base64, created_at, expires_at, metadata`

func (r *paymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PixPayment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

// UpdateStatusIfPending performs the guarded transition out of pending. The
// WHERE clause is the monotonicity guard: concurrent triggers race on it and
// exactly one observes rows-affected == 1.
func (r *paymentRepo) UpdateStatusIfPending(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus) (bool, error) {
	const q = `UPDATE payments SET status=$2 WHERE id=$1 AND status=$3;`
	cmd, err := execSQL(ctx, r.pool, tx, q, id, status, model.PaymentStatusPending)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *paymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, cutoff time.Time, limit int) ([]*model.PixPayment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE status=$1 AND created_at < $2 ORDER BY created_at LIMIT $3;`
	rows, err := pickRows(ctx, r.pool, tx, q, model.PaymentStatusPending, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.PixPayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPayment(row pgx.Row) (*model.PixPayment, error) {
	p := &model.PixPayment{}
	err := row.Scan(&p.ID, &p.AmountCents, &p.Description, &p.PayerEmail, &p.Status, &p.QRCode, &p.QRCodeBase64, &p.CreatedAt, &p.ExpiresAt, &p.Metadata)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}
