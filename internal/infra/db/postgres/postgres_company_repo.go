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
	"youtube-performance-tracker/internal/infra/metrics"
)

var _ repository.CompanyRepository = (*companyRepo)(nil)

type companyRepo struct{ pool *pgxpool.Pool }

func NewCompanyRepo(pool *pgxpool.Pool) *companyRepo {
	return &companyRepo{pool: pool}
}

func (r *companyRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Company, error) {
	q := `SELECT id, name, plan, mrr_cents, plan_expires_at, created_at FROM companies WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}

	c := &model.Company{}
	if err := row.Scan(&c.ID, &c.Name, &c.Plan, &c.MRRCents, &c.PlanExpiresAt, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return c, nil
}

func (r *companyRepo) UpdatePlan(ctx context.Context, tx repository.Tx, id int64, planID string, mrrCents int64, expiresAt time.Time) error {
	const q = `UPDATE companies SET plan=$2, mrr_cents=$3, plan_expires_at=$4 WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, id, planID, mrrCents, expiresAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	metrics.IncPlanActivated(planID)
	metrics.AddPlanRevenue("BRL", mrrCents)
	return nil
}
