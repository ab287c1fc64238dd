package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"youtube-performance-tracker/internal/domain"
	"youtube-performance-tracker/internal/domain/model"
	"youtube-performance-tracker/internal/domain/ports/repository"
)

var _ repository.StatsRepository = (*statsRepo)(nil)

type statsRepo struct{ pool *pgxpool.Pool }

func NewStatsRepo(pool *pgxpool.Pool) *statsRepo {
	return &statsRepo{pool: pool}
}

func (r *statsRepo) Summary(ctx context.Context) (*model.RevenueSummary, error) {
	const q = `
SELECT
  (SELECT COUNT(*) FROM companies),
  (SELECT COUNT(*) FROM companies WHERE plan_expires_at > NOW()),
  (SELECT COALESCE(SUM(mrr_cents),0) FROM companies WHERE plan_expires_at > NOW()),
  (SELECT COALESCE(SUM(amount_cents),0) FROM payments WHERE status='approved'),
  (SELECT COUNT(*) FROM payments WHERE status='pending');`

	row, err := pickRow(ctx, r.pool, nil, q)
	if err != nil {
		return nil, err
	}
	s := &model.RevenueSummary{}
	if err := row.Scan(&s.Companies, &s.ActivePlans, &s.TotalMRRCents, &s.ApprovedCents, &s.PendingPayments); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return s, nil
}

func (r *statsRepo) RevenueByPlan(ctx context.Context) ([]model.PlanRevenue, error) {
	const q = `
SELECT p.id, p.name, COUNT(DISTINCT s.company_id), COALESCE(SUM(pay.amount_cents),0)
FROM plans p
LEFT JOIN subscriptions s ON s.plan_id = p.id AND s.status = 'approved'
LEFT JOIN payments pay ON pay.id = s.payment_id AND pay.status = 'approved'
GROUP BY p.id, p.name
ORDER BY 4 DESC;`

	rows, err := pickRows(ctx, r.pool, nil, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlanRevenue
	for rows.Next() {
		var pr model.PlanRevenue
		if err := rows.Scan(&pr.PlanID, &pr.PlanName, &pr.Companies, &pr.RevenueCents); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

func (r *statsRepo) RevenueTrend(ctx context.Context, months int) ([]model.RevenuePoint, error) {
	const q = `
SELECT TO_CHAR(DATE_TRUNC('month', created_at), 'YYYY-MM') AS month, COALESCE(SUM(amount_cents),0)
FROM payments
WHERE status='approved' AND created_at >= DATE_TRUNC('month', NOW()) - ($1 || ' months')::interval
GROUP BY 1
ORDER BY 1;`

	rows, err := pickRows(ctx, r.pool, nil, q, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RevenuePoint
	for rows.Next() {
		var pt model.RevenuePoint
		if err := rows.Scan(&pt.Month, &pt.RevenueCents); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, pt)
	}
	return out, rows.Err()
}
