package repository

import (
	"context"
	"time"

	"youtube-performance-tracker/internal/domain/model"
)

type CompanyRepository interface {
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Company, error)
	// UpdatePlan activates a plan on the company: plan id, MRR and the new
	// expiry in one write.
	UpdatePlan(ctx context.Context, tx Tx, id int64, planID string, mrrCents int64, expiresAt time.Time) error
}
