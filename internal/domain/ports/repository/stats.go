package repository

import (
	"context"

	"youtube-performance-tracker/internal/domain/model"
)

// StatsRepository aggregates revenue figures for the admin dashboard.
type StatsRepository interface {
	Summary(ctx context.Context) (*model.RevenueSummary, error)
	RevenueByPlan(ctx context.Context) ([]model.PlanRevenue, error)
	RevenueTrend(ctx context.Context, months int) ([]model.RevenuePoint, error)
}
