package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"youtube-performance-tracker/internal/domain/model"
	"youtube-performance-tracker/internal/domain/ports/repository"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

// StatsUseCase serves the admin revenue dashboard.
type StatsUseCase interface {
	Summary(ctx context.Context) (*model.RevenueSummary, error)
	RevenueByPlan(ctx context.Context) ([]model.PlanRevenue, error)
	RevenueTrend(ctx context.Context, months int) ([]model.RevenuePoint, error)
}

type statsUC struct {
	stats repository.StatsRepository
	log   *zerolog.Logger
}

func NewStatsUseCase(stats repository.StatsRepository, logger *zerolog.Logger) *statsUC {
	return &statsUC{stats: stats, log: logger}
}

func (s *statsUC) Summary(ctx context.Context) (*model.RevenueSummary, error) {
	return s.stats.Summary(ctx)
}

func (s *statsUC) RevenueByPlan(ctx context.Context) ([]model.PlanRevenue, error) {
	return s.stats.RevenueByPlan(ctx)
}

func (s *statsUC) RevenueTrend(ctx context.Context, months int) ([]model.RevenuePoint, error) {
	if months <= 0 || months > 24 {
		months = 6
	}
	return s.stats.RevenueTrend(ctx, months)
}
