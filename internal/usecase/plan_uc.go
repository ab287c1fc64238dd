package usecase

import (
	"context"
	"fmt"

	"youtube-performance-tracker/internal/domain"
	"youtube-performance-tracker/internal/domain/model"
	"youtube-performance-tracker/internal/domain/ports/repository"
)

// PlanUseCase is the admin plan catalog.
type PlanUseCase struct {
	plans repository.PlanRepository
}

func NewPlanUseCase(plans repository.PlanRepository) *PlanUseCase {
	return &PlanUseCase{plans: plans}
}

func (u *PlanUseCase) List(ctx context.Context) ([]*model.Plan, error) {
	return u.plans.ListAll(ctx, nil)
}

func (u *PlanUseCase) Get(ctx context.Context, id string) (*model.Plan, error) {
	return u.plans.FindByID(ctx, nil, id)
}

func (u *PlanUseCase) Upsert(ctx context.Context, p *model.Plan) error {
	if p.ID == "" || p.Name == "" {
		return fmt.Errorf("%w: plan id and name are required", domain.ErrInvalidInput)
	}
	if p.PriceCents <= 0 {
		return fmt.Errorf("%w: plan price must be positive", domain.ErrInvalidInput)
	}
	return u.plans.Save(ctx, nil, p)
}

func (u *PlanUseCase) Delete(ctx context.Context, id string) error {
	return u.plans.Delete(ctx, nil, id)
}
