package usecase

import (
	"context"
	"errors"
	"fmt"

	"youtube-performance-tracker/internal/domain"
	"youtube-performance-tracker/internal/domain/model"
	"youtube-performance-tracker/internal/domain/ports/repository"
)

// SubscriptionPrep is the resolved context for a plan purchase: the plan
// itself, plus the payer's company when the email already has an account.
type SubscriptionPrep struct {
	Plan      *model.Plan
	CompanyID *int64
}

// BillingUseCase resolves plan purchases before a charge is created.
type BillingUseCase struct {
	plans repository.PlanRepository
	users repository.UserRepository
}

func NewBillingUseCase(plans repository.PlanRepository, users repository.UserRepository) *BillingUseCase {
	return &BillingUseCase{plans: plans, users: users}
}

func (u *BillingUseCase) PrepareSubscription(ctx context.Context, planID, email, companyName string) (*SubscriptionPrep, error) {
	if planID == "" || email == "" || companyName == "" {
		return nil, fmt.Errorf("%w: planId, email and companyName are required", domain.ErrInvalidInput)
	}

	plan, err := u.plans.FindByID(ctx, nil, planID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown plan %q", domain.ErrInvalidInput, planID)
		}
		return nil, err
	}

	user, err := u.users.FindByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// New customer: the company record is created after payment,
			// during registration.
			return &SubscriptionPrep{Plan: plan}, nil
		}
		return nil, err
	}
	return &SubscriptionPrep{Plan: plan, CompanyID: &user.CompanyID}, nil
}
