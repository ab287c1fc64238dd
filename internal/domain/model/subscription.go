package model

import "time"

// Subscription links a plan-purchase payment to the company buying the plan.
// Its status mirrors the payment's normalized status and never leaves
// "approved" once set; the approval side effect (plan activation) is applied
// at most once per payment id.
type Subscription struct {
	ID        string // ULID
	PaymentID string
	CompanyID int64
	PlanID    string
	Status    PaymentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
