package model

import "time"

// Company is the billing tenant. Plan, MRR and PlanExpiresAt are written by
// the payment reconciler on subscription approval; everything else belongs to
// the admin CRUD surface.
type Company struct {
	ID            int64
	Name          string
	Plan          string
	MRRCents      int64
	PlanExpiresAt *time.Time
	CreatedAt     time.Time
}
