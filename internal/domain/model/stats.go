package model

// RevenueSummary is the admin-dashboard headline block.
type RevenueSummary struct {
	Companies       int64
	ActivePlans     int64
	TotalMRRCents   int64
	ApprovedCents   int64
	PendingPayments int64
}

type PlanRevenue struct {
	PlanID       string
	PlanName     string
	Companies    int64
	RevenueCents int64
}

type RevenuePoint struct {
	Month        string // YYYY-MM
	RevenueCents int64
}
