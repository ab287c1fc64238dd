package model

// Plan is a purchasable subscription tier.
type Plan struct {
	ID          string
	Name        string
	PriceCents  int64 // also the MRR attributed to a company on this plan
	MaxChannels int
}
