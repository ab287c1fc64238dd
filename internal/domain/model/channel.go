package model

import "time"

// Channel is a tracked YouTube channel scoped to one company.
type Channel struct {
	ID              int64
	CompanyID       int64
	YouTubeID       string
	Name            string
	Avatar          string
	URL             string
	SubscriberCount uint64
	CreatedAt       time.Time
}

type PerformanceTier string

const (
	TierHigh   PerformanceTier = "high"
	TierMedium PerformanceTier = "medium"
	TierLow    PerformanceTier = "low"
)

// VideoStats are the raw counters a video is scored from. Ephemeral; fetched
// per request and never persisted.
type VideoStats struct {
	Views           int64
	Likes           int64
	PublishedAt     time.Time
	SubscriberCount int64
}

// Video is a channel upload enriched with its performance classification.
type Video struct {
	ID          string
	Title       string
	Thumbnail   string
	URL         string
	PublishedAt time.Time
	Views       int64
	Likes       int64
	Performance PerformanceTier
}
