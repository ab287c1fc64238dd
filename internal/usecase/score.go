package usecase

import (
	"fmt"
	"math"
	"time"

	"youtube-performance-tracker/internal/domain"
	"youtube-performance-tracker/internal/domain/model"
)

// Scoring weights. View velocity and absolute likes span orders of magnitude
// across channel sizes, so they are log-compressed; the two ratio signals are
// already size-normalized percentages and carry more weight.
const (
	weightViewVelocity  = 0.4
	weightEngagement    = 0.3
	weightSubReach      = 0.2
	weightAbsPopularity = 0.1
)

// ScoreThresholds are the tier cut points. Tunable, pinned by tests.
type ScoreThresholds struct {
	High   float64
	Medium float64
}

var DefaultScoreThresholds = ScoreThresholds{High: 7.5, Medium: 4.5}

// ScoreEngine classifies a video's recent performance from raw engagement
// counters. Pure: no I/O, deterministic for a fixed clock.
type ScoreEngine struct {
	thresholds ScoreThresholds
	now        func() time.Time
}

// NewScoreEngine builds an engine with the given cut points. A nil clock
// defaults to time.Now.
func NewScoreEngine(thresholds ScoreThresholds, now func() time.Time) *ScoreEngine {
	if now == nil {
		now = time.Now
	}
	return &ScoreEngine{thresholds: thresholds, now: now}
}

// Score computes the raw performance score. Negative counters are rejected
// rather than clamped: they mean upstream data corruption, not slow videos.
func (e *ScoreEngine) Score(stats model.VideoStats) (float64, error) {
	if stats.Views < 0 || stats.Likes < 0 || stats.SubscriberCount < 0 {
		return 0, fmt.Errorf("%w: negative counters (views=%d likes=%d subscribers=%d)",
			domain.ErrInvalidInput, stats.Views, stats.Likes, stats.SubscriberCount)
	}

	// Floor at one hour: avoids division by zero and explosive rates for
	// videos published moments ago.
	ageHours := e.now().Sub(stats.PublishedAt).Hours()
	if ageHours < 1 {
		ageHours = 1
	}

	viewsPerHour := float64(stats.Views) / ageHours
	engagementRate := 0.0
	if stats.Views > 0 {
		engagementRate = float64(stats.Likes) / float64(stats.Views) * 100
	}
	subscriberPenetration := 0.0
	if stats.SubscriberCount > 0 {
		subscriberPenetration = float64(stats.Views) / float64(stats.SubscriberCount) * 100
	}

	score := weightViewVelocity*math.Log10(viewsPerHour+1) +
		weightEngagement*engagementRate +
		weightSubReach*subscriberPenetration +
		weightAbsPopularity*math.Log10(float64(stats.Likes)+1)
	return score, nil
}

// Classify maps stats to exactly one of the three tiers.
func (e *ScoreEngine) Classify(stats model.VideoStats) (model.PerformanceTier, error) {
	score, err := e.Score(stats)
	if err != nil {
		return "", err
	}
	return e.tierFor(score), nil
}

func (e *ScoreEngine) tierFor(score float64) model.PerformanceTier {
	switch {
	case score >= e.thresholds.High:
		return model.TierHigh
	case score >= e.thresholds.Medium:
		return model.TierMedium
	default:
		return model.TierLow
	}
}
