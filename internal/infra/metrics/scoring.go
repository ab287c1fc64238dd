package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(videosScoredTotal) }

var videosScoredTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "videos_scored_total",
		Help: "Videos classified by performance tier.",
	},
	[]string{"tier"},
)

func IncVideoScored(tier string) {
	videosScoredTotal.WithLabelValues(norm(tier)).Inc()
}
