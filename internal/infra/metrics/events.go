package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(busSubscribers, busPublishedTotal)
}

var (
	busSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "payment_bus_subscribers",
			Help: "Live payment status subscribers (open SSE streams).",
		},
	)

	busPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_bus_published_total",
			Help: "Status events fanned out, by status.",
		},
		[]string{"status"},
	)
)

func SetBusSubscribers(n int) {
	busSubscribers.Set(float64(n))
}

func IncBusPublished(status string) {
	busPublishedTotal.WithLabelValues(norm(status)).Inc()
}
