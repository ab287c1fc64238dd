package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentsTotal,
		planActivationsTotal,
		planRevenueTotal,
		gatewayCallsTotal,
		webhooksRejectedTotal,
	)
}

var (
	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payment transitions by normalized status (pending/approved/error/expired).",
		},
		[]string{"status"},
	)

	planActivationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_activations_total",
			Help: "Company plan activations by plan id.",
		},
		[]string{"plan"},
	)

	planRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_revenue_total_cents",
			Help: "Monetary value of activated plans, labeled by currency.",
		},
		[]string{"currency"},
	)

	gatewayCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_gateway_calls_total",
			Help: "Calls against the payment processor by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	webhooksRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_webhooks_rejected_total",
			Help: "Webhook deliveries dropped for a bad or missing signature.",
		},
	)
)

func IncPayment(status string) {
	paymentsTotal.WithLabelValues(norm(status)).Inc()
}

func IncPlanActivated(planID string) {
	planActivationsTotal.WithLabelValues(norm(planID)).Inc()
}

func AddPlanRevenue(currency string, cents int64) {
	planRevenueTotal.WithLabelValues(norm(currency)).Add(float64(cents))
}

func IncGatewayCall(op, outcome string) {
	gatewayCallsTotal.WithLabelValues(norm(op), norm(outcome)).Inc()
}

func IncWebhookRejected() {
	webhooksRejectedTotal.Inc()
}
