package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "belanjaaja_orders_created_total",
		Help: "Number of orders created through checkout.",
	})

	OrdersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "belanjaaja_orders_cancelled_total",
		Help: "Number of orders cancelled by buyers.",
	})

	PaymentsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "belanjaaja_payments_settled_total",
		Help: "Number of payments settled via gateway notifications.",
	})

	CheckoutsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "belanjaaja_checkouts_failed_total",
		Help: "Number of failed checkout attempts by reason.",
	}, []string{"reason"})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
