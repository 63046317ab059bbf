package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

type Metrics struct {
	registry *prometheus.Registry

	ItemsAdded         prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	OrdersCommitted    prometheus.Counter
	OrderReplays       prometheus.Counter
	CommitFailures     *prometheus.CounterVec
	OrderValue         prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ItemsAdded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_items_added_total",
			Help:      "Units added to carts.",
		}),
		ValidationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_validation_failures_total",
			Help:      "Checkout transitions rejected by validation.",
		}, []string{"step", "field"}),
		OrdersCommitted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_committed_total",
			Help:      "Orders persisted.",
		}),
		OrderReplays: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_replays_total",
			Help:      "Submits answered with an already committed order.",
		}),
		CommitFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_commit_failures_total",
			Help:      "Order submits that failed.",
		}, []string{"reason"}),
		OrderValue: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_total_amount",
			Help:      "Order grand totals.",
			Buckets:   []float64{25, 50, 100, 150, 250, 500, 1000},
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
