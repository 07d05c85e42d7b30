package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fooddelight"

// Outcome labels for order placement
const (
	OutcomeSuccess           = "success"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeInvalid           = "invalid"
	OutcomeError             = "error"
)

// Metrics owns the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	OrdersPlaced      *prometheus.CounterVec
	StatusTransitions *prometheus.CounterVec
	CODCollections    prometheus.Counter
	PartnerRatingBump prometheus.Counter
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		OrdersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Checkout attempts by payment method and outcome.",
		}, []string{"method", "outcome"}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_transitions_total",
			Help:      "Order status changes by previous and new status.",
		}, []string{"from", "to"}),
		CODCollections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cod_collections_total",
			Help:      "Cash-on-delivery payments collected.",
		}),
		PartnerRatingBump: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partner_rating_increments_total",
			Help:      "Partner rating increments applied on delivery.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		m.OrdersPlaced,
		m.StatusTransitions,
		m.CODCollections,
		m.PartnerRatingBump,
		m.HTTPRequests,
		m.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request counts and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
