package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bulkorder"

type Metrics struct {
	Requests        *prometheus.CounterVec
	LatencyMS       *prometheus.HistogramVec
	OrdersCreated   prometheus.Counter
	Transitions     *prometheus.CounterVec
	HandlerFailures *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "method", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"handler", "method"}),
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Bulk orders accepted by intake.",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Review transitions applied, by target status.",
		}, []string{"to"}),
		HandlerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_handler_failures_total",
			Help:      "Event consumer failures (email, websocket, kafka).",
		}, []string{"handler"}),
	}
	reg.MustRegister(m.Requests, m.LatencyMS, m.OrdersCreated, m.Transitions, m.HandlerFailures)
	return m
}

func (m *Metrics) ObserveOrderCreated() {
	if m == nil {
		return
	}
	m.OrdersCreated.Inc()
}

func (m *Metrics) ObserveTransition(to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(to).Inc()
}

func (m *Metrics) ObserveHandlerFailure(handler string) {
	if m == nil {
		return
	}
	m.HandlerFailures.WithLabelValues(handler).Inc()
}

// Middleware records request count and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		handler := c.FullPath()
		if handler == "" {
			handler = "unmatched"
		}
		m.Requests.WithLabelValues(handler, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.LatencyMS.WithLabelValues(handler, c.Request.Method).Observe(float64(time.Since(start).Milliseconds()))
	}
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
