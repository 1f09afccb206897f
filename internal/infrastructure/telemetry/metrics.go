package telemetry

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appproc "github.com/wms/backend/internal/application/procurement"
	"github.com/wms/backend/internal/domain/procurement"
)

// Metrics holds the Prometheus collectors of the service on a private registry
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	prCreated     *prometheus.CounterVec
	prTransitions *prometheus.CounterVec
	receipts      *prometheus.CounterVec
	receivedLines prometheus.Counter
	receivedUnits prometheus.Counter
}

// NewMetrics creates and registers the collectors under namespace
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		prCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "procurement",
			Name:      "prs_created_total",
			Help:      "Purchase requisitions created by priority",
		}, []string{"priority"}),
		prTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "procurement",
			Name:      "pr_transitions_total",
			Help:      "Purchase requisition status changes by target status",
		}, []string{"status"}),
		receipts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "procurement",
			Name:      "receipts_total",
			Help:      "Applied receive calls by mode",
		}, []string{"mode"}),
		receivedLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "procurement",
			Name:      "received_lines_total",
			Help:      "Receive lines turned into inventory lots",
		}),
		receivedUnits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "procurement",
			Name:      "received_units_total",
			Help:      "Units received into stock",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.prCreated,
		m.prTransitions,
		m.receipts,
		m.receivedLines,
		m.receivedUnits,
	)
	return m
}

// RegisterDB exports connection pool statistics of db
func (m *Metrics) RegisterDB(db *sql.DB, name string) error {
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// GinMiddleware records request counts and latencies. Routes are labelled
// by their pattern so path parameters do not explode cardinality.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// PRCreated implements procurement.WorkflowMetrics
func (m *Metrics) PRCreated(priority procurement.Priority) {
	m.prCreated.WithLabelValues(string(priority)).Inc()
}

// PRTransitioned implements procurement.WorkflowMetrics
func (m *Metrics) PRTransitioned(to procurement.PRStatus) {
	m.prTransitions.WithLabelValues(to.String()).Inc()
}

// GoodsReceived implements procurement.WorkflowMetrics
func (m *Metrics) GoodsReceived(lines, quantity int, poMediated bool) {
	mode := "direct"
	if poMediated {
		mode = "purchase_order"
	}
	m.receipts.WithLabelValues(mode).Inc()
	m.receivedLines.Add(float64(lines))
	m.receivedUnits.Add(float64(quantity))
}

var _ appproc.WorkflowMetrics = (*Metrics)(nil)
