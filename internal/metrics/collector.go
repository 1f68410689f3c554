package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nao1215/siteaudit/internal/model"
)

// Namespace prefixes every metric name.
const Namespace = "siteaudit"

// scoreBuckets spread the 0..100 health score into ten bands.
var scoreBuckets = prometheus.LinearBuckets(10, 10, 10)

// Collector records scan metrics into its own registry.
type Collector struct {
	registry *prometheus.Registry

	moduleRuns     *prometheus.CounterVec
	moduleDuration *prometheus.HistogramVec
	scansTotal     prometheus.Counter
	scanDuration   prometheus.Histogram
	scanScore      prometheus.Histogram
	breakerState   *prometheus.GaugeVec
	breakerChanges *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewCollector creates a Collector with all metrics registered.
// version is exported through the build_info gauge.
func NewCollector(version string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		moduleRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "module_runs_total",
				Help:      "Analysis module runs by final status",
			},
			[]string{"module", "status"},
		),
		moduleDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "module_duration_seconds",
				Help:      "Analysis module run time in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"module"},
		),
		scansTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "scans_total",
				Help:      "Completed scans",
			},
		),
		scanDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "scan_duration_seconds",
				Help:      "End-to-end scan time in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 8),
			},
		),
		scanScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "scan_score",
				Help:      "Health score of completed scans",
				Buckets:   scoreBuckets,
			},
		),
		breakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "ai_circuit_breaker_state",
				Help:      "Current state of the AI provider circuit breaker (0=closed, 1=half-open, 2=open)",
			},
			[]string{"provider"},
		),
		breakerChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "ai_circuit_breaker_transitions_total",
				Help:      "AI provider circuit breaker state transitions",
			},
			[]string{"provider", "from", "to"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests served by the API",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
	}

	buildInfo := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "build_info",
			Help:      "Build information",
		},
		[]string{"version"},
	)
	buildInfo.WithLabelValues(version).Set(1)

	c.registry.MustRegister(
		c.moduleRuns,
		c.moduleDuration,
		c.scansTotal,
		c.scanDuration,
		c.scanScore,
		c.breakerState,
		c.breakerChanges,
		c.httpRequests,
		c.httpDuration,
		buildInfo,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveModule records the outcome of one analysis module run.
func (c *Collector) ObserveModule(module string, status model.ModuleStatus, elapsed time.Duration) {
	c.moduleRuns.WithLabelValues(module, string(status)).Inc()
	c.moduleDuration.WithLabelValues(module).Observe(elapsed.Seconds())
}

// ObserveScan records a completed scan.
func (c *Collector) ObserveScan(elapsed time.Duration, score int) {
	c.scansTotal.Inc()
	c.scanDuration.Observe(elapsed.Seconds())
	c.scanScore.Observe(float64(score))
}

// breakerStateValues maps breaker state names to gauge values.
var breakerStateValues = map[string]float64{
	"closed":    0,
	"half-open": 1,
	"open":      2,
}

// ObserveBreakerTransition records an AI provider circuit transition.
// Its signature matches ai.Settings.OnBreakerStateChange.
func (c *Collector) ObserveBreakerTransition(provider, from, to string) {
	c.breakerChanges.WithLabelValues(provider, from, to).Inc()
	if v, ok := breakerStateValues[to]; ok {
		c.breakerState.WithLabelValues(provider).Set(v)
	}
}

// Middleware returns gin middleware that records request counts and durations.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		endpoint := ctx.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}
		method := ctx.Request.Method
		status := strconv.Itoa(ctx.Writer.Status())

		c.httpRequests.WithLabelValues(method, endpoint, status).Inc()
		c.httpDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// Handler returns an HTTP handler that serves the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
