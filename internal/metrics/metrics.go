// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phrazzld/shortlink-api/internal/domain"
)

// Metrics holds every collector the API and the workers report to.
type Metrics struct {
	httpRequests           *prometheus.CounterVec
	httpDuration           *prometheus.HistogramVec
	urlsCreated            prometheus.Counter
	urlsClicked            prometheus.Counter
	jobsProcessed          *prometheus.CounterVec
	jobDuration            *prometheus.HistogramVec
	clickIncrementFailures prometheus.Counter
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "endpoint", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		urlsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "urls_created_total",
			Help: "Total URLs created",
		}),
		urlsClicked: factory.NewCounter(prometheus.CounterOpts{
			Name: "urls_clicked_total",
			Help: "Total URL clicks",
		}),
		jobsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jobs_processed_total",
			Help: "Total jobs processed",
		}, []string{"job_type", "status"}),
		jobDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "job_processing_duration_seconds",
			Help:    "Job processing duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"job_type"}),
		clickIncrementFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "click_increment_failures_total",
			Help: "Redirects whose click count could not be recorded",
		}),
	}
}

// ObserveJob records one processed job.
func (m *Metrics) ObserveJob(jobType domain.JobType, status domain.JobStatus, duration time.Duration) {
	m.jobsProcessed.WithLabelValues(string(jobType), string(status)).Inc()
	m.jobDuration.WithLabelValues(string(jobType)).Observe(duration.Seconds())
}

// HandleEvent counts analytics events. It never fails.
func (m *Metrics) HandleEvent(_ context.Context, event *domain.AnalyticsEvent) error {
	switch event.Event {
	case domain.EventURLCreated:
		m.urlsCreated.Inc()
	case domain.EventURLClicked:
		m.urlsClicked.Inc()
	}
	return nil
}

// ClickIncrementFailed counts a redirect whose click was lost.
func (m *Metrics) ClickIncrementFailed() {
	m.clickIncrementFailures.Inc()
}

// Middleware records request counts and latency keyed by the matched chi
// route pattern, so path parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				endpoint = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.httpRequests.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}

// QueueLengther reports how many items wait on a queue.
type QueueLengther interface {
	Len(ctx context.Context) (int64, error)
}

// DefaultQueueDepthTimeout bounds the length lookup made on each scrape.
const DefaultQueueDepthTimeout = time.Second

// RegisterQueueDepth exposes the length of q as job_queue_depth, read on
// every scrape. A failed lookup reports NaN.
func RegisterQueueDepth(reg prometheus.Registerer, q QueueLengther) error {
	return reg.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "job_queue_depth",
		Help: "Jobs waiting on the job queue",
	}, func() float64 {
		ctx, cancel := context.WithTimeout(context.Background(), DefaultQueueDepthTimeout)
		defer cancel()

		n, err := q.Len(ctx)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}))
}

// Handler serves the collectors registered on g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
