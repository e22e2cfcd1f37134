package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bracket"

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	bracketsGenerated prometheus.Counter
	bracketMatches    prometheus.Histogram
	results           *prometheus.CounterVec
	cascadeResets     prometheus.Counter
	httpDuration      *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		bracketsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "brackets_generated_total",
			Help:      "Brackets generated or regenerated.",
		}),
		bracketMatches: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bracket_matches",
			Help:      "Number of matches in generated brackets.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		results: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_results_total",
			Help:      "Recorded match results by outcome.",
		}, []string{"outcome"}),
		cascadeResets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cascade_resets_total",
			Help:      "Matches beyond the immediate downstream match cleared by a changed result.",
		}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) BracketGenerated(matches int) {
	m.bracketsGenerated.Inc()
	m.bracketMatches.Observe(float64(matches))
}

// ResultRecorded counts a scored match; advanced is false for ties and empty-slot wins.
func (m *Metrics) ResultRecorded(advanced bool, cascaded int) {
	outcome := "winner"
	if !advanced {
		outcome = "no_winner"
	}
	m.results.WithLabelValues(outcome).Inc()
	if cascaded > 0 {
		m.cascadeResets.Add(float64(cascaded))
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware observes request latency labelled by chi route pattern, not raw path,
// to keep label cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
