// Package metrics exposes Prometheus instrumentation for generations,
// credits, sessions and HTTP traffic on a private registry.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/phrazzld/storeboost-api/internal/events"
	"github.com/phrazzld/storeboost-api/internal/generation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storeboost"

// Metrics holds every collector. Use New; the zero value is not usable.
type Metrics struct {
	registry *prometheus.Registry

	generations        *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	creditsDebited     prometheus.Counter
	sessionsCreated    *prometheus.CounterVec
	workflowFailures   *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// New creates Metrics on a fresh registry that also carries the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		generations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_calls_total",
			Help:      "Generator calls, partitioned by provider and outcome.",
		}, []string{"provider", "outcome"}),
		generationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_call_duration_seconds",
			Help:      "Duration of generator calls.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 90},
		}, []string{"provider"}),
		creditsDebited: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credits_debited_total",
			Help:      "Credits debited for completed generations.",
		}),
		sessionsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Sessions created, partitioned by signup or login.",
		}, []string{"kind"}),
		workflowFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_failures_total",
			Help:      "Generations that produced no record, partitioned by reason.",
		}, []string{"reason"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, partitioned by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// InstrumentGenerator wraps gen so every call is counted and timed under
// the provider label.
func (m *Metrics) InstrumentGenerator(gen generation.Generator, provider string) generation.Generator {
	return &instrumentedGenerator{next: gen, provider: provider, m: m}
}

type instrumentedGenerator struct {
	next     generation.Generator
	provider string
	m        *Metrics
}

func (g *instrumentedGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	start := time.Now()
	result, err := g.next.Generate(ctx, req)
	g.m.generationDuration.WithLabelValues(g.provider).Observe(time.Since(start).Seconds())
	g.m.generations.WithLabelValues(g.provider, generation.KindLabel(err)).Inc()
	return result, err
}

// EventHandler returns a handler that turns workflow events into counters.
func (m *Metrics) EventHandler() events.Handler {
	return events.HandlerFunc(func(_ context.Context, event *events.Event) error {
		switch event.Type {
		case events.TypeGenerationCompleted:
			var p events.GenerationCompleted
			if err := event.UnmarshalPayload(&p); err != nil {
				return err
			}
			m.creditsDebited.Add(float64(p.CreditsDebited))
		case events.TypeGenerationFailed:
			var p events.GenerationFailed
			if err := event.UnmarshalPayload(&p); err != nil {
				return err
			}
			m.workflowFailures.WithLabelValues(p.Reason).Inc()
		case events.TypeSessionCreated:
			var p events.SessionCreated
			if err := event.UnmarshalPayload(&p); err != nil {
				return err
			}
			m.sessionsCreated.WithLabelValues(p.Kind).Inc()
		}
		return nil
	})
}

// Middleware records request counts and latency labelled by the matched
// chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
