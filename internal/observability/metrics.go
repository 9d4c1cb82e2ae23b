package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics aggregates the engine's instrumentation on a caller-owned
// registry. All methods are safe on a nil receiver so tests and offline
// tools can skip wiring.
type Metrics struct {
	externalCalls   *prometheus.CounterVec
	externalLatency *prometheus.HistogramVec

	evaluations       *prometheus.CounterVec
	retrievalQueries  prometheus.Counter
	composerFallbacks prometheus.Counter
	indexSize         prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		externalCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "advisor",
			Name:      "external_calls_total",
			Help:      "Outbound provider calls by operation and outcome.",
		}, []string{"provider", "op", "outcome"}),
		externalLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "advisor",
			Name:      "external_call_seconds",
			Help:      "Latency of outbound provider calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "op"}),
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "advisor",
			Name:      "eligibility_evaluations_total",
			Help:      "Completed eligibility evaluations by verdict status.",
		}, []string{"status"}),
		retrievalQueries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "advisor",
			Name:      "retrieval_queries_total",
			Help:      "Similarity queries answered, sentinel responses included.",
		}),
		composerFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "advisor",
			Name:      "composer_fallbacks_total",
			Help:      "Narrative requests served by the templated fallback.",
		}),
		indexSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "advisor",
			Name:      "policy_index_chunks",
			Help:      "Chunks currently loaded in the policy index.",
		}),
	}
}

func (m *Metrics) ObserveExternalCall(provider, op string, dur time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.externalCalls.WithLabelValues(provider, op, outcome).Inc()
	m.externalLatency.WithLabelValues(provider, op).Observe(dur.Seconds())
}

func (m *Metrics) IncEvaluation(status string) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(status).Inc()
}

func (m *Metrics) IncRetrievalQuery() {
	if m == nil {
		return
	}
	m.retrievalQueries.Inc()
}

func (m *Metrics) IncComposerFallback() {
	if m == nil {
		return
	}
	m.composerFallbacks.Inc()
}

func (m *Metrics) SetIndexSize(n int) {
	if m == nil {
		return
	}
	m.indexSize.Set(float64(n))
}
