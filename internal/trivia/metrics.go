package trivia

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks generation outcomes for observability. Gameplay never sees
// the difference between real and fallback questions; these counters do.
type Metrics struct {
	GenerationSuccess  prometheus.Counter
	GenerationFallback *prometheus.CounterVec
	NamerCalls         prometheus.Counter
	NamerHits          prometheus.Counter
	BatchDuration      prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GenerationSuccess: factory.NewCounter(prometheus.CounterOpts{
			Name: "trivia_generation_success_total",
			Help: "Question sets produced by the completion service.",
		}),
		GenerationFallback: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trivia_generation_fallback_total",
			Help: "Question sets served from a fallback tier.",
		}, []string{"tier"}),
		NamerCalls: factory.NewCounter(prometheus.CounterOpts{
			Name: "trivia_namer_calls_total",
			Help: "Display name generation attempts.",
		}),
		NamerHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "trivia_namer_memo_hits_total",
			Help: "Display name requests answered from the memo.",
		}),
		BatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "trivia_batch_duration_seconds",
			Help:    "Wall time of bulk generation batches.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
	}
}

// NopMetrics returns metrics bound to a throwaway registry, for tests.
func NopMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
