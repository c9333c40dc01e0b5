package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder reports generator metrics using Prometheus primitives.
type PrometheusRecorder struct {
	generations *prometheus.CounterVec
	durations   *prometheus.HistogramVec
	parseStages *prometheus.CounterVec
	fallbacks   *prometheus.CounterVec
	circuitOpen *prometheus.CounterVec
}

func NewPrometheusRecorder(registry *prometheus.Registry) (*PrometheusRecorder, error) {
	if registry == nil {
		return nil, fmt.Errorf("prometheus registry is nil")
	}

	r := &PrometheusRecorder{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "namegen_provider_calls_total",
			Help: "Total number of provider generation attempts by status",
		}, []string{"provider", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "namegen_provider_call_duration_seconds",
			Help:    "Provider generation latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		parseStages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "namegen_parse_stage_total",
			Help: "Responses by the parser stage that recovered names",
		}, []string{"provider", "stage"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "namegen_fallbacks_total",
			Help: "Total fallback activations by primary provider and reason",
		}, []string{"primary", "reason"}),
		circuitOpen: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "namegen_circuit_breaks_total",
			Help: "Total circuit breaker open events by provider",
		}, []string{"provider"}),
	}

	for _, collector := range []prometheus.Collector{r.generations, r.durations, r.parseStages, r.fallbacks, r.circuitOpen} {
		if err := registry.Register(collector); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return r, nil
}

func (r *PrometheusRecorder) ObserveGeneration(provider string, status string, duration time.Duration) {
	r.generations.WithLabelValues(provider, status).Inc()
	r.durations.WithLabelValues(provider).Observe(duration.Seconds())
}

func (r *PrometheusRecorder) ObserveParseStage(provider string, stage string) {
	r.parseStages.WithLabelValues(provider, stage).Inc()
}

func (r *PrometheusRecorder) ObserveFallback(primary string, reason string) {
	r.fallbacks.WithLabelValues(primary, reason).Inc()
}

func (r *PrometheusRecorder) ObserveCircuitOpen(provider string) {
	r.circuitOpen.WithLabelValues(provider).Inc()
}

// Handler exposes registry in the Prometheus text format.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
