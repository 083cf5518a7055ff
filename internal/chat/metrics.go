package chat

import "github.com/prometheus/client_golang/prometheus"

var (
	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "llamachat",
			Subsystem: "chat",
			Name:      "generations_total",
			Help:      "Chat generations by outcome (ok, fallback, error, busy)",
		},
		[]string{"outcome"},
	)

	generationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "llamachat",
			Subsystem: "chat",
			Name:      "generation_duration_seconds",
			Help:      "Time spent inside the engine per generation",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	queueLength = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "llamachat",
			Subsystem: "chat",
			Name:      "queue_length",
			Help:      "Requests waiting for or holding the generation slot",
		},
	)
)

func init() {
	prometheus.MustRegister(generationsTotal, generationDuration, queueLength)
}

const (
	outcomeOK       = "ok"
	outcomeFallback = "fallback"
	outcomeError    = "error"
	outcomeBusy     = "busy"
)
