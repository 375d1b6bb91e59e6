// Package metrics implementa ports.OperationRecorder con prometheus/client_golang.
package metrics

import (
	"net/http"
	"time"

	"github.com/jhoicas/fulfillment-ledger/internal/application/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ ports.OperationRecorder = (*Recorder)(nil)

// Recorder métricas del núcleo sobre un registry propio.
type Recorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	events     *prometheus.CounterVec
	txRetries  prometheus.Counter
}

// NewRecorder registra los colectores bajo el namespace dado.
func NewRecorder(namespace string) *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Operaciones del núcleo por resultado.",
		}, []string{"operation", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duración de las operaciones del núcleo.",
			Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_events_total",
			Help:      "Eventos de inventario confirmados por tipo.",
		}, []string{"type"}),
		txRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_retries_total",
			Help:      "Reintentos de transacción por conflicto de serialización o deadlock.",
		}),
	}
	reg.MustRegister(
		r.operations, r.latency, r.events, r.txRetries,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) ObserveOperation(operation, outcome string, elapsed time.Duration) {
	r.operations.WithLabelValues(operation, outcome).Inc()
	r.latency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveEvent(eventType string) {
	r.events.WithLabelValues(eventType).Inc()
}

func (r *Recorder) IncTxRetry() {
	r.txRetries.Inc()
}

// Registry expone el registry (tests).
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler handler HTTP de exposición en formato Prometheus.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
