// Package metrics records queue operations in Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PromSink counts queue events and tracks current depth.
type PromSink struct {
	enqueues   *prometheus.CounterVec
	dispatches *prometheus.CounterVec
	depth      prometheus.Gauge
}

// NewPromSink registers queue metrics on the provided Prometheus
// registerer. If reg is nil, the default registerer is used. If the
// collectors are already registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	enqueues := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relief_enqueued_total",
		Help: "Total number of requests enqueued",
	}, []string{"category"})
	dispatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relief_dispatched_total",
		Help: "Total number of requests dispatched",
	}, []string{"category"})
	depth := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "relief_queue_depth",
		Help: "Current number of undispatched requests",
	})

	if err := reg.Register(enqueues); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			enqueues = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(dispatches); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			dispatches = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(depth); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			depth = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{enqueues: enqueues, dispatches: dispatches, depth: depth}, nil
}

// RecordEnqueue counts one admission and updates the depth gauge.
func (s *PromSink) RecordEnqueue(category string, depth int) {
	s.enqueues.WithLabelValues(category).Inc()
	s.depth.Set(float64(depth))
}

// RecordDispatch counts one dispatch and updates the depth gauge.
func (s *PromSink) RecordDispatch(category string, depth int) {
	s.dispatches.WithLabelValues(category).Inc()
	s.depth.Set(float64(depth))
}

// Handler returns the Prometheus exposition endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
