// Package metrics exposes Prometheus collectors for simulation runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is what the runner reports to. NopRecorder discards everything.
type Recorder interface {
	RunStarted()
	RunFinished(status string, elapsed time.Duration, events int)
}

type NopRecorder struct{}

func (NopRecorder) RunStarted() {}

func (NopRecorder) RunFinished(string, time.Duration, int) {}

// PromRecorder records run outcomes in Prometheus metrics.
type PromRecorder struct {
	runs     *prometheus.CounterVec
	duration prometheus.Histogram
	inFlight prometheus.Gauge
	events   prometheus.Counter
}

// NewPromRecorder registers the run metrics on reg.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromRecorder(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evsim_simulation_runs_total",
		Help: "Simulation runs by terminal status",
	}, []string{"status"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "evsim_simulation_run_duration_seconds",
		Help:    "Wall time spent executing a simulation run",
		Buckets: prometheus.DefBuckets,
	})
	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "evsim_simulation_runs_in_flight",
		Help: "Simulation runs currently executing",
	})
	events := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "evsim_charging_events_total",
		Help: "Charging events produced by succeeded runs",
	})

	var err error
	if runs, err = register(reg, runs); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if inFlight, err = register(reg, inFlight); err != nil {
		return nil, err
	}
	if events, err = register(reg, events); err != nil {
		return nil, err
	}
	return &PromRecorder{runs: runs, duration: duration, inFlight: inFlight, events: events}, nil
}

// register returns the already registered collector when one with the same
// descriptor exists.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (p *PromRecorder) RunStarted() {
	p.inFlight.Inc()
}

func (p *PromRecorder) RunFinished(status string, elapsed time.Duration, events int) {
	p.inFlight.Dec()
	p.runs.WithLabelValues(status).Inc()
	p.duration.Observe(elapsed.Seconds())
	if events > 0 {
		p.events.Add(float64(events))
	}
}
