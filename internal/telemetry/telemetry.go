// Package telemetry collects run metrics in a private Prometheus registry.
package telemetry

import (
	"fmt"
	"time"

	"github.com/jblievremont/sonarqube/schema"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ce"

// Metrics holds the collectors of one run. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	stepDuration *prometheus.HistogramVec
	fileSources  *prometheus.CounterVec
	lines        prometheus.Counter
	measures     prometheus.Counter
	failedSteps  prometheus.Counter
}

// New creates the collectors and registers them in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of computation steps.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"step"}),
		fileSources: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "file_sources_total",
			Help:      "File sources processed, by persistence outcome.",
		}, []string{"outcome"}),
		lines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_lines_total",
			Help:      "Source lines merged.",
		}),
		measures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "measures_loaded_total",
			Help:      "Measures converted from the report.",
		}),
		failedSteps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failed_steps_total",
			Help:      "Computation steps that returned an error.",
		}),
	}
	m.registry.MustRegister(m.stepDuration, m.fileSources, m.lines, m.measures, m.failedSteps)
	return m
}

// Registry returns the registry holding the run collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveStep(description string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.stepDuration.WithLabelValues(description).Observe(d.Seconds())
	if err != nil {
		m.failedSteps.Inc()
	}
}

func (m *Metrics) RecordFileSource(outcome schema.Outcome, lines int) {
	if m == nil {
		return
	}
	m.fileSources.WithLabelValues(string(outcome)).Inc()
	m.lines.Add(float64(lines))
}

func (m *Metrics) AddMeasures(n int) {
	if m == nil {
		return
	}
	m.measures.Add(float64(n))
}

// WriteTextfile writes the collected metrics in the text exposition format,
// for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
