// Package metrics exposes prometheus counters for namespace resolution,
// plugin loading and signal path caching. A nil *Metrics is valid and
// records nothing.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Outcome labels shared by the recorders.
const (
	OutcomeOK       = "ok"
	OutcomeAbsent   = "absent"
	OutcomeFault    = "fault"
	OutcomeInvalid  = "invalid"
	CacheHit        = "hit"
	CacheMiss       = "miss"
	metricNamespace = "fdp"
)

// Metrics holds the collectors registered against a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Resolutions *prometheus.CounterVec
	PluginLoads *prometheus.CounterVec
	PathCache   *prometheus.CounterVec
}

// New creates a Metrics instance with its own prometheus registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		Resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Subsystem: "namespace",
				Name:      "resolutions_total",
				Help:      "Facility name resolutions by canonical machine and outcome",
			},
			[]string{"machine", "outcome"},
		),

		PluginLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Subsystem: "plugin",
				Name:      "loads_total",
				Help:      "Plugin module loads by level and outcome (ok, absent, fault)",
			},
			[]string{"level", "outcome"},
		),

		PathCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Subsystem: "signal",
				Name:      "path_cache_total",
				Help:      "Storage path cache lookups by result (hit, miss)",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(m.Resolutions, m.PluginLoads, m.PathCache)
	return m
}

// Registry returns the prometheus registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteText writes every gathered family in the prometheus text exposition
// format.
func (m *Metrics) WriteText(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// RecordResolution counts a namespace resolution attempt.
func (m *Metrics) RecordResolution(machine, outcome string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(machine, outcome).Inc()
}

// RecordPluginLoad counts a plugin load attempt.
func (m *Metrics) RecordPluginLoad(level, outcome string) {
	if m == nil {
		return
	}
	m.PluginLoads.WithLabelValues(level, outcome).Inc()
}

// RecordPathCache counts a path cache lookup.
func (m *Metrics) RecordPathCache(hit bool) {
	if m == nil {
		return
	}
	result := CacheMiss
	if hit {
		result = CacheHit
	}
	m.PathCache.WithLabelValues(result).Inc()
}
