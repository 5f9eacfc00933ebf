package metrics

import (
	"maps"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Manager built by NewManager or Init.
type Option func(*Manager)

// WithNamespace prefixes every metric name, e.g. "copa" in copa_stats_countries.
// An empty namespace keeps the default.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem sets the second name segment. An empty subsystem keeps the default.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithLatencyBuckets replaces the query and HTTP latency buckets. Non-positive
// and duplicate bounds are dropped and the rest sorted; an empty result keeps
// the default buckets.
func WithLatencyBuckets(buckets []float64) Option {
	return func(m *Manager) {
		clean := make([]float64, 0, len(buckets))
		for _, b := range buckets {
			if b > 0 {
				clean = append(clean, b)
			}
		}
		slices.Sort(clean)
		clean = slices.Compact(clean)
		if len(clean) > 0 {
			m.histogramBuckets = clean
		}
	}
}

// WithConstLabels attaches constant labels, such as the deployment or data
// release, to every metric. The map is copied.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		if len(labels) > 0 {
			m.customLabels = maps.Clone(labels)
		}
	}
}

// WithRegistry registers metrics on registry instead of the default registerer.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
