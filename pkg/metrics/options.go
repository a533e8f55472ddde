// Package metrics provides Prometheus metrics for the points calculator.
package metrics

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithMetricsEnabled enables or disables metrics collection.
func WithMetricsEnabled(enabled bool) Option {
	return func(m *Manager) {
		m.enabled = enabled
	}
}
