package georesolver

import "github.com/Sh00ty/leader-geo/internal/metrics"

const DefaultMissWarnThreshold = 10

type Option func(o *option)

type option struct {
	missWarnThreshold uint64
	metrics           metrics.Metrics
}

func WithMissWarnThreshold(threshold uint64) Option {
	return func(o *option) {
		o.missWarnThreshold = threshold
	}
}

func WithMetrics(m metrics.Metrics) Option {
	return func(o *option) {
		o.metrics = m
	}
}
