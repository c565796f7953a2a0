package inmemory

import (
	"time"

	"github.com/Sh00ty/leader-geo/internal/metrics"
)

const DefaultClusterNodesTTL = 60 * time.Second

type Option func(o *option)

type option struct {
	ttl     time.Duration
	now     func() time.Time
	metrics metrics.Metrics
}

func WithTTL(ttl time.Duration) Option {
	return func(o *option) {
		o.ttl = ttl
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *option) {
		o.now = now
	}
}

func WithMetrics(m metrics.Metrics) Option {
	return func(o *option) {
		o.metrics = m
	}
}
