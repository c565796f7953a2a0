package metrics

import "time"

// Metrics is the sink for service counters. Names are relative, the
// implementation adds its prefix and node tag.
type Metrics interface {
	Increment(name string)
	Duration(name string, d time.Duration)
	Gauge(name string, value int)
}

type Config struct {
	Addr          string        `envconfig:"STATSD_ADDR,optional"`
	Prefix        string        `envconfig:"STATSD_PREFIX,default=apps.leader_geo."`
	NodeName      string        `envconfig:"NODE_NAME,default=leader-geo"`
	FlushInterval time.Duration `envconfig:"STATSD_FLUSH_INTERVAL,optional"`
}

// New returns a statsd sink, or Nop when no address is configured.
// The returned close func flushes buffered metrics.
func New(cfg Config) (Metrics, func() error) {
	if cfg.Addr == "" {
		return Nop{}, func() error { return nil }
	}
	s := NewStatsd(cfg)
	return s, s.Close
}
