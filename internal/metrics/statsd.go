package metrics

import (
	"time"

	statsd "github.com/smira/go-statsd"
)

type Statsd struct {
	client *statsd.Client
}

func NewStatsd(cfg Config) *Statsd {
	options := []statsd.Option{
		statsd.MetricPrefix(cfg.Prefix),
		statsd.TagStyle(statsd.TagFormatInfluxDB),
		statsd.DefaultTags(statsd.StringTag("node", cfg.NodeName)),
	}
	if cfg.FlushInterval > 0 {
		options = append(options, statsd.FlushInterval(cfg.FlushInterval))
	}
	return &Statsd{
		client: statsd.NewClient(cfg.Addr, options...),
	}
}

func (s *Statsd) Increment(name string) {
	s.client.Incr(name, 1)
}

func (s *Statsd) Duration(name string, d time.Duration) {
	s.client.PrecisionTiming(name, d)
}

func (s *Statsd) Gauge(name string, value int) {
	s.client.Gauge(name, int64(value))
}

func (s *Statsd) Close() error {
	return s.client.Close()
}
