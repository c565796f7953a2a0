package georesolver

import "sync/atomic"

// MissCounter counts leader ips that were not found in the geo table.
// It only grows during the process lifetime.
type MissCounter struct {
	misses atomic.Uint64
}

func (m *MissCounter) Inc() uint64 {
	return m.misses.Add(1)
}

func (m *MissCounter) Load() uint64 {
	return m.misses.Load()
}
