// internal/collect/collect.go

// Package collect runs the shell-level collectors that observe the local
// host. Every collector degrades on failure: the worst outcome of a broken
// command or unreadable file is an unknown leaf in the snapshot, never a
// failed audit.
package collect

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/saadi-js/SNA/internal/snapshot"
)

// Collector gathers raw host metrics for normalization.
type Collector struct {
	log zerolog.Logger
}

// New creates a collector that logs degraded sub-collections.
func New(log zerolog.Logger) *Collector {
	return &Collector{log: log}
}

// Collect runs all sub-collectors and returns their untyped output.
func (c *Collector) Collect() snapshot.Raw {
	raw := snapshot.Raw{CollectedAt: time.Now()}

	raw.Health = collectHealth()
	if raw.Health["memory"] == nil {
		c.log.Warn().Msg("memory metrics unavailable")
	}
	if raw.Health["disk"] == nil {
		c.log.Warn().Msg("disk metrics unavailable")
	}

	raw.Users = collectUsers()
	if raw.Users["services"] == nil {
		c.log.Debug().Msg("systemctl unavailable, service list unknown")
	}

	raw.SSH = collectSSH()
	raw.Logs = collectLogs()
	if len(raw.Logs) == 0 {
		c.log.Warn().Msg("no readable log sources, log counters unknown")
	}

	return raw
}
