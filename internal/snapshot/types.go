// internal/snapshot/types.go
package snapshot

import (
	"bytes"
	"encoding/json"
	"time"
)

var jsonNull = []byte("null")

// Percent is a 0-100 percentage that may be unknown. Unknown is distinct
// from zero: a collector that could not measure a value must not look like
// a host reporting 0%.
type Percent struct {
	Value float64
	Known bool
}

// KnownPercent returns a known percentage clamped to [0, 100].
func KnownPercent(v float64) Percent {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return Percent{Value: v, Known: true}
}

func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.Known {
		return jsonNull, nil
	}
	return json.Marshal(p.Value)
}

func (p *Percent) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*p = Percent{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = KnownPercent(v)
	return nil
}

// Gauge is an unbounded numeric reading (e.g. load average) that may be unknown.
type Gauge struct {
	Value float64
	Known bool
}

// KnownGauge returns a known gauge reading.
func KnownGauge(v float64) Gauge {
	return Gauge{Value: v, Known: true}
}

func (g Gauge) MarshalJSON() ([]byte, error) {
	if !g.Known {
		return jsonNull, nil
	}
	return json.Marshal(g.Value)
}

func (g *Gauge) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*g = Gauge{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*g = KnownGauge(v)
	return nil
}

// Count is a non-negative integer quantity that may be unknown.
// Negative inputs are rejected at normalization time, not here.
type Count struct {
	Value int64
	Known bool
}

// KnownCount returns a known count. Callers must not pass negative values.
func KnownCount(v int64) Count {
	return Count{Value: v, Known: true}
}

func (c Count) MarshalJSON() ([]byte, error) {
	if !c.Known {
		return jsonNull, nil
	}
	return json.Marshal(c.Value)
}

func (c *Count) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*c = Count{}
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = KnownCount(v)
	return nil
}

// Flag is a tri-state boolean: true, false, or unknown.
type Flag struct {
	Value bool
	Known bool
}

// KnownFlag returns a known boolean flag.
func KnownFlag(v bool) Flag {
	return Flag{Value: v, Known: true}
}

// Enabled reports whether the flag is known and set.
func (f Flag) Enabled() bool {
	return f.Known && f.Value
}

func (f Flag) MarshalJSON() ([]byte, error) {
	if !f.Known {
		return jsonNull, nil
	}
	return json.Marshal(f.Value)
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*f = Flag{}
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = KnownFlag(v)
	return nil
}

// CPUStat holds processor metrics.
type CPUStat struct {
	Load1        Gauge   `json:"load_1min"`
	Cores        Count   `json:"cores"`
	UsagePercent Percent `json:"usage_percent"`
}

// MemoryStat holds memory metrics in MiB.
type MemoryStat struct {
	TotalMB      Count   `json:"total_mb"`
	UsedMB       Count   `json:"used_mb"`
	AvailableMB  Count   `json:"available_mb"`
	UsagePercent Percent `json:"usage_percent"`
}

// DiskStat holds root filesystem metrics in bytes.
type DiskStat struct {
	UsagePercent   Percent `json:"usage_percent"`
	TotalBytes     Count   `json:"total_bytes"`
	UsedBytes      Count   `json:"used_bytes"`
	AvailableBytes Count   `json:"available_bytes"`
}

// UserStat holds login session metrics.
type UserStat struct {
	LoggedInCount Count `json:"logged_in_count"`
	RootLoggedIn  Flag  `json:"root_logged_in"`
}

// ServiceStat holds active systemd service metrics. ActiveNames is kept
// sorted so snapshots compare and serialize deterministically.
type ServiceStat struct {
	ActiveCount Count    `json:"active_count"`
	ActiveNames []string `json:"active_names"`
}

// SSHStat holds the SSH daemon security posture.
type SSHStat struct {
	ConfigExists        Flag `json:"config_exists"`
	RootLoginEnabled    Flag `json:"root_login_enabled"`
	PasswordAuthEnabled Flag `json:"password_auth_enabled"`
	ServiceRunning      Flag `json:"service_running"`
}

// LogStat holds derived log counters. ServiceErrorNames is kept sorted.
type LogStat struct {
	AuthFailureCount  Count    `json:"auth_failure_count"`
	ServiceErrorNames []string `json:"service_error_names"`
	KernelErrorCount  Count    `json:"kernel_error_count"`
}

// SystemSnapshot is one immutable point-in-time capture of host metrics.
// It is produced once per audit invocation and never mutated afterwards.
type SystemSnapshot struct {
	Timestamp time.Time   `json:"timestamp"`
	CPU       CPUStat     `json:"cpu"`
	Memory    MemoryStat  `json:"memory"`
	Disk      DiskStat    `json:"disk"`
	Users     UserStat    `json:"users"`
	Services  ServiceStat `json:"services"`
	SSH       SSHStat     `json:"ssh"`
	Logs      LogStat     `json:"logs"`
}
