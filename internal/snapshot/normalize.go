// internal/snapshot/normalize.go
package snapshot

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Raw is the untyped output of the shell-level collectors, one map per
// collection area. A nil map means the whole sub-collector failed; a missing
// key means one reading failed. Either way normalization degrades that leaf
// to unknown instead of failing the snapshot.
type Raw struct {
	CollectedAt time.Time
	Health      map[string]any
	Users       map[string]any
	SSH         map[string]any
	Logs        map[string]any
}

// Normalize coerces raw collector output into a canonical SystemSnapshot.
// Every leaf is validated independently: percentages are clamped to [0,100],
// negative counts become unknown, unparsable values become unknown. It never
// fails outright and has no side effects.
func Normalize(raw Raw) SystemSnapshot {
	ts := raw.CollectedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	snap := SystemSnapshot{Timestamp: ts}

	snap.CPU = CPUStat{
		Load1:        toGauge(dig(raw.Health, "cpu", "load_1min")),
		Cores:        toCount(dig(raw.Health, "cpu", "cores")),
		UsagePercent: toPercent(dig(raw.Health, "cpu", "usage_percent")),
	}
	snap.Memory = MemoryStat{
		TotalMB:      toCount(dig(raw.Health, "memory", "total_mb")),
		UsedMB:       toCount(dig(raw.Health, "memory", "used_mb")),
		AvailableMB:  toCount(dig(raw.Health, "memory", "available_mb")),
		UsagePercent: toPercent(dig(raw.Health, "memory", "usage_percent")),
	}
	snap.Disk = DiskStat{
		UsagePercent:   toPercent(dig(raw.Health, "disk", "usage_percent")),
		TotalBytes:     toCount(dig(raw.Health, "disk", "total_bytes")),
		UsedBytes:      toCount(dig(raw.Health, "disk", "used_bytes")),
		AvailableBytes: toCount(dig(raw.Health, "disk", "available_bytes")),
	}
	snap.Users = UserStat{
		LoggedInCount: toCount(dig(raw.Users, "users", "logged_in_count")),
		RootLoggedIn:  toFlag(dig(raw.Users, "users", "root_logged_in")),
	}
	snap.Services = ServiceStat{
		ActiveCount: toCount(dig(raw.Users, "services", "active_count")),
		ActiveNames: toNames(dig(raw.Users, "services", "active_names")),
	}
	snap.SSH = SSHStat{
		ConfigExists:        toFlag(dig(raw.SSH, "config_exists")),
		RootLoginEnabled:    toFlag(dig(raw.SSH, "root_login_enabled")),
		PasswordAuthEnabled: toFlag(dig(raw.SSH, "password_auth_enabled")),
		ServiceRunning:      toFlag(dig(raw.SSH, "service_running")),
	}
	snap.Logs = LogStat{
		AuthFailureCount:  toCount(dig(raw.Logs, "auth_failure_count")),
		ServiceErrorNames: toNames(dig(raw.Logs, "service_error_names")),
		KernelErrorCount:  toCount(dig(raw.Logs, "kernel_error_count")),
	}

	return snap
}

// dig walks nested map[string]any by key path, returning nil when any
// step is absent or not a map.
func dig(m map[string]any, path ...string) any {
	var cur any = m
	for _, key := range path {
		mm, ok := cur.(map[string]any)
		if !ok || mm == nil {
			return nil
		}
		cur = mm[key]
	}
	return cur
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toPercent(v any) Percent {
	f, ok := toFloat(v)
	if !ok {
		return Percent{}
	}
	return KnownPercent(f)
}

func toGauge(v any) Gauge {
	f, ok := toFloat(v)
	if !ok {
		return Gauge{}
	}
	return KnownGauge(f)
}

func toCount(v any) Count {
	f, ok := toFloat(v)
	if !ok || f < 0 {
		// A negative count is a collector bug, not a real reading.
		return Count{}
	}
	return KnownCount(int64(f))
}

func toFlag(v any) Flag {
	switch x := v.(type) {
	case bool:
		return KnownFlag(x)
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "yes", "true", "on", "1":
			return KnownFlag(true)
		case "no", "false", "off", "0":
			return KnownFlag(false)
		}
	}
	return Flag{}
}

// toNames coerces a string list, dropping empties and deduplicating.
// The result is sorted for deterministic snapshots.
func toNames(v any) []string {
	var in []string
	switch x := v.(type) {
	case []string:
		in = x
	case []any:
		for _, e := range x {
			if s, ok := e.(string); ok {
				in = append(in, s)
			}
		}
	default:
		return nil
	}

	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
