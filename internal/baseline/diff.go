// internal/baseline/diff.go
package baseline

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/saadi-js/SNA/internal/rules"
	"github.com/saadi-js/SNA/internal/score"
	"github.com/saadi-js/SNA/internal/snapshot"
)

// FieldDelta records one leaf-level difference between two snapshots.
// Numeric leaves carry new-minus-old in Delta; categorical leaves carry the
// old/new pair only.
type FieldDelta struct {
	Field   string  `json:"field"`
	Old     string  `json:"old"`
	New     string  `json:"new"`
	Delta   float64 `json:"delta,omitempty"`
	Numeric bool    `json:"numeric"`
}

// DriftReport is the transient result of comparing the current snapshot
// against a stored baseline. It is recomputed per comparison, never persisted.
type DriftReport struct {
	ComparedAgainst  string          `json:"compared_against"`
	BaselineCreated  time.Time       `json:"baseline_created"`
	FieldDeltas      []FieldDelta    `json:"field_deltas"`
	NewFindings      []rules.Finding `json:"new_findings"`
	ResolvedFindings []rules.Finding `json:"resolved_findings"`
	CurrentRisk      score.RiskScore `json:"current_risk"`
	BaselineRisk     score.RiskScore `json:"baseline_risk"`
}

// Diff compares the current snapshot against a baseline. Numeric leaves
// known on both sides always get a delta entry; categorical leaves are
// recorded only when changed. Findings are diffed by (category, metric)
// identity. Both risk scores are computed independently; the report does no
// further score arithmetic.
func Diff(current snapshot.SystemSnapshot, base Baseline) *DriftReport {
	report := &DriftReport{
		ComparedAgainst: base.Name,
		BaselineCreated: base.CreatedAt,
	}

	old := base.Snapshot
	report.FieldDeltas = append(report.FieldDeltas, numericDeltas(&old, &current)...)
	report.FieldDeltas = append(report.FieldDeltas, categoricalDeltas(&old, &current)...)

	currentFindings := rules.Evaluate(&current)
	baseFindings := rules.Evaluate(&old)
	report.NewFindings = subtractFindings(currentFindings, baseFindings)
	report.ResolvedFindings = subtractFindings(baseFindings, currentFindings)

	report.CurrentRisk = score.Score(currentFindings)
	report.BaselineRisk = score.Score(baseFindings)
	return report
}

func numericDeltas(old, cur *snapshot.SystemSnapshot) []FieldDelta {
	var out []FieldDelta

	gauge := func(field string, o, n snapshot.Gauge) {
		if !o.Known || !n.Known {
			return
		}
		out = append(out, FieldDelta{
			Field:   field,
			Old:     formatFloat(o.Value),
			New:     formatFloat(n.Value),
			Delta:   n.Value - o.Value,
			Numeric: true,
		})
	}
	percent := func(field string, o, n snapshot.Percent) {
		gauge(field, snapshot.Gauge{Value: o.Value, Known: o.Known}, snapshot.Gauge{Value: n.Value, Known: n.Known})
	}
	count := func(field string, o, n snapshot.Count) {
		if !o.Known || !n.Known {
			return
		}
		out = append(out, FieldDelta{
			Field:   field,
			Old:     strconv.FormatInt(o.Value, 10),
			New:     strconv.FormatInt(n.Value, 10),
			Delta:   float64(n.Value - o.Value),
			Numeric: true,
		})
	}

	gauge("cpu.load_1min", old.CPU.Load1, cur.CPU.Load1)
	count("cpu.cores", old.CPU.Cores, cur.CPU.Cores)
	percent("cpu.usage_percent", old.CPU.UsagePercent, cur.CPU.UsagePercent)
	count("memory.total_mb", old.Memory.TotalMB, cur.Memory.TotalMB)
	count("memory.used_mb", old.Memory.UsedMB, cur.Memory.UsedMB)
	count("memory.available_mb", old.Memory.AvailableMB, cur.Memory.AvailableMB)
	percent("memory.usage_percent", old.Memory.UsagePercent, cur.Memory.UsagePercent)
	percent("disk.usage_percent", old.Disk.UsagePercent, cur.Disk.UsagePercent)
	count("disk.total_bytes", old.Disk.TotalBytes, cur.Disk.TotalBytes)
	count("disk.used_bytes", old.Disk.UsedBytes, cur.Disk.UsedBytes)
	count("disk.available_bytes", old.Disk.AvailableBytes, cur.Disk.AvailableBytes)
	count("users.logged_in_count", old.Users.LoggedInCount, cur.Users.LoggedInCount)
	count("services.active_count", old.Services.ActiveCount, cur.Services.ActiveCount)
	count("logs.auth_failure_count", old.Logs.AuthFailureCount, cur.Logs.AuthFailureCount)
	count("logs.kernel_error_count", old.Logs.KernelErrorCount, cur.Logs.KernelErrorCount)

	return out
}

func categoricalDeltas(old, cur *snapshot.SystemSnapshot) []FieldDelta {
	var out []FieldDelta

	flag := func(field string, o, n snapshot.Flag) {
		if o == n {
			return
		}
		out = append(out, FieldDelta{Field: field, Old: formatFlag(o), New: formatFlag(n)})
	}
	set := func(field string, o, n []string) {
		if equalStrings(o, n) {
			return
		}
		out = append(out, FieldDelta{
			Field: field,
			Old:   strings.Join(o, ","),
			New:   strings.Join(n, ","),
		})
	}

	flag("users.root_logged_in", old.Users.RootLoggedIn, cur.Users.RootLoggedIn)
	flag("ssh.config_exists", old.SSH.ConfigExists, cur.SSH.ConfigExists)
	flag("ssh.root_login_enabled", old.SSH.RootLoginEnabled, cur.SSH.RootLoginEnabled)
	flag("ssh.password_auth_enabled", old.SSH.PasswordAuthEnabled, cur.SSH.PasswordAuthEnabled)
	flag("ssh.service_running", old.SSH.ServiceRunning, cur.SSH.ServiceRunning)
	set("services.active_names", old.Services.ActiveNames, cur.Services.ActiveNames)
	set("logs.service_error_names", old.Logs.ServiceErrorNames, cur.Logs.ServiceErrorNames)

	return out
}

// subtractFindings returns the findings in a whose (category, metric)
// identity does not appear in b, preserving a's order.
func subtractFindings(a, b []rules.Finding) []rules.Finding {
	present := make(map[string]bool, len(b))
	for _, f := range b {
		present[findingKey(f)] = true
	}
	var out []rules.Finding
	for _, f := range a {
		if !present[findingKey(f)] {
			out = append(out, f)
		}
	}
	return out
}

func findingKey(f rules.Finding) string {
	return string(f.Category) + "/" + f.Metric
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFlag(f snapshot.Flag) string {
	if !f.Known {
		return "unknown"
	}
	return strconv.FormatBool(f.Value)
}

// equalStrings compares two sorted name lists.
func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Describe renders one delta for terminal output.
func (d FieldDelta) Describe() string {
	if d.Numeric {
		return fmt.Sprintf("%s: %s -> %s (%+g)", d.Field, d.Old, d.New, d.Delta)
	}
	return fmt.Sprintf("%s: %s -> %s", d.Field, d.Old, d.New)
}
