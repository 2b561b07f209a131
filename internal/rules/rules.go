// internal/rules/rules.go
package rules

import (
	"fmt"

	"github.com/saadi-js/SNA/internal/snapshot"
)

// Severity classifies a finding.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Rank orders severities for comparison; higher is worse.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Category groups findings by audit area.
type Category string

const (
	CategoryHealth   Category = "health"
	CategorySecurity Category = "security"
	CategoryLogs     Category = "logs"
)

// Finding is one rule-evaluation result. Findings are pure derived data,
// never mutated once produced.
type Finding struct {
	Category Category `json:"category"`
	Metric   string   `json:"metric"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Observed string   `json:"observed"`
}

// band is one severity threshold: a value strictly greater than Above
// earns Severity. Bands are declared highest first; the first match wins.
type band struct {
	Above    float64
	Severity Severity
}

// percentRule evaluates a percentage metric against its band list.
type percentRule struct {
	Metric string
	Label  string
	Read   func(*snapshot.SystemSnapshot) snapshot.Percent
	Bands  []band
}

// The threshold tables are data, not control flow: the evaluation loop never
// changes when a band is added or retuned.
var healthRules = []percentRule{
	{
		Metric: "cpu_usage",
		Label:  "CPU",
		Read:   func(s *snapshot.SystemSnapshot) snapshot.Percent { return s.CPU.UsagePercent },
		Bands: []band{
			{90, SeverityCritical},
			{80, SeverityHigh},
			{60, SeverityMedium},
		},
	},
	{
		Metric: "memory_usage",
		Label:  "Memory",
		Read:   func(s *snapshot.SystemSnapshot) snapshot.Percent { return s.Memory.UsagePercent },
		Bands: []band{
			{90, SeverityCritical},
			{80, SeverityHigh},
			{75, SeverityMedium},
		},
	},
	{
		Metric: "disk_usage",
		Label:  "Disk",
		Read:   func(s *snapshot.SystemSnapshot) snapshot.Percent { return s.Disk.UsagePercent },
		Bands: []band{
			{90, SeverityCritical},
			{85, SeverityHigh},
			{75, SeverityMedium},
		},
	},
}

var authFailureBands = []band{
	{20, SeverityHigh},
	{5, SeverityMedium},
}

// matchBand returns the first band the value strictly exceeds.
func matchBand(bands []band, value float64) (Severity, bool) {
	for _, b := range bands {
		if value > b.Above {
			return b.Severity, true
		}
	}
	return "", false
}

func percentObserved(p snapshot.Percent) string {
	return fmt.Sprintf("%.1f%%", p.Value)
}
