// internal/advice/advice.go
package advice

import (
	"strings"

	"github.com/saadi-js/SNA/internal/rules"
)

// advice templates keyed by metric prefix, checked in order so the more
// specific prefixes win.
var templates = []struct {
	prefix string
	text   string
}{
	{"cpu_usage", "Investigate high CPU usage - check running processes and consider resource optimization"},
	{"memory_usage", "Review memory usage - identify memory-intensive processes and consider adding swap or RAM"},
	{"disk_usage", "Disk space is running low - clean up old logs, temporary files, or unused packages"},
	{"ssh_root_login", "Disable root SSH login for better security - edit /etc/ssh/sshd_config"},
	{"ssh_password_auth", "Consider disabling password authentication and using SSH keys only"},
	{"auth_failures", "Review authentication logs and consider implementing Fail2Ban to prevent brute force attacks"},
	{"service_errors", "Investigate service errors - check service status and logs for misconfiguration"},
	{"kernel_errors", "Kernel errors detected - investigate hardware, drivers, or system stability issues"},
}

// standing advisories appended to every recommendation list, even for a
// fully healthy host.
var standingAdvice = []string{
	"Schedule periodic audits using cron for continuous monitoring",
	"Maintain baseline snapshots after system updates or configuration changes",
	"Continue monitoring authentication logs for unusual patterns",
	"Review system health metrics regularly to detect trends",
}

// Recommend maps a finding set to an ordered, deduplicated list of advisory
// strings. The order follows the findings that produced each string; the
// standing advisories are always appended last, so the result is non-empty
// even when every finding is LOW.
func Recommend(findings []rules.Finding) []string {
	seen := make(map[string]bool)
	var out []string

	add := func(rec string) {
		if rec == "" || seen[rec] {
			return
		}
		seen[rec] = true
		out = append(out, rec)
	}

	for _, f := range findings {
		add(templateFor(f.Metric))
	}
	for _, rec := range standingAdvice {
		add(rec)
	}
	return out
}

func templateFor(metric string) string {
	for _, t := range templates {
		if strings.HasPrefix(metric, t.prefix) {
			return t.text
		}
	}
	return ""
}

// Merge appends externally supplied advisory text to the rule-derived list.
// The rule-derived entries always survive regardless of what the external
// service returned; external duplicates are dropped.
func Merge(static, external []string) []string {
	seen := make(map[string]bool, len(static))
	out := make([]string, 0, len(static)+len(external))
	for _, rec := range static {
		if !seen[rec] {
			seen[rec] = true
			out = append(out, rec)
		}
	}
	for _, rec := range external {
		rec = strings.TrimSpace(rec)
		if rec == "" || seen[rec] {
			continue
		}
		seen[rec] = true
		out = append(out, rec)
	}
	return out
}

// FindingSummary is the only payload sent to an external advisor: derived
// counts and names, never raw log text.
type FindingSummary struct {
	Category string `json:"category"`
	Severity string `json:"severity"`
	Metric   string `json:"metric"`
	Observed string `json:"observed"`
}

// Summarize projects findings into advisor payload records.
func Summarize(findings []rules.Finding) []FindingSummary {
	out := make([]FindingSummary, 0, len(findings))
	for _, f := range findings {
		out = append(out, FindingSummary{
			Category: string(f.Category),
			Severity: string(f.Severity),
			Metric:   f.Metric,
			Observed: f.Observed,
		})
	}
	return out
}
