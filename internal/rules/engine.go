// internal/rules/engine.go
package rules

import (
	"fmt"
	"strconv"

	"github.com/saadi-js/SNA/internal/snapshot"
)

// maxServiceErrorFindings caps the per-service MEDIUM findings so a noisy
// journal cannot grow the findings list without bound.
const maxServiceErrorFindings = 5

// Evaluate applies the rule tables to a snapshot and returns findings in a
// fixed order: health, then security, then logs, each in rule declaration
// order. Unknown leaves never fire a rule. A category in which no rule fired
// still contributes exactly one LOW status finding, so the result is never
// empty for a normalized snapshot.
func Evaluate(snap *snapshot.SystemSnapshot) []Finding {
	var findings []Finding
	findings = append(findings, evaluateHealth(snap)...)
	findings = append(findings, evaluateSecurity(snap)...)
	findings = append(findings, evaluateLogs(snap)...)
	return findings
}

func evaluateHealth(snap *snapshot.SystemSnapshot) []Finding {
	var out []Finding
	for _, rule := range healthRules {
		p := rule.Read(snap)
		if !p.Known {
			continue
		}
		sev, ok := matchBand(rule.Bands, p.Value)
		if !ok {
			continue
		}
		out = append(out, Finding{
			Category: CategoryHealth,
			Metric:   rule.Metric,
			Severity: sev,
			Message:  fmt.Sprintf("%s usage is at %.1f%%", rule.Label, p.Value),
			Observed: percentObserved(p),
		})
	}
	if len(out) == 0 {
		out = append(out, Finding{
			Category: CategoryHealth,
			Metric:   "health_status",
			Severity: SeverityLow,
			Message:  "No abnormal resource usage detected",
			Observed: "normal",
		})
	}
	return out
}

func evaluateSecurity(snap *snapshot.SystemSnapshot) []Finding {
	var out []Finding
	if snap.SSH.RootLoginEnabled.Enabled() {
		out = append(out, Finding{
			Category: CategorySecurity,
			Metric:   "ssh_root_login",
			Severity: SeverityHigh,
			Message:  "SSH root login is enabled",
			Observed: "enabled",
		})
	}
	if snap.SSH.PasswordAuthEnabled.Enabled() {
		out = append(out, Finding{
			Category: CategorySecurity,
			Metric:   "ssh_password_auth",
			Severity: SeverityMedium,
			Message:  "SSH password authentication is enabled",
			Observed: "enabled",
		})
	}
	if len(out) == 0 {
		out = append(out, Finding{
			Category: CategorySecurity,
			Metric:   "security_status",
			Severity: SeverityLow,
			Message:  "No security misconfigurations found",
			Observed: "normal",
		})
	}
	return out
}

func evaluateLogs(snap *snapshot.SystemSnapshot) []Finding {
	var out []Finding

	if c := snap.Logs.AuthFailureCount; c.Known {
		if sev, ok := matchBand(authFailureBands, float64(c.Value)); ok {
			out = append(out, Finding{
				Category: CategoryLogs,
				Metric:   "auth_failures",
				Severity: sev,
				Message:  fmt.Sprintf("%d failed SSH login attempts detected", c.Value),
				Observed: strconv.FormatInt(c.Value, 10),
			})
		}
	}

	// ServiceErrorNames is already sorted, so the per-service findings
	// come out in a stable order.
	names := snap.Logs.ServiceErrorNames
	if len(names) > maxServiceErrorFindings {
		names = names[:maxServiceErrorFindings]
	}
	for _, name := range names {
		out = append(out, Finding{
			Category: CategoryLogs,
			Metric:   "service_errors:" + name,
			Severity: SeverityMedium,
			Message:  fmt.Sprintf("Errors logged by service %s", name),
			Observed: name,
		})
	}

	if c := snap.Logs.KernelErrorCount; c.Known && c.Value > 0 {
		out = append(out, Finding{
			Category: CategoryLogs,
			Metric:   "kernel_errors",
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("%d kernel errors found in system logs", c.Value),
			Observed: strconv.FormatInt(c.Value, 10),
		})
	}

	if len(out) == 0 {
		out = append(out, Finding{
			Category: CategoryLogs,
			Metric:   "logs_status",
			Severity: SeverityLow,
			Message:  "Logs show normal operational behavior",
			Observed: "normal",
		})
	}
	return out
}
