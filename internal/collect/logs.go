// internal/collect/logs.go
package collect

import (
	"os"
	"os/exec"
	"regexp"
	"sort"
	"strings"
)

// MaxLogLines caps how many recent log lines we analyze per source.
const MaxLogLines = 500

var serviceUnitRe = regexp.MustCompile(`([a-z][a-z0-9-]+)\.service`)

// knownServices are daemons whose error lines may not carry a .service
// suffix but are still worth attributing.
var knownServices = []string{
	"apache2", "nginx", "mysql", "postgresql", "sshd", "cron",
	"rsyslog", "dbus", "polkit", "systemd-logind",
}

// CountAuthFailures counts failed-login lines in an auth log excerpt.
func CountAuthFailures(lines []string) int {
	count := 0
	for _, line := range lines {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "failed password") || strings.Contains(lower, "authentication failure") {
			count++
		}
	}
	return count
}

// ExtractServiceErrors returns the sorted set of service names that appear
// in error-level system log lines.
func ExtractServiceErrors(lines []string) []string {
	seen := make(map[string]bool)
	for _, line := range lines {
		lower := strings.ToLower(line)
		if m := serviceUnitRe.FindStringSubmatch(lower); m != nil {
			seen[m[1]] = true
			continue
		}
		if !strings.Contains(lower, "error") && !strings.Contains(lower, "fail") {
			continue
		}
		for _, svc := range knownServices {
			if strings.Contains(lower, svc) {
				seen[svc] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CountKernelErrors counts kernel error/failure lines in a system log excerpt.
func CountKernelErrors(lines []string) int {
	count := 0
	for _, line := range lines {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "kernel") {
			continue
		}
		if strings.Contains(lower, "error") || strings.Contains(lower, "fail") {
			count++
		}
	}
	return count
}

// capLines keeps at most MaxLogLines from the end of the slice, which is
// the most recent portion.
func capLines(lines []string) []string {
	if len(lines) <= MaxLogLines {
		return lines
	}
	return lines[len(lines)-MaxLogLines:]
}

// readLogLines runs journalctl with the given args, falling back to reading
// a plain log file when journalctl is unavailable. Uses LC_ALL=C for a
// consistent line format across locales.
func readLogLines(journalArgs []string, fallbackFile string) ([]string, bool) {
	cmd := exec.Command("journalctl", journalArgs...)
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	if out, err := cmd.Output(); err == nil {
		return capLines(splitLines(string(out))), true
	}

	if data, err := os.ReadFile(fallbackFile); err == nil {
		return capLines(splitLines(string(data))), true
	}
	return nil, false
}

func splitLines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// collectLogs gathers derived log counters. A source that cannot be read at
// all leaves its counters unknown; an empty but readable source is a real
// zero.
func collectLogs() map[string]any {
	out := map[string]any{}

	authLines, ok := readLogLines(
		[]string{"-t", "sshd", "-t", "sudo", "--since", "-24h", "--no-pager", "-q"},
		"/var/log/auth.log",
	)
	if ok {
		out["auth_failure_count"] = CountAuthFailures(authLines)
	}

	sysLines, ok := readLogLines(
		[]string{"-p", "err", "--since", "-24h", "--no-pager", "-q"},
		"/var/log/syslog",
	)
	if ok {
		out["service_error_names"] = ExtractServiceErrors(sysLines)
		out["kernel_error_count"] = CountKernelErrors(sysLines)
	}

	return out
}
