// internal/collect/users.go
package collect

import (
	"os"
	"os/exec"
	"strings"
)

// ParseWho counts login sessions in `who` output and reports whether any
// of them belongs to root.
func ParseWho(output string) (count int, rootLoggedIn bool) {
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		count++
		if fields[0] == "root" {
			rootLoggedIn = true
		}
	}
	return count, rootLoggedIn
}

// ParseServiceUnits extracts unit names from `systemctl list-units` plain
// output, trimming the .service suffix.
func ParseServiceUnits(output string) []string {
	var names []string
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		name, ok := strings.CutSuffix(fields[0], ".service")
		if !ok {
			continue
		}
		names = append(names, name)
	}
	return names
}

// collectUsers gathers login sessions and running services. Uses LC_ALL=C
// for stable output across locales.
func collectUsers() map[string]any {
	out := map[string]any{}

	cmd := exec.Command("who")
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	if data, err := cmd.Output(); err == nil {
		count, root := ParseWho(string(data))
		out["users"] = map[string]any{
			"logged_in_count": count,
			"root_logged_in":  root,
		}
	}

	cmd = exec.Command("systemctl", "list-units", "--type=service", "--state=running", "--no-legend", "--plain", "--no-pager")
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	if data, err := cmd.Output(); err == nil {
		names := ParseServiceUnits(string(data))
		out["services"] = map[string]any{
			"active_count": len(names),
			"active_names": names,
		}
	}

	return out
}
