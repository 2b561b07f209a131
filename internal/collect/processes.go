// internal/collect/processes.go
package collect

import (
	"os"
	"os/exec"
	"strings"
)

// TopProcessLimit is how many processes each top list keeps.
const TopProcessLimit = 5

// Process is one row of a process snapshot, display-only data that never
// feeds the rule engine.
type Process struct {
	User    string `json:"user"`
	PID     string `json:"pid"`
	CPU     string `json:"cpu"`
	Mem     string `json:"mem"`
	Command string `json:"command"`
}

// ProcessSnapshot holds the top CPU and memory consumers at audit time.
type ProcessSnapshot struct {
	TopCPU    []Process `json:"top_cpu"`
	TopMemory []Process `json:"top_memory"`
}

// ParsePS converts `ps aux --no-headers` output rows into Process records,
// keeping at most limit rows.
func ParsePS(output string, limit int) []Process {
	var procs []Process
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if len(procs) >= limit {
			break
		}
		fields := strings.Fields(line)
		if len(fields) < 11 {
			continue
		}
		procs = append(procs, Process{
			User:    fields[0],
			PID:     fields[1],
			CPU:     fields[2],
			Mem:     fields[3],
			Command: strings.Join(fields[10:], " "),
		})
	}
	return procs
}

func topProcesses(sortKey string) []Process {
	cmd := exec.Command("ps", "aux", "--sort="+sortKey, "--no-headers")
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	out, err := cmd.Output()
	if err != nil {
		return nil
	}
	return ParsePS(string(out), TopProcessLimit)
}

// CollectProcesses captures the top CPU and memory processes. Failures
// yield empty lists; the process snapshot is advisory display data only.
func CollectProcesses() ProcessSnapshot {
	return ProcessSnapshot{
		TopCPU:    topProcesses("-%cpu"),
		TopMemory: topProcesses("-%mem"),
	}
}
