// internal/collect/health.go
package collect

import (
	"errors"
	"os"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// cpuSampleInterval is how long we wait between the two /proc/stat reads
// used to derive a usage percentage.
const cpuSampleInterval = 250 * time.Millisecond

// ReadLoadAvg returns the 1-minute load average from /proc/loadavg.
func ReadLoadAvg() (float64, error) {
	data, err := os.ReadFile("/proc/loadavg")
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0, errors.New("empty /proc/loadavg")
	}
	return strconv.ParseFloat(fields[0], 64)
}

// ParseCPUStat extracts busy and total jiffies from the aggregate "cpu" line
// of /proc/stat.
func ParseCPUStat(line string) (busy, total uint64, err error) {
	fields := strings.Fields(line)
	if len(fields) < 5 || fields[0] != "cpu" {
		return 0, 0, errors.New("not an aggregate cpu line")
	}
	for i, f := range fields[1:] {
		v, perr := strconv.ParseUint(f, 10, 64)
		if perr != nil {
			return 0, 0, perr
		}
		total += v
		// fields 4 and 5 after the label are idle and iowait
		if i != 3 && i != 4 {
			busy += v
		}
	}
	return busy, total, nil
}

func readCPUStat() (busy, total uint64, err error) {
	data, err := os.ReadFile("/proc/stat")
	if err != nil {
		return 0, 0, err
	}
	lines := strings.SplitN(string(data), "\n", 2)
	return ParseCPUStat(lines[0])
}

// CPUUsagePercent samples /proc/stat twice and returns the busy share of
// elapsed jiffies.
func CPUUsagePercent() (float64, error) {
	busy1, total1, err := readCPUStat()
	if err != nil {
		return 0, err
	}
	time.Sleep(cpuSampleInterval)
	busy2, total2, err := readCPUStat()
	if err != nil {
		return 0, err
	}
	if total2 <= total1 {
		return 0, errors.New("cpu counters did not advance")
	}
	return float64(busy2-busy1) / float64(total2-total1) * 100, nil
}

// ParseMeminfo extracts MemTotal and MemAvailable (in kB) from /proc/meminfo.
func ParseMeminfo(text string) (totalKB, availableKB int64, err error) {
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		v, perr := strconv.ParseInt(fields[1], 10, 64)
		if perr != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			totalKB = v
		case "MemAvailable:":
			availableKB = v
		}
	}
	if totalKB == 0 {
		return 0, 0, errors.New("MemTotal not found")
	}
	return totalKB, availableKB, nil
}

// collectHealth gathers cpu, memory, and disk readings. Each reading that
// fails is simply absent from the map; the normalizer records it as unknown.
func collectHealth() map[string]any {
	health := map[string]any{}

	cpu := map[string]any{"cores": runtime.NumCPU()}
	if load, err := ReadLoadAvg(); err == nil {
		cpu["load_1min"] = load
	}
	if pct, err := CPUUsagePercent(); err == nil {
		cpu["usage_percent"] = pct
	}
	health["cpu"] = cpu

	if data, err := os.ReadFile("/proc/meminfo"); err == nil {
		if totalKB, availKB, err := ParseMeminfo(string(data)); err == nil {
			usedKB := totalKB - availKB
			health["memory"] = map[string]any{
				"total_mb":      totalKB / 1024,
				"used_mb":       usedKB / 1024,
				"available_mb":  availKB / 1024,
				"usage_percent": float64(usedKB) / float64(totalKB) * 100,
			}
		}
	}

	var fs syscall.Statfs_t
	if err := syscall.Statfs("/", &fs); err == nil && fs.Blocks > 0 {
		bsize := uint64(fs.Bsize)
		total := fs.Blocks * bsize
		avail := fs.Bavail * bsize
		used := (fs.Blocks - fs.Bfree) * bsize
		health["disk"] = map[string]any{
			"usage_percent":   float64(used) / float64(used+avail) * 100,
			"total_bytes":     total,
			"used_bytes":      used,
			"available_bytes": avail,
		}
	}

	return health
}
