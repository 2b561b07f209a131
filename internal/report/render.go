// internal/report/render.go
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/saadi-js/SNA/internal/baseline"
	"github.com/saadi-js/SNA/internal/rules"
	"github.com/saadi-js/SNA/internal/snapshot"
)

const ruleWidth = 60

func header(w io.Writer, title string) {
	fmt.Fprintln(w, strings.Repeat("=", ruleWidth))
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", ruleWidth))
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n--- %s ---\n", title)
}

func metric(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-24s %s\n", label+":", value)
}

func formatPercent(p snapshot.Percent) string {
	if !p.Known {
		return "unknown"
	}
	return fmt.Sprintf("%.1f%%", p.Value)
}

func formatCount(c snapshot.Count) string {
	if !c.Known {
		return "unknown"
	}
	return fmt.Sprintf("%d", c.Value)
}

func formatFlag(f snapshot.Flag, whenTrue, whenFalse string) string {
	if !f.Known {
		return "unknown"
	}
	if f.Value {
		return whenTrue
	}
	return whenFalse
}

func formatBytes(c snapshot.Count) string {
	if !c.Known {
		return "unknown"
	}
	return humanize.IBytes(uint64(c.Value))
}

// WriteText renders a full audit for the terminal.
func WriteText(w io.Writer, a Audit) {
	header(w, "System Audit Report")
	fmt.Fprintf(w, "Analysis Date: %s\n", a.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Overall Severity: %s\n", a.OverallSeverity)
	fmt.Fprintf(w, "Risk Score: %d / 100 (%s)\n", a.Risk.Value, a.Risk.Bucket)

	snap := a.Snapshot
	section(w, "System Health")
	metric(w, "CPU Usage", formatPercent(snap.CPU.UsagePercent))
	metric(w, "Memory Usage", formatPercent(snap.Memory.UsagePercent))
	metric(w, "Disk Usage", fmt.Sprintf("%s (%s of %s used)",
		formatPercent(snap.Disk.UsagePercent),
		formatBytes(snap.Disk.UsedBytes),
		formatBytes(snap.Disk.TotalBytes)))

	section(w, "Security Configuration")
	metric(w, "SSH Root Login", formatFlag(snap.SSH.RootLoginEnabled, "Enabled [WARNING]", "Disabled [OK]"))
	metric(w, "SSH Password Auth", formatFlag(snap.SSH.PasswordAuthEnabled, "Enabled [WARNING]", "Disabled [OK]"))
	metric(w, "SSH Service", formatFlag(snap.SSH.ServiceRunning, "running", "not running"))

	section(w, "Log Intelligence")
	metric(w, "Authentication Failures", formatCount(snap.Logs.AuthFailureCount))
	metric(w, "Kernel Errors", formatCount(snap.Logs.KernelErrorCount))
	if names := snap.Logs.ServiceErrorNames; len(names) > 0 {
		metric(w, "Service Errors", strings.Join(names, ", "))
	}

	section(w, "Findings")
	writeFindings(w, a.Findings)

	section(w, "Recommendations")
	for _, rec := range a.Recommendations {
		fmt.Fprintf(w, "  * %s\n", rec)
	}

	if a.Processes != nil {
		section(w, "Process Snapshot")
		fmt.Fprintln(w, "  Top CPU Processes:")
		for _, p := range a.Processes.TopCPU {
			fmt.Fprintf(w, "    %-40.40s CPU: %s%%\n", p.Command, p.CPU)
		}
		fmt.Fprintln(w, "  Top Memory Processes:")
		for _, p := range a.Processes.TopMemory {
			fmt.Fprintf(w, "    %-40.40s MEM: %s%%\n", p.Command, p.Mem)
		}
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("=", ruleWidth))
}

// WriteCategory renders only the findings of one category plus their
// recommendations, for the security and logs subcommands.
func WriteCategory(w io.Writer, a Audit, cat rules.Category, title string) {
	header(w, title)

	var filtered []rules.Finding
	for _, f := range a.Findings {
		if f.Category == cat {
			filtered = append(filtered, f)
		}
	}

	section(w, "Findings")
	writeFindings(w, filtered)

	section(w, "Recommendations")
	for _, rec := range a.Recommendations {
		fmt.Fprintf(w, "  * %s\n", rec)
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("=", ruleWidth))
}

func writeFindings(w io.Writer, findings []rules.Finding) {
	for _, f := range findings {
		fmt.Fprintf(w, "  [%s] %s\n", f.Severity, f.Message)
	}
}

// WriteDrift renders a baseline comparison for the terminal.
func WriteDrift(w io.Writer, d *baseline.DriftReport) {
	header(w, "Baseline Comparison")
	fmt.Fprintf(w, "Baseline: %s (%s)\n", d.ComparedAgainst, d.BaselineCreated.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Risk Score: baseline %d (%s), current %d (%s)\n",
		d.BaselineRisk.Value, d.BaselineRisk.Bucket, d.CurrentRisk.Value, d.CurrentRisk.Bucket)

	section(w, "Field Changes")
	changed := 0
	for _, fd := range d.FieldDeltas {
		if fd.Numeric && fd.Delta == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s\n", fd.Describe())
		changed++
	}
	if changed == 0 {
		fmt.Fprintln(w, "  No significant changes detected.")
	}

	if len(d.NewFindings) > 0 {
		section(w, "New Findings")
		for _, f := range d.NewFindings {
			fmt.Fprintf(w, "  [+] [%s] %s\n", f.Severity, f.Message)
		}
	}
	if len(d.ResolvedFindings) > 0 {
		section(w, "Resolved Findings")
		for _, f := range d.ResolvedFindings {
			fmt.Fprintf(w, "  [-] [%s] %s\n", f.Severity, f.Message)
		}
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("=", ruleWidth))
}

// WriteJSON renders any report value as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
