// internal/rules/engine_test.go
package rules

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/saadi-js/SNA/internal/snapshot"
)

// healthySnapshot returns a snapshot with everything known and in range.
func healthySnapshot() snapshot.SystemSnapshot {
	return snapshot.SystemSnapshot{
		CPU:    snapshot.CPUStat{UsagePercent: snapshot.KnownPercent(10)},
		Memory: snapshot.MemoryStat{UsagePercent: snapshot.KnownPercent(20)},
		Disk:   snapshot.DiskStat{UsagePercent: snapshot.KnownPercent(30)},
		SSH: snapshot.SSHStat{
			RootLoginEnabled:    snapshot.KnownFlag(false),
			PasswordAuthEnabled: snapshot.KnownFlag(false),
		},
		Logs: snapshot.LogStat{
			AuthFailureCount: snapshot.KnownCount(0),
			KernelErrorCount: snapshot.KnownCount(0),
		},
	}
}

func TestEvaluateNeverEmpty(t *testing.T) {
	// Healthy snapshot: one LOW status finding per category.
	snap := healthySnapshot()
	findings := Evaluate(&snap)
	if len(findings) != 3 {
		t.Fatalf("findings = %d, want 3 status findings, got %+v", len(findings), findings)
	}
	for _, f := range findings {
		if f.Severity != SeverityLow {
			t.Errorf("healthy finding severity = %s, want LOW", f.Severity)
		}
	}

	// Fully unknown snapshot: rules must not fire, statuses still emitted.
	empty := snapshot.SystemSnapshot{}
	findings = Evaluate(&empty)
	if len(findings) != 3 {
		t.Fatalf("unknown-input findings = %d, want 3, got %+v", len(findings), findings)
	}
	wantMetrics := []string{"health_status", "security_status", "logs_status"}
	for i, f := range findings {
		if f.Metric != wantMetrics[i] {
			t.Errorf("finding[%d].Metric = %q, want %q", i, f.Metric, wantMetrics[i])
		}
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	snap := healthySnapshot()
	snap.CPU.UsagePercent = snapshot.KnownPercent(85)
	snap.SSH.RootLoginEnabled = snapshot.KnownFlag(true)
	snap.Logs.ServiceErrorNames = []string{"cron", "nginx"}

	first := Evaluate(&snap)
	second := Evaluate(&snap)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Evaluate is not idempotent:\n first %+v\nsecond %+v", first, second)
	}
}

func TestThresholdBoundaries(t *testing.T) {
	tests := []struct {
		cpu  float64
		want Severity
	}{
		{90.0001, SeverityCritical},
		{90.0, SeverityHigh}, // strict >, 90 exactly stays HIGH
		{80.0001, SeverityHigh},
		{80.0, SeverityMedium},
		{60.0001, SeverityMedium},
	}
	for _, tt := range tests {
		snap := healthySnapshot()
		snap.CPU.UsagePercent = snapshot.KnownPercent(tt.cpu)
		findings := Evaluate(&snap)
		if findings[0].Metric != "cpu_usage" {
			t.Fatalf("cpu=%v: first finding = %+v, want cpu_usage", tt.cpu, findings[0])
		}
		if findings[0].Severity != tt.want {
			t.Errorf("cpu=%v: severity = %s, want %s", tt.cpu, findings[0].Severity, tt.want)
		}
	}

	// At exactly 60 no health rule fires.
	snap := healthySnapshot()
	snap.CPU.UsagePercent = snapshot.KnownPercent(60)
	if got := Evaluate(&snap)[0].Metric; got != "health_status" {
		t.Errorf("cpu=60: first metric = %q, want health_status", got)
	}
}

func TestAuthFailureBands(t *testing.T) {
	tests := []struct {
		count int64
		want  Severity
		fires bool
	}{
		{0, "", false},
		{5, "", false},
		{6, SeverityMedium, true},
		{20, SeverityMedium, true},
		{21, SeverityHigh, true},
	}
	for _, tt := range tests {
		snap := healthySnapshot()
		snap.Logs.AuthFailureCount = snapshot.KnownCount(tt.count)
		findings := Evaluate(&snap)
		var got *Finding
		for i := range findings {
			if findings[i].Metric == "auth_failures" {
				got = &findings[i]
			}
		}
		if !tt.fires {
			if got != nil {
				t.Errorf("count=%d: unexpected finding %+v", tt.count, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("count=%d: no auth_failures finding", tt.count)
			continue
		}
		if got.Severity != tt.want {
			t.Errorf("count=%d: severity = %s, want %s", tt.count, got.Severity, tt.want)
		}
	}
}

func TestServiceErrorFindingsCapped(t *testing.T) {
	snap := healthySnapshot()
	for i := 0; i < maxServiceErrorFindings+4; i++ {
		snap.Logs.ServiceErrorNames = append(snap.Logs.ServiceErrorNames, fmt.Sprintf("svc-%02d", i))
	}
	count := 0
	for _, f := range Evaluate(&snap) {
		if f.Category == CategoryLogs && f.Severity == SeverityMedium {
			count++
		}
	}
	if count != maxServiceErrorFindings {
		t.Errorf("service error findings = %d, want capped at %d", count, maxServiceErrorFindings)
	}
}

func TestScenarioHighCPUOnly(t *testing.T) {
	snap := healthySnapshot()
	snap.CPU.UsagePercent = snapshot.KnownPercent(95)
	snap.Memory.UsagePercent = snapshot.KnownPercent(50)
	snap.Disk.UsagePercent = snapshot.KnownPercent(50)

	findings := Evaluate(&snap)
	if len(findings) != 3 {
		t.Fatalf("findings = %+v, want [CRITICAL cpu, LOW security, LOW logs]", findings)
	}
	if findings[0].Severity != SeverityCritical || findings[0].Metric != "cpu_usage" {
		t.Errorf("findings[0] = %+v, want CRITICAL cpu_usage", findings[0])
	}
	if findings[1].Metric != "security_status" || findings[2].Metric != "logs_status" {
		t.Errorf("status findings = %+v / %+v", findings[1], findings[2])
	}
}

func TestCategoryOrdering(t *testing.T) {
	snap := healthySnapshot()
	snap.Disk.UsagePercent = snapshot.KnownPercent(95)
	snap.SSH.PasswordAuthEnabled = snapshot.KnownFlag(true)
	snap.Logs.KernelErrorCount = snapshot.KnownCount(2)

	findings := Evaluate(&snap)
	wantCats := []Category{CategoryHealth, CategorySecurity, CategoryLogs}
	if len(findings) != 3 {
		t.Fatalf("findings = %+v, want one per category", findings)
	}
	for i, f := range findings {
		if f.Category != wantCats[i] {
			t.Errorf("findings[%d].Category = %s, want %s", i, f.Category, wantCats[i])
		}
	}
}
