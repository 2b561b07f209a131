// internal/snapshot/types_test.go
package snapshot

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestSnapshotJSONRoundTripPreservesUnknown(t *testing.T) {
	orig := SystemSnapshot{
		Timestamp: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		CPU: CPUStat{
			Load1:        KnownGauge(1.5),
			Cores:        Count{}, // unknown
			UsagePercent: KnownPercent(42),
		},
		Memory: MemoryStat{UsagePercent: Percent{}},
		Users:  UserStat{RootLoggedIn: KnownFlag(false)},
		SSH:    SSHStat{ServiceRunning: Flag{}},
		Logs:   LogStat{AuthFailureCount: KnownCount(0)},
	}

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	// Unknown leaves serialize as null, never as zero.
	if !strings.Contains(string(data), `"cores":null`) {
		t.Errorf("unknown count should encode as null, got: %s", data)
	}
	if !strings.Contains(string(data), `"auth_failure_count":0`) {
		t.Errorf("known zero should encode as 0, got: %s", data)
	}

	var back SystemSnapshot
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !reflect.DeepEqual(orig, back) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, orig)
	}
}

func TestKnownPercentClamps(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-5, 0},
		{0, 0},
		{55.5, 55.5},
		{100, 100},
		{120, 100},
	}
	for _, tt := range tests {
		if got := KnownPercent(tt.in); got.Value != tt.want || !got.Known {
			t.Errorf("KnownPercent(%v) = %+v, want known %v", tt.in, got, tt.want)
		}
	}
}

func TestFlagEnabled(t *testing.T) {
	if (Flag{}).Enabled() {
		t.Error("unknown flag must not count as enabled")
	}
	if (KnownFlag(false)).Enabled() {
		t.Error("known false flag must not count as enabled")
	}
	if !(KnownFlag(true)).Enabled() {
		t.Error("known true flag must count as enabled")
	}
}
