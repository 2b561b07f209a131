// internal/score/score_test.go
package score

import (
	"testing"

	"github.com/saadi-js/SNA/internal/rules"
)

func findingsOf(sevs ...rules.Severity) []rules.Finding {
	out := make([]rules.Finding, len(sevs))
	for i, s := range sevs {
		out[i] = rules.Finding{Severity: s}
	}
	return out
}

func TestScoreWeights(t *testing.T) {
	tests := []struct {
		name string
		in   []rules.Finding
		want int
	}{
		{"empty", nil, 0},
		{"one low", findingsOf(rules.SeverityLow), 1},
		{"one of each", findingsOf(rules.SeverityCritical, rules.SeverityHigh, rules.SeverityMedium, rules.SeverityLow), 48},
		{"critical plus two statuses", findingsOf(rules.SeverityCritical, rules.SeverityLow, rules.SeverityLow), 27},
		{"clamped", findingsOf(rules.SeverityCritical, rules.SeverityCritical, rules.SeverityCritical, rules.SeverityCritical, rules.SeverityCritical), 100},
	}
	for _, tt := range tests {
		if got := Score(tt.in); got.Value != tt.want {
			t.Errorf("%s: Score = %d, want %d", tt.name, got.Value, tt.want)
		}
	}
}

func TestBucketBoundaries(t *testing.T) {
	tests := []struct {
		value int
		want  Bucket
	}{
		{0, BucketLow},
		{20, BucketLow},
		{21, BucketMedium},
		{50, BucketMedium},
		{51, BucketHigh},
		{100, BucketHigh},
	}
	for _, tt := range tests {
		if got := bucketFor(tt.value); got != tt.want {
			t.Errorf("bucketFor(%d) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

// Many MEDIUM findings push the bucket into HIGH with no HIGH finding
// present. The bucket and the overall severity are allowed to disagree.
func TestBucketAndOverallMayDisagree(t *testing.T) {
	in := findingsOf(
		rules.SeverityMedium, rules.SeverityMedium, rules.SeverityMedium, rules.SeverityMedium,
		rules.SeverityMedium, rules.SeverityMedium, rules.SeverityMedium, rules.SeverityMedium,
	)
	s := Score(in)
	if s.Value != 56 || s.Bucket != BucketHigh {
		t.Errorf("Score = %+v, want 56 HIGH", s)
	}
	if got := Overall(in); got != rules.SeverityMedium {
		t.Errorf("Overall = %s, want MEDIUM", got)
	}
}

func TestOverall(t *testing.T) {
	if got := Overall(nil); got != rules.SeverityLow {
		t.Errorf("Overall(nil) = %s, want LOW", got)
	}
	in := findingsOf(rules.SeverityLow, rules.SeverityHigh, rules.SeverityMedium)
	if got := Overall(in); got != rules.SeverityHigh {
		t.Errorf("Overall = %s, want HIGH", got)
	}
}
