// internal/score/score.go
package score

import "github.com/saadi-js/SNA/internal/rules"

// Bucket maps a numeric risk score into a coarse band.
type Bucket string

const (
	BucketLow    Bucket = "LOW"    // 0-20
	BucketMedium Bucket = "MEDIUM" // 21-50
	BucketHigh   Bucket = "HIGH"   // 51-100
)

// RiskScore is the 0-100 weighted summary of a finding set. It is derived
// data: recomputed every run, never stored.
type RiskScore struct {
	Value  int    `json:"value"`
	Bucket Bucket `json:"bucket"`
}

var weights = map[rules.Severity]int{
	rules.SeverityCritical: 25,
	rules.SeverityHigh:     15,
	rules.SeverityMedium:   7,
	rules.SeverityLow:      1,
}

// Score sums severity weights over the findings and clamps to 100.
func Score(findings []rules.Finding) RiskScore {
	total := 0
	for _, f := range findings {
		total += weights[f.Severity]
	}
	if total > 100 {
		total = 100
	}
	return RiskScore{Value: total, Bucket: bucketFor(total)}
}

func bucketFor(value int) Bucket {
	switch {
	case value <= 20:
		return BucketLow
	case value <= 50:
		return BucketMedium
	default:
		return BucketHigh
	}
}

// Overall returns the highest individual finding severity. It is reported
// alongside the risk score and may legitimately disagree with the bucket:
// many MEDIUM findings can push the score into HIGH with no single HIGH
// finding present.
func Overall(findings []rules.Finding) rules.Severity {
	max := rules.SeverityLow
	for _, f := range findings {
		if f.Severity.Rank() > max.Rank() {
			max = f.Severity
		}
	}
	return max
}
