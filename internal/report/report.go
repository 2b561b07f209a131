// internal/report/report.go

// Package report assembles the output of one audit invocation: the
// normalized snapshot, the ordered findings, the risk score, and the
// recommendation list handed to the rendering layer.
package report

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/saadi-js/SNA/internal/advice"
	"github.com/saadi-js/SNA/internal/collect"
	"github.com/saadi-js/SNA/internal/rules"
	"github.com/saadi-js/SNA/internal/score"
	"github.com/saadi-js/SNA/internal/snapshot"
)

// Audit is the complete result of one audit run.
type Audit struct {
	ID              string                   `json:"id"`
	Timestamp       time.Time                `json:"timestamp"`
	Snapshot        snapshot.SystemSnapshot  `json:"snapshot"`
	Findings        []rules.Finding          `json:"findings"`
	Risk            score.RiskScore          `json:"risk_score"`
	OverallSeverity rules.Severity           `json:"overall_severity"`
	Recommendations []string                 `json:"recommendations"`
	Processes       *collect.ProcessSnapshot `json:"processes,omitempty"`
}

// Options controls one audit run.
type Options struct {
	Advisor        advice.Advisor
	AdvisorTimeout time.Duration
	Log            zerolog.Logger
}

// Run evaluates a snapshot into a full audit. The advisor call is bounded
// by the configured timeout and purely additive: if it fails the static
// recommendations stand alone and the audit still completes.
func Run(ctx context.Context, snap snapshot.SystemSnapshot, opts Options) Audit {
	findings := rules.Evaluate(&snap)
	recs := advice.Recommend(findings)

	if opts.Advisor != nil {
		timeout := opts.AdvisorTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		actx, cancel := context.WithTimeout(ctx, timeout)
		external, err := opts.Advisor.Advise(actx, advice.Summarize(findings))
		cancel()
		if err != nil {
			if advice.IsUnavailable(err) {
				opts.Log.Debug().Msg("advisor unavailable, using static recommendations")
			} else {
				opts.Log.Warn().Err(err).Msg("advisor failed, using static recommendations")
			}
		} else {
			recs = advice.Merge(recs, external)
		}
	}

	return Audit{
		ID:              uuid.NewString(),
		Timestamp:       snap.Timestamp,
		Snapshot:        snap,
		Findings:        findings,
		Risk:            score.Score(findings),
		OverallSeverity: score.Overall(findings),
		Recommendations: recs,
	}
}

// SaveJSON writes the audit as a JSON report file under dir, creating the
// directory if needed, and returns the file path.
func SaveJSON(dir string, a Audit) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, "audit_"+a.Timestamp.Format("20060102_150405")+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
