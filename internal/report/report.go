// Package report defines the per-case compliance report artifact and its
// persistence.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/forwauzz/section7eval/internal/rules"
)

// Degraded case states recorded in Report.Status. An empty status means
// the case evaluated normally.
const (
	// StatusGoldMissing marks a case whose reference file was absent:
	// similarity is 0 and only the rule evaluation is meaningful.
	StatusGoldMissing = "gold-missing"
	// StatusNoOutput marks a case whose produced-output artifact was
	// absent; evaluation ran against the empty string.
	StatusNoOutput = "no-output"
)

// Report is the persisted evaluation artifact for one case. It is built
// once per evaluation and never mutated afterward.
type Report struct {
	ID             string          `json:"id"`
	OutputPath     string          `json:"output_path"`
	InputPath      string          `json:"input_path"`
	GoldPath       string          `json:"gold_path"`
	LineSimilarity float64         `json:"line_similarity"`
	RulesScore     float64         `json:"rules_score"`
	Status         string          `json:"status,omitempty"`
	Issues         []rules.Outcome `json:"issues"`
}

// Round4 truncates a score to the 4 decimal places the report schema
// specifies.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// Write serializes r as indented JSON to path, creating parent
// directories as needed.
func Write(path string, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report %s: %w", r.ID, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", r.ID, err)
	}
	return nil
}

// Load reads a previously written report artifact.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report file: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report file %q: %w", path, err)
	}
	return &r, nil
}
