// Package report assembles and persists the ExtractionReportBundle: the
// top-level artifact a batch run produces, per spec.md §3 and §5.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/mattsolo1/helpctl/pkg/model"
	"github.com/mattsolo1/helpctl/pkg/quality"
)

// SchemaVersion is the on-disk format version for ExtractionReportBundle.
const SchemaVersion = "1"

// Extraction pairs a successful CommandSchema with its report.
type Extraction struct {
	Schema model.CommandSchema     `json:"schema"`
	Report quality.ExtractionReport `json:"report"`
}

// ExtractionReportBundle is the byte-stable, sorted output of a batch run:
// every command that produced a schema goes in Reports, every command
// that didn't goes in Failures, both ordered by command name so two runs
// over the same input serialize identically (spec.md §5).
type ExtractionReportBundle struct {
	SchemaVersion string                        `json:"schema_version"`
	GeneratedAt   time.Time                      `json:"generated_at"`
	Version       string                        `json:"version"`
	Reports       []Extraction                  `json:"reports"`
	Failures      []quality.ExtractionReport    `json:"failures"`
}

// NewBundle sorts extractions and failures by command name and returns the
// assembled bundle.
func NewBundle(version string, generatedAt time.Time, extractions []Extraction, failures []quality.ExtractionReport) ExtractionReportBundle {
	sort.SliceStable(extractions, func(i, j int) bool {
		return extractions[i].Schema.Command < extractions[j].Schema.Command
	})
	sort.SliceStable(failures, func(i, j int) bool {
		return failures[i].Command < failures[j].Command
	})
	return ExtractionReportBundle{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   generatedAt,
		Version:       version,
		Reports:       extractions,
		Failures:      failures,
	}
}

// Save writes the bundle to path as indented JSON.
func (b *ExtractionReportBundle) Save(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a previously saved bundle back from path.
func Load(path string) (ExtractionReportBundle, error) {
	var b ExtractionReportBundle
	data, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	err = json.Unmarshal(data, &b)
	return b, err
}
