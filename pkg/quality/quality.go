// Package quality implements the Quality Gate: it scores a merged
// extraction for confidence and coverage, decides whether the result is
// fit to suggest to a user, and assembles the ExtractionReport the rest
// of the pipeline returns, per spec.md §4.6–§4.7 and §3.
package quality

import (
	"github.com/mattsolo1/helpctl/pkg/classify"
	"github.com/mattsolo1/helpctl/pkg/detect"
	"github.com/mattsolo1/helpctl/pkg/merge"
	"github.com/mattsolo1/helpctl/pkg/model"
)

// FailureCode classifies why an extraction did not produce a usable
// schema, independent of the quality tier assigned to a schema that was
// produced.
type FailureCode string

const (
	FailureNone             FailureCode = ""
	FailureNotInstalled     FailureCode = "not_installed"
	FailurePermissionBlocked FailureCode = "permission_blocked"
	FailureTimeout          FailureCode = "timeout"
	FailureNotHelpOutput    FailureCode = "not_help_output"
	FailureParseFailed      FailureCode = "parse_failed"
	FailureQualityRejected  FailureCode = "quality_rejected"
)

// Tier buckets a confidence score into the acceptance bands from spec.md §4.6.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
	TierFailed Tier = "failed"
)

// Thresholds are the tier/acceptance cutoffs, overridable by config (§6:
// min_confidence, min_coverage, allow_low_quality).
type Thresholds struct {
	HighConfidence   float64
	MediumConfidence float64
	MinConfidence    float64
	MinCoverage      float64
	AllowLowQuality  bool
}

// DefaultThresholds matches spec.md §4.6/§4.7's stated bands: the tier
// cutoffs (HighConfidence/MediumConfidence) are the fixed default policy,
// while MinConfidence/MinCoverage default to 0 per §6 (accept everything
// unless the operator opts into stricter gating).
var DefaultThresholds = Thresholds{
	HighConfidence:   0.85,
	MediumConfidence: 0.60,
	MinConfidence:    0.0,
	MinCoverage:      0.0,
}

// FormatScoreEntry is one row of the format-score table carried in the
// report for diagnosability.
type FormatScoreEntry struct {
	Format detect.Format
	Score  float64
}

// ExtractionReport is the per-command outcome the pipeline returns,
// whether or not extraction succeeded.
type ExtractionReport struct {
	Command               string
	Success               bool
	AcceptedForSuggestions bool
	Tier                   Tier
	Reasons                []string
	FailureCode            FailureCode
	FailureDetail          string
	SelectedFormat         detect.Format
	FormatScores           []FormatScoreEntry
	ContributingStrategies []detect.Format
	Confidence             float64
	Coverage               float64
	TotalRelevantLines     int
	RecognizedLines        int
	UnresolvedLines        []int
	ProbeAttempts          int
	Warnings               []string
	ValidationErrors       []model.ValidationError
}

// Coverage computes recognized-relevant-lines / total-relevant-lines per
// spec.md §4.7. A help text with zero relevant lines has coverage 0.
func Coverage(lines []classify.Line, recognized map[int]bool) (float64, int, int, []int) {
	total := 0
	recognizedCount := 0
	var unresolved []int
	for i, l := range lines {
		if !classify.Relevant(l.Kind) {
			continue
		}
		total++
		if recognized[i] {
			recognizedCount++
		} else {
			unresolved = append(unresolved, i)
		}
	}
	if total == 0 {
		return 0, 0, 0, unresolved
	}
	return float64(recognizedCount) / float64(total), total, recognizedCount, unresolved
}

// structuralSignal estimates how "well formed" the merged schema looks,
// independent of coverage: the fraction of flags carrying a non-empty
// description, averaged with the fraction that passed Validate (i.e.
// survived Discard).
func structuralSignal(r merge.Result, validationErrors int) float64 {
	total := len(r.Flags)
	if total == 0 {
		if len(r.Subcommands) > 0 {
			return 0.5
		}
		return 0
	}
	described := 0
	for _, f := range r.Flags {
		if f.Description != "" {
			described++
		}
	}
	descRatio := float64(described) / float64(total)

	validRatio := 1.0
	if total+validationErrors > 0 {
		validRatio = float64(total) / float64(total+validationErrors)
	}
	return (descRatio + validRatio) / 2
}

// Confidence implements spec.md §4.6's weighted formula: 0.45 * selected
// format's detector score, 0.30 * structural signal, 0.25 * coverage,
// plus a 0.10 bonus if man-raw contributed to the merge, clamped to
// [0, 1].
func Confidence(selectedScore float64, r merge.Result, coverage float64, validationErrors int) float64 {
	c := 0.45*selectedScore + 0.30*structuralSignal(r, validationErrors) + 0.25*coverage
	if r.ManRawContributed {
		c += 0.10
	}
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	return c
}

// highCoverageFloor/mediumCoverageFloor are the coverage halves of the
// tier conjunction from spec.md §4.7: a tier needs confidence AND
// coverage to both clear their respective bar, not confidence alone.
const (
	highCoverageFloor   = 0.60
	mediumCoverageFloor = 0.20
)

// TierFor buckets (confidence, coverage) using t's confidence cutoffs:
// high and medium both require their paired coverage floor as well, so a
// high-confidence/low-coverage extraction cannot be labelled high.
func TierFor(confidence, coverage float64, t Thresholds) Tier {
	switch {
	case confidence >= t.HighConfidence && coverage >= highCoverageFloor:
		return TierHigh
	case confidence >= t.MediumConfidence && coverage >= mediumCoverageFloor:
		return TierMedium
	case confidence > 0:
		return TierLow
	default:
		return TierFailed
	}
}

// Evaluate runs the full Quality Gate over a successful merge and produces
// the ExtractionReport's quality fields, including Command and the
// parse_failed/quality_rejected failure codes. Callers fill in
// ProbeAttempts and probe-level failure codes separately.
func Evaluate(
	command string,
	lines []classify.Line,
	scores []detect.Score,
	selected detect.Format,
	r merge.Result,
	schema *model.CommandSchema,
	t Thresholds,
) ExtractionReport {
	coverage, total, recognizedCount, unresolved := Coverage(lines, r.RecognizedLines)

	validationErrors := model.Validate(schema)
	model.Discard(schema)

	var selectedScore float64
	var formatScores []FormatScoreEntry
	for _, s := range scores {
		formatScores = append(formatScores, FormatScoreEntry{Format: s.Format, Score: s.Score})
		if s.Format == selected {
			selectedScore = s.Score
		}
	}

	confidence := Confidence(selectedScore, r, coverage, len(validationErrors))
	tier := TierFor(confidence, coverage, t)

	rep := ExtractionReport{
		Command:                command,
		SelectedFormat:         selected,
		FormatScores:           formatScores,
		ContributingStrategies: r.Contributors,
		Confidence:             confidence,
		Coverage:               coverage,
		TotalRelevantLines:     total,
		RecognizedLines:        recognizedCount,
		UnresolvedLines:        unresolved,
		Warnings:               r.Warnings,
		ValidationErrors:       validationErrors,
		Tier:                   tier,
	}

	switch {
	case len(schema.GlobalFlags) == 0 && len(schema.Subcommands) == 0 && len(schema.Positional) == 0:
		rep.Success = false
		rep.FailureCode = FailureParseFailed
		rep.FailureDetail = "no flags, subcommands, or positional arguments were recognized"
		rep.Reasons = append(rep.Reasons, "nothing extractable from the detected format(s)")
	case confidence < t.MinConfidence || coverage < t.MinCoverage:
		rep.Success = true
		if t.AllowLowQuality {
			rep.AcceptedForSuggestions = true
			rep.Reasons = append(rep.Reasons, "below confidence/coverage thresholds but allow_low_quality is set")
		} else {
			rep.FailureCode = FailureQualityRejected
			rep.Reasons = append(rep.Reasons, "confidence or coverage below configured minimums")
		}
	default:
		rep.Success = true
		rep.AcceptedForSuggestions = true
	}

	return rep
}
