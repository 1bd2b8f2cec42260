// Package detect scores classified help text against a fixed set of
// dialects and returns a ranked list, per spec.md §4.2.
package detect

import (
	"regexp"
	"sort"
	"strings"

	"github.com/mattsolo1/helpctl/pkg/classify"
)

// Format is one of the fixed dialects the detector recognizes.
type Format string

const (
	FormatManRaw      Format = "man-raw"
	FormatManRendered Format = "man-rendered"
	FormatClap        Format = "clap"
	FormatGNU         Format = "gnu"
	FormatNPM         Format = "npm"
	FormatBSD         Format = "bsd"
	FormatGeneric     Format = "generic"
)

// dialectPriority breaks score ties, per spec.md §4.2.
var dialectPriority = map[Format]int{
	FormatManRaw:      0,
	FormatManRendered: 1,
	FormatClap:        2,
	FormatGNU:         3,
	FormatNPM:         4,
	FormatBSD:         5,
	FormatGeneric:     6,
}

// Score is one (format, score) pair in the ranked result.
type Score struct {
	Format Format
	Score  float64
}

const selectThreshold = 0.10

var (
	roffMacroRe    = regexp.MustCompile(`(?m)^\.(TH|SH|BR|IP)\b`)
	npmUsageRe     = regexp.MustCompile(`(?i)^(>|npm\s+<?\w)`)
	bsdFlagLineRe  = regexp.MustCompile(`^-[A-Za-z]{2,}(\s|$)`)
	longFlagPairRe = regexp.MustCompile(`--[A-Za-z][A-Za-z0-9-]*`)
)

// Detect scores classified lines against every dialect and returns the
// formats scoring above the selection threshold, ordered by descending
// score with ties broken by dialectPriority.
func Detect(lines []classify.Line) []Score {
	scores := map[Format]float64{}

	hasUsage := false
	hasNameHeader, hasSynopsisHeader, hasOptionsHeader := false, false, false
	hasRoff := hasRoffMacros(lines)
	hasGNUOptionsHeader := false
	allCapsHeaderWithBody := 0
	hasCommandsColumn := false
	hasNPMUsage := false
	singleDashMultiLetter := 0
	hasLongFlag := false
	hasAnyFlagLine := false

	for i, l := range lines {
		trimmed := strings.TrimSpace(l.Stripped)
		switch l.Kind {
		case classify.KindUsageLine:
			hasUsage = true
			if npmUsageRe.MatchString(trimmed) {
				hasNPMUsage = true
			}
		case classify.KindSectionHeader:
			switch canonical(trimmed) {
			case "NAME":
				hasNameHeader = true
			case "SYNOPSIS":
				hasSynopsisHeader = true
			case "OPTIONS":
				hasOptionsHeader = true
				hasGNUOptionsHeader = true
			}
			if i+1 < len(lines) && lines[i+1].Indent > 0 {
				allCapsHeaderWithBody++
			}
			if canonical(trimmed) == "COMMANDS" || canonical(trimmed) == "SUBCOMMANDS" || canonical(trimmed) == "AVAILABLE COMMANDS" {
				hasCommandsColumn = true
			}
		case classify.KindFlagLine:
			hasAnyFlagLine = true
			if longFlagPairRe.MatchString(trimmed) {
				hasLongFlag = true
			}
			if bsdFlagLineRe.MatchString(trimmed) && !longFlagPairRe.MatchString(trimmed) {
				singleDashMultiLetter++
			}
		}
	}

	if hasUsage {
		scores[FormatGNU] += 0.15
		scores[FormatClap] += 0.15
	}
	if hasSynopsisHeader && hasNameHeader && hasOptionsHeader {
		scores[FormatManRendered] += 0.60
	}
	if hasRoff {
		scores[FormatManRaw] += 0.70
	}
	if hasGNUOptionsHeader && hasLongFlag {
		scores[FormatGNU] += 0.30
	}
	if allCapsHeaderWithBody > 0 {
		scores[FormatClap] += 0.15
	}
	if hasCommandsColumn {
		scores[FormatClap] += 0.20
	}
	if hasNPMUsage {
		scores[FormatNPM] += 0.20
	}
	if singleDashMultiLetter > 0 && !hasLongFlag {
		scores[FormatBSD] += 0.20
	}
	if hasAnyFlagLine {
		anyAbove := false
		for _, v := range scores {
			if v > 0 {
				anyAbove = true
				break
			}
		}
		if !anyAbove {
			scores[FormatGeneric] += 0.10
		}
	}

	var out []Score
	for f, s := range scores {
		if s > 1 {
			s = 1
		}
		if s > selectThreshold {
			out = append(out, Score{Format: f, Score: s})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return dialectPriority[out[i].Format] < dialectPriority[out[j].Format]
	})

	return out
}

func hasRoffMacros(lines []classify.Line) bool {
	for _, l := range lines {
		if roffMacroRe.MatchString(l.Raw) {
			return true
		}
	}
	return false
}

func canonical(trimmed string) string {
	return strings.ToUpper(strings.TrimSuffix(strings.TrimSpace(trimmed), ":"))
}
