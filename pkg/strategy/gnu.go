package strategy

import (
	"github.com/mattsolo1/helpctl/pkg/classify"
	"github.com/mattsolo1/helpctl/pkg/detect"
)

// gnuStrategy, clapStrategy, npmStrategy, and genericStrategy all speak the
// common flag-line grammar from spec.md §4.3; they differ only in which
// dialect tag they report, which matters to the merger's priority order.
type gnuStrategy struct{}

func (gnuStrategy) Format() detect.Format { return detect.FormatGNU }
func (gnuStrategy) Parse(lines []classify.Line) PartialSchema {
	return parseCommonDialect(lines)
}

type clapStrategy struct{}

func (clapStrategy) Format() detect.Format { return detect.FormatClap }
func (clapStrategy) Parse(lines []classify.Line) PartialSchema {
	return parseCommonDialect(lines)
}

type npmStrategy struct{}

func (npmStrategy) Format() detect.Format { return detect.FormatNPM }
func (npmStrategy) Parse(lines []classify.Line) PartialSchema {
	return parseCommonDialect(lines)
}

type genericStrategy struct{}

func (genericStrategy) Format() detect.Format { return detect.FormatGeneric }
func (genericStrategy) Parse(lines []classify.Line) PartialSchema {
	return parseCommonDialect(lines)
}

// parseCommonDialect implements the shared GNU/clap/NPM/generic flag-line
// grammar: scan every FlagLine outside a subcommand-listing section, parse
// it, merge trailing Continuation lines into its description, and parse
// any Commands: section and usage-line positionals alongside it.
func parseCommonDialect(lines []classify.Line) PartialSchema {
	p := newPartial()
	seen := map[string]bool{}

	for i, l := range lines {
		if l.Kind != classify.KindFlagLine {
			continue
		}
		if sectionIsSubcommands(l.Section) {
			continue
		}
		parsed := parseFlagLine(l.Stripped)
		if !parsed.ok {
			p.Warnings = append(p.Warnings, "unrecognized flag line: "+l.Stripped)
			continue
		}
		description, consumed := collectDescription(lines, i, parsed.description)
		flag := buildFlag(parsed, description)

		id := flag.ID()
		if id != "" && seen[id] {
			p.Warnings = append(p.Warnings, "duplicate flag declaration: "+id)
			continue
		}
		if id != "" {
			seen[id] = true
		}
		if parsed.metavar != "" && parsed.metavarOpt {
			// Optional value in brackets: still takes_value per spec.md §4.3.
			flag.TakesValue = true
		}
		if parsed.metavar == "" && parsed.short == "" && parsed.long == "" {
			p.Warnings = append(p.Warnings, "flag line recognized but no metavar or form parsed: "+l.Stripped)
		}

		p.Flags = append(p.Flags, flag)
		p.RecognizedLines[i] = true
		for _, c := range consumed {
			p.RecognizedLines[c] = true
		}
	}

	subs, subRecognized, subWarnings := parseSubcommandsSection(lines)
	p.Subcommands = append(p.Subcommands, subs...)
	for idx := range subRecognized {
		p.RecognizedLines[idx] = true
	}
	p.Warnings = append(p.Warnings, subWarnings...)

	p.Positional = parsePositional(lines)
	for i, l := range lines {
		if l.Kind == classify.KindUsageLine {
			p.RecognizedLines[i] = true
		}
	}

	return p
}
