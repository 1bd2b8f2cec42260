package strategy

import (
	"strings"

	"github.com/mattsolo1/helpctl/pkg/classify"
	"github.com/mattsolo1/helpctl/pkg/detect"
)

// manRenderedStrategy parses a rendered man page: the OPTIONS section is
// identified by header; within it, flag declarations appear as indented
// lines followed by deeper-indented description paragraphs, per spec.md
// §4.3.
type manRenderedStrategy struct{}

func (manRenderedStrategy) Format() detect.Format { return detect.FormatManRendered }

func (manRenderedStrategy) Parse(lines []classify.Line) PartialSchema {
	p := newPartial()
	seen := map[string]bool{}

	for i, l := range lines {
		if l.Section != "OPTIONS" {
			continue
		}
		if l.Kind != classify.KindFlagLine {
			continue
		}
		parsed := parseFlagLine(l.Stripped)
		if !parsed.ok {
			p.Warnings = append(p.Warnings, "unrecognized OPTIONS line: "+l.Stripped)
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

		p.Flags = append(p.Flags, flag)
		p.RecognizedLines[i] = true
		for _, c := range consumed {
			p.RecognizedLines[c] = true
		}
	}

	p.Description = firstParagraph(lines, "NAME")
	p.Positional = parsePositional(lines)
	for i, l := range lines {
		if l.Kind == classify.KindUsageLine {
			p.RecognizedLines[i] = true
		}
	}
	return p
}

// firstParagraph joins the non-blank lines of the named section into one
// description string, used for NAME's one-line command summary.
func firstParagraph(lines []classify.Line, section string) string {
	var parts []string
	for _, l := range lines {
		if l.Section != section || l.Kind == classify.KindSectionHeader {
			continue
		}
		t := strings.TrimSpace(l.Stripped)
		if t == "" {
			if len(parts) > 0 {
				break
			}
			continue
		}
		parts = append(parts, t)
	}
	return strings.Join(parts, " ")
}
