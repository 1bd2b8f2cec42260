package strategy

import (
	"regexp"
	"strings"

	"github.com/mattsolo1/helpctl/pkg/classify"
	"github.com/mattsolo1/helpctl/pkg/detect"
)

// bsdStrategy recognizes single-dash multi-letter flags with no --long
// equivalent, the BSD man-page convention (e.g. "-walltime <TIME>").
type bsdStrategy struct{}

func (bsdStrategy) Format() detect.Format { return detect.FormatBSD }

var bsdFlagRe = regexp.MustCompile(`^\s*-([A-Za-z][A-Za-z0-9]*)(?:\s+(?:<([A-Za-z0-9_]+)>|\[([A-Za-z0-9_]+)\]|([A-Z][A-Z0-9_]*)))?(?:\s{2,}(.*))?\s*$`)

func (bsdStrategy) Parse(lines []classify.Line) PartialSchema {
	p := newPartial()
	seen := map[string]bool{}

	for i, l := range lines {
		if l.Kind != classify.KindFlagLine || sectionIsSubcommands(l.Section) {
			continue
		}
		m := bsdFlagRe.FindStringSubmatch(l.Stripped)
		if m == nil {
			p.Warnings = append(p.Warnings, "unrecognized BSD flag line: "+l.Stripped)
			continue
		}
		short := m[1]
		if seen[short] {
			p.Warnings = append(p.Warnings, "duplicate flag declaration: -"+short)
			continue
		}
		seen[short] = true

		metavar := firstNonEmpty(m[2], m[3], m[4])
		description, consumed := collectDescription(lines, i, strings.TrimSpace(m[5]))

		flag := buildFlag(parsedFlagLine{short: short, metavar: metavar, metavarOpt: m[3] != ""}, description)
		p.Flags = append(p.Flags, flag)
		p.RecognizedLines[i] = true
		for _, c := range consumed {
			p.RecognizedLines[c] = true
		}
	}

	p.Positional = parsePositional(lines)
	for i, l := range lines {
		if l.Kind == classify.KindUsageLine {
			p.RecognizedLines[i] = true
		}
	}
	return p
}
