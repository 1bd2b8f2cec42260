package strategy

import (
	"regexp"
	"strings"

	"github.com/mattsolo1/helpctl/pkg/classify"
	"github.com/mattsolo1/helpctl/pkg/detect"
)

// manRawStrategy parses raw roff source: .SH OPTIONS blocks containing
// .IP "\-f, \-\-flag ARG" flag declarations followed by description
// paragraphs, per spec.md §4.3. Confidence contribution is high because
// the grammar is explicit — the quality gate applies a +0.10 bonus.
type manRawStrategy struct{}

func (manRawStrategy) Format() detect.Format { return detect.FormatManRaw }

var (
	shTitleRe  = regexp.MustCompile(`(?i)^\.SH\s+"?([A-Za-z ]+)"?`)
	ipFlagRe   = regexp.MustCompile(`^\.IP\s+"((?:[^"\\]|\\.)*)"`)
	roffEscRe  = regexp.MustCompile(`\\-`)
	roffArgRe  = regexp.MustCompile(`^-([A-Za-z0-9])(?:,\s*|\s+)?(?:--?([A-Za-z0-9][A-Za-z0-9_-]*))?\s*(\S+)?$`)
)

func (manRawStrategy) Parse(lines []classify.Line) PartialSchema {
	p := newPartial()

	inOptions := false
	for i, l := range lines {
		raw := l.Stripped
		if m := shTitleRe.FindStringSubmatch(raw); m != nil {
			inOptions = strings.EqualFold(strings.TrimSpace(m[1]), "OPTIONS")
			p.RecognizedLines[i] = true
			continue
		}
		if !inOptions {
			continue
		}
		m := ipFlagRe.FindStringSubmatch(raw)
		if m == nil {
			if strings.HasPrefix(raw, ".") {
				// Other roff macro inside OPTIONS (.PP, .TP, ...): not a
				// flag, but still roff structure, not "unrecognized".
				p.RecognizedLines[i] = true
			}
			continue
		}
		decl := roffEscRe.ReplaceAllString(m[1], "-")
		parsed, ok := parseRoffFlagDecl(decl)
		if !ok {
			p.Warnings = append(p.Warnings, "unrecognized .IP flag declaration: "+decl)
			continue
		}

		desc, consumed := collectRoffParagraph(lines, i)
		p.Flags = append(p.Flags, buildFlag(parsed, desc))
		p.RecognizedLines[i] = true
		for _, c := range consumed {
			p.RecognizedLines[c] = true
		}
	}

	return p
}

func parseRoffFlagDecl(decl string) (parsedFlagLine, bool) {
	decl = strings.TrimSpace(decl)
	m := roffArgRe.FindStringSubmatch(decl)
	if m == nil {
		return parsedFlagLine{}, false
	}
	return parsedFlagLine{short: m[1], long: m[2], metavar: m[3], ok: true}, true
}

func collectRoffParagraph(lines []classify.Line, ipIdx int) (string, []int) {
	var parts []string
	var consumed []int
	for j := ipIdx + 1; j < len(lines); j++ {
		t := strings.TrimSpace(lines[j].Stripped)
		if strings.HasPrefix(t, ".") || t == "" {
			break
		}
		parts = append(parts, t)
		consumed = append(consumed, j)
	}
	return strings.Join(parts, " "), consumed
}
