package strategy

import (
	"regexp"
	"sort"
	"strings"

	"github.com/mattsolo1/helpctl/pkg/classify"
	"github.com/mattsolo1/helpctl/pkg/model"
)

// flagLineRe captures: short form, long form, a metavar in any of the
// accepted shapes (including a pipe-alternation metavar like
// "<auto|manual|off>"), and the description tail (two-or-more spaces
// before it), per the common flag-line grammar in spec.md §4.3.
var flagLineRe = regexp.MustCompile(
	`^\s*` +
		`(?:-([A-Za-z0-9])(?:,\s*|\s+))?` +
		`(?:--([A-Za-z0-9][A-Za-z0-9_-]*))?` +
		`(?:(=)([A-Za-z][A-Za-z0-9_]*)` +
		`|\s+<([A-Za-z][A-Za-z0-9_]*(?:\|[A-Za-z][A-Za-z0-9_]*)+)>` +
		`|\s+<([A-Za-z][A-Za-z0-9_]*)>` +
		`|\s+\[([A-Za-z][A-Za-z0-9_]*)\]` +
		`|\s+([A-Z][A-Z0-9_]*))?` +
		`(?:\s{2,}(.*))?\s*$`,
)

// shortOnlyRe matches a flag line with only a short form, e.g. "-v  Verbose".
var shortOnlyRe = regexp.MustCompile(`^\s*-([A-Za-z0-9])(?:\s+([A-Za-z][A-Za-z0-9_]*))?(?:\s{2,}(.*))?\s*$`)

// parsedFlagLine is the raw grammar match before value-type/description
// post-processing.
type parsedFlagLine struct {
	short       string
	long        string
	metavar     string
	metavarOpt  bool // metavar came from square brackets
	choices     []string
	description string
	ok          bool
}

// parseFlagLine applies the common GNU/clap/NPM/generic flag-line grammar
// to one stripped line. It returns ok=false if the line does not look like
// a flag declaration at all.
func parseFlagLine(stripped string) parsedFlagLine {
	if m := flagLineRe.FindStringSubmatch(stripped); m != nil && (m[1] != "" || m[2] != "") {
		metavar := firstNonEmpty(m[4], m[5], m[6], m[7], m[8])
		return parsedFlagLine{
			short:       m[1],
			long:        m[2],
			metavar:     metavar,
			metavarOpt:  m[7] != "",
			choices:     splitChoiceMetavar(m[5]),
			description: strings.TrimSpace(m[9]),
			ok:          true,
		}
	}
	if m := shortOnlyRe.FindStringSubmatch(stripped); m != nil {
		return parsedFlagLine{
			short:       m[1],
			metavar:     m[2],
			description: strings.TrimSpace(m[3]),
			ok:          true,
		}
	}
	return parsedFlagLine{}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// splitChoiceMetavar splits a "auto|manual|off"-shaped metavar capture
// into its alternatives, or returns nil if raw is empty.
func splitChoiceMetavar(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "|")
}

// collectDescription merges a flag line's own description tail with every
// following Continuation line attached to it, joined by single spaces, per
// spec.md §4.3.
func collectDescription(lines []classify.Line, idx int, own string) (string, []int) {
	parts := []string{}
	if own != "" {
		parts = append(parts, own)
	}
	var consumed []int
	for j := idx + 1; j < len(lines); j++ {
		if lines[j].Kind != classify.KindContinuation {
			break
		}
		t := strings.TrimSpace(lines[j].Stripped)
		if t == "" {
			break
		}
		parts = append(parts, t)
		consumed = append(consumed, j)
	}
	return strings.Join(parts, " "), consumed
}

// buildFlag converts a parsedFlagLine plus its merged description into a
// FlagSchema. The value type here is provisional: Bool when there is no
// metavar, Choice for a pipe-alternation metavar, Any otherwise; the
// Value-Type Classifier assigns the final type after merging.
func buildFlag(p parsedFlagLine, description string) model.FlagSchema {
	f := model.FlagSchema{
		Short:       p.short,
		Long:        p.long,
		Description: description,
		Metavar:     p.metavar,
	}
	switch {
	case p.metavar == "":
		f.ValueType = model.Bool()
		f.TakesValue = false
	case len(p.choices) > 0:
		f.ValueType = model.Choice(p.choices)
		f.TakesValue = true
	default:
		f.ValueType = model.Any()
		f.TakesValue = true
	}
	detectConflictsAndRequires(&f, description)
	return f
}

var (
	conflictsRe = regexp.MustCompile(`(?i)conflicts with (--[A-Za-z][A-Za-z0-9_-]*|-[A-Za-z0-9])`)
	requiresRe  = regexp.MustCompile(`(?i)requires (--[A-Za-z][A-Za-z0-9_-]*|-[A-Za-z0-9])`)
)

// detectConflictsAndRequires applies the light description heuristics from
// spec.md's example scenario 4 ("Conflicts with --verbose").
func detectConflictsAndRequires(f *model.FlagSchema, description string) {
	for _, m := range conflictsRe.FindAllStringSubmatch(description, -1) {
		f.ConflictsWith = append(f.ConflictsWith, m[1])
	}
	for _, m := range requiresRe.FindAllStringSubmatch(description, -1) {
		f.Requires = append(f.Requires, m[1])
	}
}

// usageRe finds Usage:/USAGE:/SYNOPSIS-prefixed lines.
var usageRe = regexp.MustCompile(`(?i)^\s*(usage|synopsis)\s*:?\s*(.*)$`)

// requiredPositionalRe / optionalPositionalRe / choicePositionalRe extract
// positional arguments from a usage line, per spec.md §4.3.
var (
	choicePositionalRe    = regexp.MustCompile(`<([A-Za-z0-9_]+(?:\|[A-Za-z0-9_]+)+)>(\.\.\.)?`)
	requiredPositionalRe  = regexp.MustCompile(`<([A-Za-z0-9_]+)>(\.\.\.)?`)
	optionalPositionalRe  = regexp.MustCompile(`\[([A-Za-z0-9_]+)\](\.\.\.)?`)
	bareMultiPositionalRe = regexp.MustCompile(`(?:^|\s)([A-Z][A-Z0-9_]*)(\.\.\.)`)
)

// parsePositional extracts positional arguments from the first usage line
// found in lines, in left-to-right order.
func parsePositional(lines []classify.Line) []model.ArgSchema {
	for _, l := range lines {
		if l.Kind != classify.KindUsageLine {
			continue
		}
		body := l.Stripped
		if m := usageRe.FindStringSubmatch(body); m != nil {
			body = m[2]
		}
		return parsePositionalFromText(body)
	}
	return nil
}

func parsePositionalFromText(body string) []model.ArgSchema {
	var args []model.ArgSchema
	var starts []int
	consumed := make([]bool, len(body))

	// add inserts a at the position that keeps args ordered by where each
	// argument starts in body.
	add := func(at int, a model.ArgSchema) {
		i := sort.SearchInts(starts, at)
		starts = append(starts[:i], append([]int{at}, starts[i:]...)...)
		args = append(args[:i], append([]model.ArgSchema{a}, args[i:]...)...)
	}

	markConsumed := func(loc []int) {
		for i := loc[0]; i < loc[1]; i++ {
			consumed[i] = true
		}
	}

	for _, loc := range choicePositionalRe.FindAllStringSubmatchIndex(body, -1) {
		alts := strings.Split(body[loc[2]:loc[3]], "|")
		add(loc[0], model.ArgSchema{
			Name:      strings.ToUpper(strings.Join(alts, "_OR_")),
			ValueType: model.Choice(alts),
			Required:  true,
			Multiple:  loc[4] != -1,
		})
		markConsumed(loc)
	}
	for _, loc := range requiredPositionalRe.FindAllStringSubmatchIndex(body, -1) {
		if consumed[loc[0]] {
			continue
		}
		name := body[loc[2]:loc[3]]
		add(loc[0], model.ArgSchema{
			Name:     strings.ToUpper(name),
			Required: true,
			Multiple: loc[4] != -1,
		})
		markConsumed(loc)
	}
	for _, loc := range optionalPositionalRe.FindAllStringSubmatchIndex(body, -1) {
		if consumed[loc[0]] {
			continue
		}
		name := body[loc[2]:loc[3]]
		add(loc[0], model.ArgSchema{
			Name:     strings.ToUpper(name),
			Required: false,
			Multiple: loc[4] != -1,
		})
		markConsumed(loc)
	}
	for _, loc := range bareMultiPositionalRe.FindAllStringSubmatchIndex(body, -1) {
		name := body[loc[2]:loc[3]]
		found := false
		for _, a := range args {
			if a.Name == name {
				found = true
				break
			}
		}
		if !found {
			add(loc[2], model.ArgSchema{Name: name, Required: false, Multiple: true})
		}
	}
	return args
}

// subcommandLineRe splits a two-column "NAME  DESCRIPTION" subcommand line,
// allowing "name|alias1|alias2" or "name (alias1, alias2)" alias forms.
var (
	subcommandLineRe = regexp.MustCompile(`^(\S.*?)\s{2,}(.*)$`)
	pipeAliasRe      = regexp.MustCompile(`^([A-Za-z0-9_-]+)(?:\|([A-Za-z0-9_,|-]+))?$`)
	parenAliasRe     = regexp.MustCompile(`^([A-Za-z0-9_-]+)\s*\(([^)]+)\)$`)
)

// parseSubcommandLine parses one "Commands:" section line into a
// SubcommandSchema, or returns ok=false if the shape doesn't match.
func parseSubcommandLine(stripped string) (model.SubcommandSchema, bool) {
	m := subcommandLineRe.FindStringSubmatch(stripped)
	if m == nil {
		return model.SubcommandSchema{}, false
	}
	namePart := strings.TrimSpace(m[1])
	description := strings.TrimSpace(m[2])

	name := namePart
	var aliases []string

	if pm := parenAliasRe.FindStringSubmatch(namePart); pm != nil {
		name = pm[1]
		for _, a := range strings.Split(pm[2], ",") {
			a = strings.TrimSpace(a)
			if a != "" {
				aliases = append(aliases, a)
			}
		}
	} else if strings.Contains(namePart, "|") {
		parts := strings.Split(namePart, "|")
		name = parts[0]
		aliases = append(aliases, parts[1:]...)
	}

	if name == "" {
		return model.SubcommandSchema{}, false
	}

	return model.SubcommandSchema{
		Name:        name,
		Description: description,
		Aliases:     aliases,
	}, true
}

// sectionIsSubcommands reports whether a section's canonical name is one of
// the recognized subcommand-listing headers.
func sectionIsSubcommands(section string) bool {
	switch section {
	case "COMMANDS", "SUBCOMMANDS", "AVAILABLE COMMANDS":
		return true
	}
	return false
}

// parseSubcommandsSection walks every non-blank, non-continuation line in a
// subcommand-listing section and emits one SubcommandSchema per line,
// recording which lines were recognized. Lines that don't match the
// two-column shape produce a warning.
func parseSubcommandsSection(lines []classify.Line) ([]model.SubcommandSchema, map[int]bool, []string) {
	var subs []model.SubcommandSchema
	recognized := make(map[int]bool)
	var warnings []string
	seen := make(map[string]bool)

	for i, l := range lines {
		if !sectionIsSubcommands(l.Section) {
			continue
		}
		if l.Kind == classify.KindBlank || l.Kind == classify.KindContinuation || l.Kind == classify.KindSectionHeader {
			continue
		}
		sub, ok := parseSubcommandLine(l.Stripped)
		if !ok {
			warnings = append(warnings, "unrecognized subcommand line: "+l.Stripped)
			continue
		}
		if seen[sub.Name] {
			warnings = append(warnings, "duplicate subcommand declaration: "+sub.Name)
			continue
		}
		seen[sub.Name] = true
		recognized[i] = true
		subs = append(subs, sub)
	}
	return subs, recognized, warnings
}
