// Package valuetype implements the Value-Type Classifier: given a merged
// flag or positional argument with its metavar and description, assigns
// the most specific ValueType the evidence supports, per spec.md §4.5.
package valuetype

import (
	"regexp"
	"strings"

	"github.com/mattsolo1/helpctl/pkg/model"
)

// metavarKinds maps canonical (upper-cased, trimmed) metavar tokens to the
// ValueType they imply. Order doesn't matter here; Classify checks the
// description for choice alternatives first and consults this table only
// when none are found.
var metavarKinds = map[string]func() model.ValueType{
	"FILE":      model.File,
	"FILEPATH":  model.File,
	"PATH":      model.File,
	"FILENAME":  model.File,
	"DIR":       model.Directory,
	"DIRECTORY": model.Directory,
	"FOLDER":    model.Directory,
	"URL":       model.URL,
	"URI":       model.URL,
	"ADDRESS":   model.URL,
	"N":         model.Number,
	"NUM":       model.Number,
	"NUMBER":    model.Number,
	"INT":       model.Number,
	"INTEGER":   model.Number,
	"COUNT":     model.Number,
	"JOBS":      model.Number,
	"PORT":      model.Number,
	"SIZE":      model.Number,
	"TIMEOUT":   model.Number,
	"SECONDS":   model.Number,
	"BRANCH":    model.Branch,
	"REF":       model.Branch,
	"REFSPEC":   model.Branch,
	"REMOTE":    model.Remote,
}

// choiceListRe matches "one of: a, b, c" / "one of a, b or c" description
// phrasing, per spec.md's Choice-from-description scenario.
var choiceListRe = regexp.MustCompile(`(?i)(?:one of|possible values?(?: are|:)?)\s*:?\s*([A-Za-z0-9_.-]+(?:\s*(?:,|\bor\b)\s*[A-Za-z0-9_.-]+)+)`)

// choiceBraceRe matches shell-brace-style alternatives, e.g. "{json|yaml|text}".
var choiceBraceRe = regexp.MustCompile(`\{([A-Za-z0-9_.-]+(?:\|[A-Za-z0-9_.-]+)+)\}`)

// Classify assigns f's ValueType in place, never downgrading an explicit
// metavar-derived Choice. A flag with TakesValue == false is always set to
// Bool, whatever value type it carried before.
func Classify(f *model.FlagSchema) {
	if !f.TakesValue {
		f.ValueType = model.Bool()
		return
	}

	if choices, ok := choicesFromDescription(f.Description); ok {
		f.ValueType = model.Choice(choices)
		return
	}

	if f.Metavar != "" {
		canon := strings.ToUpper(strings.TrimSpace(f.Metavar))
		if ctor, ok := metavarKinds[canon]; ok {
			f.ValueType = ctor()
			return
		}
	}

	if f.ValueType.Kind == model.KindAny || f.ValueType.Kind == "" {
		f.ValueType = model.String()
	}
}

// ClassifyArg applies the same rules to a positional argument.
func ClassifyArg(a *model.ArgSchema) {
	if choices, ok := choicesFromDescription(a.Description); ok {
		a.ValueType = model.Choice(choices)
		return
	}
	canon := strings.ToUpper(strings.TrimSpace(a.Name))
	if ctor, ok := metavarKinds[canon]; ok {
		a.ValueType = ctor()
		return
	}
	if a.ValueType.Kind == "" || a.ValueType.Kind == model.KindAny {
		a.ValueType = model.String()
	}
}

func choicesFromDescription(description string) ([]string, bool) {
	if description == "" {
		return nil, false
	}
	if m := choiceBraceRe.FindStringSubmatch(description); m != nil {
		return strings.Split(m[1], "|"), true
	}
	if m := choiceListRe.FindStringSubmatch(description); m != nil {
		raw := regexp.MustCompile(`(?i)\bor\b`).ReplaceAllString(m[1], ",")
		var out []string
		for _, p := range strings.Split(raw, ",") {
			p = strings.TrimSpace(strings.Trim(p, "."))
			if p != "" {
				out = append(out, p)
			}
		}
		if len(out) >= 2 {
			return out, true
		}
	}
	return nil, false
}

// ClassifySchema walks a full CommandSchema, applying Classify/ClassifyArg
// to every flag and positional argument at every scope.
func ClassifySchema(c *model.CommandSchema) {
	for i := range c.GlobalFlags {
		Classify(&c.GlobalFlags[i])
	}
	for i := range c.Positional {
		ClassifyArg(&c.Positional[i])
	}
	for i := range c.Subcommands {
		classifySubcommand(&c.Subcommands[i])
	}
}

func classifySubcommand(s *model.SubcommandSchema) {
	for i := range s.Flags {
		Classify(&s.Flags[i])
	}
	for i := range s.Positional {
		ClassifyArg(&s.Positional[i])
	}
	for i := range s.Subcommands {
		classifySubcommand(&s.Subcommands[i])
	}
}
