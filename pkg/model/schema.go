// Package model defines the typed description of a CLI tool's interface:
// CommandSchema and its component flag, argument, and subcommand schemas.
package model

import "sort"

// Source tags where a CommandSchema's information originated.
type Source string

const (
	SourceHelpCommand Source = "HelpCommand"
	SourceManPage     Source = "ManPage"
	SourceBootstrap   Source = "Bootstrap"
	SourceLearned     Source = "Learned"
)

// ValueKind is the tag of a ValueType variant.
type ValueKind string

const (
	KindBool      ValueKind = "Bool"
	KindString    ValueKind = "String"
	KindNumber    ValueKind = "Number"
	KindFile      ValueKind = "File"
	KindDirectory ValueKind = "Directory"
	KindURL       ValueKind = "Url"
	KindBranch    ValueKind = "Branch"
	KindRemote    ValueKind = "Remote"
	KindChoice    ValueKind = "Choice"
	KindAny       ValueKind = "Any"
)

// ValueType is a tagged variant; Choices is only populated when Kind == KindChoice.
type ValueType struct {
	Kind    ValueKind
	Choices []string
}

// Bool, String, Number, and friends are convenience constructors for the
// non-parameterized variants.
func Bool() ValueType      { return ValueType{Kind: KindBool} }
func String() ValueType    { return ValueType{Kind: KindString} }
func Number() ValueType    { return ValueType{Kind: KindNumber} }
func File() ValueType      { return ValueType{Kind: KindFile} }
func Directory() ValueType { return ValueType{Kind: KindDirectory} }
func URL() ValueType       { return ValueType{Kind: KindURL} }
func Branch() ValueType    { return ValueType{Kind: KindBranch} }
func Remote() ValueType    { return ValueType{Kind: KindRemote} }
func Any() ValueType       { return ValueType{Kind: KindAny} }

// Choice builds a Choice variant, trimming, deduplicating, and preserving
// first-seen order. Returns Any if fewer than 2 distinct alternatives remain.
func Choice(alternatives []string) ValueType {
	seen := make(map[string]bool, len(alternatives))
	var out []string
	for _, a := range alternatives {
		a = trimSpace(a)
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	if len(out) < 2 {
		return Any()
	}
	return ValueType{Kind: KindChoice, Choices: out}
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// Specificity orders value types for merge "richer wins" comparisons:
// anything concrete beats Any.
func (v ValueType) Specificity() int {
	switch v.Kind {
	case KindAny:
		return 0
	case KindChoice:
		return 2
	default:
		return 1
	}
}

// FlagSchema describes a single global or subcommand-scoped flag.
type FlagSchema struct {
	Short         string // e.g. "v" (no leading dash)
	Long          string // e.g. "verbose" (no leading dashes)
	ValueType     ValueType
	TakesValue    bool
	Description   string
	Multiple      bool
	ConflictsWith []string
	Requires      []string
	Metavar       string // raw placeholder token as declared (e.g. "FILE"); classifier input, not part of the public value-type contract
}

// ID returns a stable identifier for deduplication/reference purposes,
// preferring the long form.
func (f FlagSchema) ID() string {
	if f.Long != "" {
		return "--" + f.Long
	}
	if f.Short != "" {
		return "-" + f.Short
	}
	return ""
}

// Valid reports whether the flag satisfies the §3 invariants that don't
// require merge-time context (at least one form set; Bool <=> !TakesValue).
func (f FlagSchema) Valid() bool {
	if f.Short == "" && f.Long == "" {
		return false
	}
	if f.ValueType.Kind == KindBool && f.TakesValue {
		return false
	}
	if f.ValueType.Kind != KindBool && !f.TakesValue {
		return false
	}
	return true
}

// ArgSchema describes a positional argument.
type ArgSchema struct {
	Name        string
	ValueType   ValueType
	Required    bool
	Multiple    bool
	Description string
}

// SubcommandSchema describes one subcommand and its own nested interface.
type SubcommandSchema struct {
	Name        string
	Description string
	Flags       []FlagSchema
	Positional  []ArgSchema
	Subcommands []SubcommandSchema
	Aliases     []string
}

// CommandSchema is the root output of the pipeline.
type CommandSchema struct {
	SchemaVersion string
	Command       string
	Description   string
	GlobalFlags   []FlagSchema
	Subcommands   []SubcommandSchema
	Positional    []ArgSchema
	Source        Source
	Confidence    float64
	Version       string
}

// SortFlags orders flags by (long form, short form), per spec.md §5.
func SortFlags(flags []FlagSchema) {
	sort.SliceStable(flags, func(i, j int) bool {
		if flags[i].Long != flags[j].Long {
			return flags[i].Long < flags[j].Long
		}
		return flags[i].Short < flags[j].Short
	})
}

// SortSubcommands orders subcommands by name and each's aliases by string
// order, per spec.md §5.
func SortSubcommands(subs []SubcommandSchema) {
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].Name < subs[j].Name })
	for i := range subs {
		sort.Strings(subs[i].Aliases)
		SortFlags(subs[i].Flags)
		SortSubcommands(subs[i].Subcommands)
	}
}

// Normalize sorts a CommandSchema's arrays in place to the canonical order
// so two independently-built schemas with identical content compare equal
// and serialize byte-identically.
func (c *CommandSchema) Normalize() {
	SortFlags(c.GlobalFlags)
	SortSubcommands(c.Subcommands)
}

// ValidationError records an invariant violation discovered while merging or
// validating a schema; the violation is preserved in the ExtractionReport.
// Discard removes only flags that fail Valid (no form, or takes_value
// disagreeing with Bool); flags with a duplicate form or a dangling
// conflicts_with/requires reference stay in the schema.
type ValidationError struct {
	Scope   string // "global" or a subcommand path like "app init"
	Subject string // flag/arg identifier as declared
	Reason  string
}

func (e ValidationError) Error() string {
	return e.Scope + ": " + e.Subject + ": " + e.Reason
}

// Validate walks the schema and returns every invariant violation found:
// flags missing both forms, duplicate short/long forms within a scope, and
// conflicts_with/requires references to flags not in scope.
func Validate(c *CommandSchema) []ValidationError {
	var errs []ValidationError
	validateScope("global", c.GlobalFlags, c.GlobalFlags, &errs)
	for _, sub := range c.Subcommands {
		validateSubcommand(sub, c.GlobalFlags, &errs)
	}
	return errs
}

func validateSubcommand(s SubcommandSchema, inherited []FlagSchema, errs *[]ValidationError) {
	visible := append(append([]FlagSchema{}, inherited...), s.Flags...)
	validateScope(s.Name, s.Flags, visible, errs)
	for _, nested := range s.Subcommands {
		validateSubcommand(nested, visible, errs)
	}
}

func validateScope(scope string, flags []FlagSchema, visible []FlagSchema, errs *[]ValidationError) {
	shorts := make(map[string]bool)
	longs := make(map[string]bool)
	visibleIDs := make(map[string]bool, len(visible))
	for _, f := range visible {
		if id := f.ID(); id != "" {
			visibleIDs[id] = true
		}
	}
	for _, f := range flags {
		if !f.Valid() {
			*errs = append(*errs, ValidationError{Scope: scope, Subject: f.ID(), Reason: "flag has neither short nor long form, or takes_value disagrees with Bool value type"})
			continue
		}
		if f.Short != "" {
			if shorts[f.Short] {
				*errs = append(*errs, ValidationError{Scope: scope, Subject: "-" + f.Short, Reason: "duplicate short form in scope"})
			}
			shorts[f.Short] = true
		}
		if f.Long != "" {
			if longs[f.Long] {
				*errs = append(*errs, ValidationError{Scope: scope, Subject: "--" + f.Long, Reason: "duplicate long form in scope"})
			}
			longs[f.Long] = true
		}
		for _, ref := range f.ConflictsWith {
			if len(visible) > 0 && !visibleIDs[ref] {
				*errs = append(*errs, ValidationError{Scope: scope, Subject: f.ID(), Reason: "conflicts_with references undeclared flag " + ref})
			}
		}
		for _, ref := range f.Requires {
			if len(visible) > 0 && !visibleIDs[ref] {
				*errs = append(*errs, ValidationError{Scope: scope, Subject: f.ID(), Reason: "requires references undeclared flag " + ref})
			}
		}
	}
}

// Discard removes every flag in c that fails Valid(), recursively; it
// returns nothing, so the removed flags are known only through Validate's
// errors. Callers typically
// run Validate first to record ValidationErrors, then Discard to enforce
// the invariant before the schema is stamped immutable.
func Discard(c *CommandSchema) {
	c.GlobalFlags = discardInvalid(c.GlobalFlags)
	for i := range c.Subcommands {
		discardSubcommand(&c.Subcommands[i])
	}
}

func discardSubcommand(s *SubcommandSchema) {
	s.Flags = discardInvalid(s.Flags)
	for i := range s.Subcommands {
		discardSubcommand(&s.Subcommands[i])
	}
}

func discardInvalid(flags []FlagSchema) []FlagSchema {
	out := flags[:0:0]
	for _, f := range flags {
		if f.Valid() {
			out = append(out, f)
		}
	}
	return out
}
