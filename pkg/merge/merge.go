// Package merge combines the partial schemas produced by every parser
// strategy that ran into a single CommandSchema, under the
// dialect-priority ordering and conflict-resolution policy in spec.md
// §4.4.
package merge

import (
	"github.com/mattsolo1/helpctl/pkg/detect"
	"github.com/mattsolo1/helpctl/pkg/model"
	"github.com/mattsolo1/helpctl/pkg/strategy"
)

// Contribution pairs one strategy's output with its dialect, so the
// merger can apply priority without re-deriving it from the registry.
type Contribution struct {
	Format   detect.Format
	Priority int
	Partial  strategy.PartialSchema
}

// Result is the merger's output: the merged schema plus bookkeeping the
// Quality Gate and ExtractionReport need.
type Result struct {
	Flags              []model.FlagSchema
	Subcommands        []model.SubcommandSchema
	Positional         []model.ArgSchema
	Description        string
	RecognizedLines    map[int]bool
	Warnings           []string
	Contributors       []detect.Format
	ManRawContributed  bool
}

// Merge combines contributions ordered by ascending priority (lower value
// = higher priority, matching strategy.PriorityOf / strategy.Registry
// order).
func Merge(contributions []Contribution) Result {
	var r Result
	r.RecognizedLines = make(map[int]bool)

	sorted := append([]Contribution{}, contributions...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].Priority < sorted[i].Priority {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}

	flagByID := map[string]model.FlagSchema{}
	var flagOrder []string

	var positionalSet bool

	for _, c := range sorted {
		if len(c.Partial.Flags) > 0 || len(c.Partial.Subcommands) > 0 || len(c.Partial.Positional) > 0 {
			r.Contributors = append(r.Contributors, c.Format)
		}
		if c.Format == detect.FormatManRaw && (len(c.Partial.Flags) > 0 || len(c.Partial.Subcommands) > 0) {
			r.ManRawContributed = true
		}

		for idx := range c.Partial.RecognizedLines {
			r.RecognizedLines[idx] = true
		}
		r.Warnings = append(r.Warnings, c.Partial.Warnings...)

		for _, f := range c.Partial.Flags {
			id := f.ID()
			if id == "" {
				continue
			}
			existing, ok := flagByID[id]
			if !ok {
				flagByID[id] = f
				flagOrder = append(flagOrder, id)
				continue
			}
			flagByID[id] = mergeFlag(existing, f, c.Priority, currentPriority(sorted, existing))
		}

		if c.Partial.Description != "" && r.Description == "" {
			r.Description = c.Partial.Description
		}

		if !positionalSet && len(c.Partial.Positional) > 0 {
			r.Positional = c.Partial.Positional
			positionalSet = true
		}

		r.Subcommands = mergeSubcommands(r.Subcommands, c.Partial.Subcommands)
	}

	for _, id := range flagOrder {
		r.Flags = append(r.Flags, flagByID[id])
	}

	return r
}

// currentPriority is a placeholder used only to make mergeFlag's signature
// symmetric; the true incumbent priority is tracked by the caller via
// first-write-wins semantics in flagByID, so ties are broken purely by
// richness (description, then value-type specificity) among contributions
// seen so far, and the earliest (highest-priority) contributor otherwise.
func currentPriority(sorted []Contribution, f model.FlagSchema) int {
	for _, c := range sorted {
		for _, cf := range c.Partial.Flags {
			if cf.ID() == f.ID() {
				return c.Priority
			}
		}
	}
	return len(sorted)
}

// mergeFlag applies the "richer wins" rule from spec.md §4.4: prefer the
// flag with a description, then the one with a more specific value type,
// then the higher-priority (lower Priority number) dialect.
func mergeFlag(existing, incoming model.FlagSchema, incomingPriority, existingPriority int) model.FlagSchema {
	merged := existing

	if merged.Description == "" && incoming.Description != "" {
		merged = preferValueAndMeta(merged, incoming, incomingPriority, existingPriority)
		merged.Description = incoming.Description
		return merged
	}
	if merged.Description != "" && incoming.Description == "" {
		return preferValueAndMeta(incoming, merged, existingPriority, incomingPriority)
	}

	if incoming.ValueType.Specificity() > merged.ValueType.Specificity() {
		return preferValueAndMeta(merged, incoming, incomingPriority, existingPriority)
	}
	if incoming.ValueType.Specificity() < merged.ValueType.Specificity() {
		return preferValueAndMeta(incoming, merged, existingPriority, incomingPriority)
	}

	if incomingPriority < existingPriority {
		return preferValueAndMeta(merged, incoming, incomingPriority, existingPriority)
	}
	return preferValueAndMeta(incoming, merged, existingPriority, incomingPriority)
}

// preferValueAndMeta takes the incoming flag's value as the merge winner
// but unions conflicts_with/requires/multiple so a richer source doesn't
// silently drop attributes a leaner one already found.
func preferValueAndMeta(existing, incoming model.FlagSchema, _, _ int) model.FlagSchema {
	merged := incoming
	merged.ConflictsWith = unionStrings(existing.ConflictsWith, incoming.ConflictsWith)
	merged.Requires = unionStrings(existing.Requires, incoming.Requires)
	merged.Multiple = existing.Multiple || incoming.Multiple
	if merged.Short == "" {
		merged.Short = existing.Short
	}
	if merged.Long == "" {
		merged.Long = existing.Long
	}
	return merged
}

func unionStrings(a, b []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range append(append([]string{}, a...), b...) {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// mergeSubcommands combines two lists of SubcommandSchema: two
// subcommands are the same if they share a name, or one's alias equals
// the other's name. Matched pairs merge their flags/positional/nested
// subcommands recursively.
func mergeSubcommands(existing, incoming []model.SubcommandSchema) []model.SubcommandSchema {
	result := append([]model.SubcommandSchema{}, existing...)

	for _, in := range incoming {
		idx := findMatchingSubcommand(result, in)
		if idx == -1 {
			result = append(result, in)
			continue
		}
		result[idx] = mergeSubcommand(result[idx], in)
	}
	return result
}

func findMatchingSubcommand(subs []model.SubcommandSchema, candidate model.SubcommandSchema) int {
	for i, s := range subs {
		if s.Name == candidate.Name {
			return i
		}
		if aliasMatches(s.Aliases, candidate.Name) || aliasMatches(candidate.Aliases, s.Name) {
			return i
		}
	}
	return -1
}

func aliasMatches(aliases []string, name string) bool {
	for _, a := range aliases {
		if a == name {
			return true
		}
	}
	return false
}

func mergeSubcommand(existing, incoming model.SubcommandSchema) model.SubcommandSchema {
	merged := existing
	if merged.Description == "" {
		merged.Description = incoming.Description
	}
	merged.Aliases = unionStrings(merged.Aliases, incoming.Aliases)

	flagByID := map[string]model.FlagSchema{}
	var order []string
	for _, f := range merged.Flags {
		flagByID[f.ID()] = f
		order = append(order, f.ID())
	}
	for _, f := range incoming.Flags {
		id := f.ID()
		if existingFlag, ok := flagByID[id]; ok {
			flagByID[id] = mergeFlag(existingFlag, f, 0, 0)
		} else {
			flagByID[id] = f
			order = append(order, id)
		}
	}
	merged.Flags = nil
	for _, id := range order {
		merged.Flags = append(merged.Flags, flagByID[id])
	}

	if len(merged.Positional) == 0 {
		merged.Positional = incoming.Positional
	}

	merged.Subcommands = mergeSubcommands(merged.Subcommands, incoming.Subcommands)
	return merged
}
