// Package strategy implements the per-dialect parser strategies: given
// classified lines, each produces a partial schema and the set of lines
// it recognized. Strategies are pure, side-effect-free, and independent
// of one another, per spec.md §4.3 and §9.
package strategy

import (
	"github.com/mattsolo1/helpctl/pkg/classify"
	"github.com/mattsolo1/helpctl/pkg/detect"
	"github.com/mattsolo1/helpctl/pkg/model"
)

// PartialSchema is one strategy's contribution before merging.
type PartialSchema struct {
	Flags           []model.FlagSchema
	Subcommands     []model.SubcommandSchema
	Positional      []model.ArgSchema
	Description     string
	RecognizedLines map[int]bool
	Warnings        []string
}

// Strategy is the capability every dialect parser implements.
type Strategy interface {
	// Format is the dialect this strategy speaks.
	Format() detect.Format
	// Parse consumes classified lines and produces a partial schema.
	Parse(lines []classify.Line) PartialSchema
}

// Registry is the fixed, ordered list of strategies and the dialect
// priority the merger uses to resolve conflicts (spec.md §9: "the
// registry is a fixed ordered list; the merger's dialect-priority
// ordering lives here").
var Registry = []Strategy{
	manRawStrategy{},
	manRenderedStrategy{},
	clapStrategy{},
	gnuStrategy{},
	npmStrategy{},
	bsdStrategy{},
	genericStrategy{},
}

// PriorityOf returns a dialect's index in Registry — lower is
// higher-priority — for merge tie-breaking.
func PriorityOf(f detect.Format) int {
	for i, s := range Registry {
		if s.Format() == f {
			return i
		}
	}
	return len(Registry)
}

// newPartial returns a zero-value PartialSchema with its map initialized.
func newPartial() PartialSchema {
	return PartialSchema{RecognizedLines: make(map[int]bool)}
}
